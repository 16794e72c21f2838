package proto

// FCoE is a fixed-length leaf node for the Fibre Channel over Ethernet
// encapsulation header; FC frame contents are out of scope.
var FCoE = &ProtoNode{
	Name:   "fcoe",
	MinLen: 14,
}
