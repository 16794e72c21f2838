package proto

// IGMP is a fixed-length leaf node for IGMPv2-style membership
// messages.
var IGMP = &ProtoNode{
	Name:   "igmp",
	MinLen: 8,
}
