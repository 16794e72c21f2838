package proto

// Batman is a fixed-length leaf node for the B.A.T.M.A.N. mesh routing
// protocol's outer header (EtherType 0x4305).
var Batman = &ProtoNode{
	Name:   "batman",
	MinLen: 6,
}
