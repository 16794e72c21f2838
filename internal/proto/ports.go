package proto

// UDP, SCTP, and DCCP are leaf nodes sharing the same 4-byte src/dst port
// prefix; none carries a TLV table or further dispatch in the reference
// graph. SCTP and DCCP are fixed-length; UDP takes its length from the
// header's length field.
var (
	UDP = &ProtoNode{
		Name:   "udp",
		MinLen: 8,
		Len:    udpLen,
	}

	SCTP = &ProtoNode{
		Name:   "sctp",
		MinLen: 12,
	}

	DCCP = &ProtoNode{
		Name:   "dccp",
		MinLen: 12,
	}
)

func udpLen(hdr []byte) int {
	// Returned as-is, even when below the 8-byte minimum: the engine's
	// generic length check (step 1) turns a too-small value into
	// stopcode.Length, the same convention ipv4Len/tcpLen use.
	return int(hdr[4])<<8 | int(hdr[5])
}
