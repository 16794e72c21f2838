package proto

import "github.com/gopanda/panda/internal/metadata"

// TIPC is a fixed-length leaf node for the common transport-layer
// header prefix (the user_data field selects payload type but is not
// dissected further here).
var TIPC = &ProtoNode{
	Name:   "tipc",
	MinLen: 4,
}

// ExtractTIPC fills TIPCInfo.UserData from the top 4 bits of the first
// header word.
func ExtractTIPC(hdr []byte, frame *metadata.Frame, _ *Ctrl) {
	frame.TIPC.UserData = hdr[0] >> 4
}
