// Package stopcode defines the small closed set of integer codes the walk
// engine and generated code return to signal success or a specific failure
// class. Stop codes are data, not exceptions: a Parse call that hits a
// malformed packet returns a StopCode, it never panics.
package stopcode

// StopCode is the outcome of a parse walk. Values are stable so generated
// code can return them directly without a translation table.
type StopCode int

const (
	// Okay marks successful termination at a leaf, an overlay terminus, or
	// a protocol-specific early acceptance (e.g. GRE with ROUTING set).
	Okay StopCode = iota
	// Fail marks a generic protocol-specific rejection.
	Fail
	// Length marks remaining bytes shorter than the required header length.
	Length
	// UnknownProto marks a dispatch key absent from the table with no
	// wildcard fallback declared.
	UnknownProto
	// EncapDepth marks the encapsulation depth budget (Limits.MaxEncaps)
	// exceeded.
	EncapDepth
	// UnknownTLV is the TLV-sub-walk analogue of UnknownProto.
	UnknownTLV
	// TLVLength is the TLV-sub-walk analogue of Length.
	TLVLength
	// BadFlag marks a protocol-specific flag-combination rejection. GRE v1
	// without PPP/KEY does not use it: that case ends the walk with Okay.
	BadFlag
)

func (c StopCode) String() string {
	switch c {
	case Okay:
		return "OKAY"
	case Fail:
		return "FAIL"
	case Length:
		return "LENGTH"
	case UnknownProto:
		return "UNKNOWN_PROTO"
	case EncapDepth:
		return "ENCAP_DEPTH"
	case UnknownTLV:
		return "UNKNOWN_TLV"
	case TLVLength:
		return "TLV_LENGTH"
	case BadFlag:
		return "BAD_FLAG"
	default:
		return "UNKNOWN_STOPCODE"
	}
}

// Length-function sentinels. A ProtoNode.Len function returns either a
// non-negative header length or one of these negative sentinels, mirroring
// the original C convention of a negative ssize_t encoding a stop code
// (see original_source/proto_gre.h's PANDA_STOP_OKAY). LenToStopCode
// converts a raw Len() return value that has already been identified as
// negative into the StopCode it encodes.
const (
	LenStopOkay    = -1
	LenStopFail    = -2
	LenStopBadFlag = -3
)

// LenToStopCode maps a negative value returned by a ProtoNode.Len function
// to the StopCode it represents. Callers must only invoke this once they
// have established the length is negative.
func LenToStopCode(n int) StopCode {
	switch n {
	case LenStopOkay:
		return Okay
	case LenStopBadFlag:
		return BadFlag
	default:
		return Fail
	}
}
