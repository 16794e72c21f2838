// Package wire implements the unaligned big-endian field reads and the
// flag-field-length computation shared by the protocol node library.
package wire

import "encoding/binary"

// BE16 reads an unaligned big-endian 16-bit field at the start of b.
// Callers are responsible for bounds-checking b before calling BE16.
func BE16(b []byte) uint16 {
	return binary.BigEndian.Uint16(b)
}

// BE32 reads an unaligned big-endian 32-bit field at the start of b.
func BE32(b []byte) uint32 {
	return binary.BigEndian.Uint32(b)
}

// FlagField is one entry of a flag-field spec: if Flag is set in the
// header's flags word, the field contributes Size bytes to the header
// length. Order matches wire layout.
type FlagField struct {
	Flag uint16
	Size int
}

// FlagFieldSpec is an ordered list of flag/size pairs, e.g. the GRE v0
// csum/key/seq fields or the GRE v1/PPTP csum/key/seq/ack fields.
type FlagFieldSpec []FlagField

// FlagFieldsLength sums Size over every field whose Flag bit is set in
// flags. Order is semantic only for readability; every matching field's
// Size is summed regardless of position.
func FlagFieldsLength(flags uint16, spec FlagFieldSpec) int {
	length := 0
	for _, f := range spec {
		if flags&f.Flag != 0 {
			length += f.Size
		}
	}
	return length
}
