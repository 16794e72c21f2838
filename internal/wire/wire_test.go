package wire

import "testing"

func TestBE16(t *testing.T) {
	tests := []struct {
		name string
		b    []byte
		want uint16
	}{
		{"zero", []byte{0x00, 0x00}, 0},
		{"ethertype ip", []byte{0x08, 0x00}, 0x0800},
		{"ethertype ipv6", []byte{0x86, 0xdd}, 0x86dd},
		{"trailing bytes ignored", []byte{0x00, 0x50, 0xff, 0xff}, 0x0050},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BE16(tt.b); got != tt.want {
				t.Errorf("BE16(%v) = %#x, want %#x", tt.b, got, tt.want)
			}
		})
	}
}

func TestBE32(t *testing.T) {
	b := []byte{0x0a, 0x00, 0x00, 0x01, 0xff}
	if got, want := BE32(b), uint32(0x0a000001); got != want {
		t.Errorf("BE32(%v) = %#x, want %#x", b, got, want)
	}
}

func TestFlagFieldsLength(t *testing.T) {
	const (
		flagCsum uint16 = 0x8000
		flagKey  uint16 = 0x2000
		flagSeq  uint16 = 0x1000
		flagAck  uint16 = 0x0080
	)
	spec := FlagFieldSpec{
		{Flag: flagCsum, Size: 4},
		{Flag: flagKey, Size: 4},
		{Flag: flagSeq, Size: 4},
	}

	tests := []struct {
		name  string
		flags uint16
		want  int
	}{
		{"no flags", 0, 0},
		{"csum only", flagCsum, 4},
		{"csum and key", flagCsum | flagKey, 8},
		{"all three", flagCsum | flagKey | flagSeq, 12},
		{"unrelated flag ignored", flagAck, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FlagFieldsLength(tt.flags, spec); got != tt.want {
				t.Errorf("FlagFieldsLength(%#x) = %d, want %d", tt.flags, got, tt.want)
			}
		})
	}
}

func TestFlagFieldsLengthPPTP(t *testing.T) {
	const (
		flagCsum uint16 = 0x8000
		flagKey  uint16 = 0x2000
		flagSeq  uint16 = 0x1000
		flagAck  uint16 = 0x0080
	)
	spec := FlagFieldSpec{
		{Flag: flagCsum, Size: 4},
		{Flag: flagKey, Size: 4},
		{Flag: flagSeq, Size: 4},
		{Flag: flagAck, Size: 4},
	}
	if got, want := FlagFieldsLength(flagKey|flagAck, spec), 8; got != want {
		t.Errorf("FlagFieldsLength = %d, want %d", got, want)
	}
}
