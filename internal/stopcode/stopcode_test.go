package stopcode

import "testing"

func TestLenToStopCode(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want StopCode
	}{
		{"okay sentinel", LenStopOkay, Okay},
		{"bad flag sentinel", LenStopBadFlag, BadFlag},
		{"fail sentinel", LenStopFail, Fail},
		{"unrecognized negative defaults to fail", -99, Fail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LenToStopCode(tt.n); got != tt.want {
				t.Errorf("LenToStopCode(%d) = %v, want %v", tt.n, got, tt.want)
			}
		})
	}
}

func TestStringerCoversAllConstants(t *testing.T) {
	codes := []StopCode{Okay, Fail, Length, UnknownProto, EncapDepth, UnknownTLV, TLVLength, BadFlag}
	seen := make(map[string]bool)
	for _, c := range codes {
		s := c.String()
		if s == "UNKNOWN_STOPCODE" {
			t.Errorf("StopCode %d has no String() case", c)
		}
		if seen[s] {
			t.Errorf("duplicate String() result %q", s)
		}
		seen[s] = true
	}
}
