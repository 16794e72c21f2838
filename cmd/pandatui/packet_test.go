package main

import (
	"strings"
	"testing"

	"github.com/gopanda/panda/internal/metadata"
	"github.com/gopanda/panda/internal/parsers"
)

func TestRunPacketRejectsBadHex(t *testing.T) {
	m := New(parsers.Big)
	m.hexInput.SetValue("not hex")
	m.runPacket()

	if m.result.err == "" {
		t.Fatal("expected a hex decode error")
	}
}

func TestRunPacketRunsAgainstSelectedRoot(t *testing.T) {
	m := New(parsers.Big)
	// Ethernet header plus a single IPv4 byte (0x44), far below IPv4's
	// 20-byte minimum: walk should stop at LENGTH.
	m.hexInput.SetValue("000000000000000000000000080044")
	m.runPacket()

	if m.result.err != "" {
		t.Fatalf("unexpected error: %s", m.result.err)
	}
	if m.result.stopCode != "LENGTH" {
		t.Errorf("stop code = %q, want LENGTH", m.result.stopCode)
	}
}

func TestFormatFramesSummarizesPopulatedFields(t *testing.T) {
	f := metadata.Frame{}
	f.Ether.EtherType = 0x0800
	f.IP.Version = 4

	lines := formatFrames([]metadata.Frame{f})
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if !strings.Contains(lines[0], "ether_type=0x0800") || !strings.Contains(lines[0], "ip_v4") {
		t.Errorf("line = %q, missing expected fields", lines[0])
	}
}
