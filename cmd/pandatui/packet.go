package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/gopanda/panda/internal/engine"
	"github.com/gopanda/panda/internal/metadata"
)

// runPacket decodes the hex pane's contents, runs it through the walk
// engine against the currently selected root, and stashes a renderable
// result. Split out from the key handler so it can be exercised directly
// in tests without driving the full bubbletea update loop.
func (m *Model) runPacket() {
	m.haveResult = true

	if len(m.roots) == 0 {
		m.result = packetResult{err: "graph has no roots to parse against"}
		return
	}

	raw := strings.TrimSpace(m.hexInput.Value())
	raw = strings.ReplaceAll(raw, " ", "")
	pkt, err := hex.DecodeString(raw)
	if err != nil {
		m.result = packetResult{err: fmt.Sprintf("bad hex: %v", err)}
		return
	}

	root := m.g.Roots[m.roots[m.rootIdx]]
	limits := engine.DefaultLimits()
	frames := metadata.NewFrameSet(limits.MaxFrameNum)
	sc := engine.Parse(root, pkt, limits, frames)

	m.result = packetResult{
		stopCode: sc.String(),
		frames:   formatFrames(frames.Frames()),
	}
}

// formatFrames renders the non-zero-value top-level fields of each
// populated metadata.Frame, one summary line per frame (one frame per
// encapsulation layer, per spec.md §5).
func formatFrames(frames []metadata.Frame) []string {
	lines := make([]string, 0, len(frames))
	for i, f := range frames {
		var parts []string
		if f.Ether.EtherType != 0 {
			parts = append(parts, fmt.Sprintf("ether_type=0x%04x src=%s dst=%s", f.Ether.EtherType, f.Ether.SrcMAC, f.Ether.DstMAC))
		}
		if f.IP.Version != 0 {
			parts = append(parts, fmt.Sprintf("ip_v%d src=%s dst=%s next=%d", f.IP.Version, f.IP.SrcIP, f.IP.DstIP, f.IP.NextHeader))
		}
		if f.Ports.SrcPort != 0 || f.Ports.DstPort != 0 {
			parts = append(parts, fmt.Sprintf("ports %d->%d", f.Ports.SrcPort, f.Ports.DstPort))
		}
		if f.GRE.Protocol != 0 {
			parts = append(parts, fmt.Sprintf("gre v%d proto=0x%04x", f.GRE.Version, f.GRE.Protocol))
		}
		if f.ICMP.Type != 0 || f.ICMP.Code != 0 {
			parts = append(parts, fmt.Sprintf("icmp type=%d code=%d", f.ICMP.Type, f.ICMP.Code))
		}
		if f.TCPOpt.HasMSS || f.TCPOpt.HasWindowScale || f.TCPOpt.HasTimestamps {
			parts = append(parts, fmt.Sprintf("tcp_opts mss=%d ws=%d ts=%v", f.TCPOpt.MSS, f.TCPOpt.WindowScale, f.TCPOpt.HasTimestamps))
		}
		if len(parts) == 0 {
			parts = append(parts, "(empty)")
		}
		lines = append(lines, fmt.Sprintf("frame[%d]: %s", i, strings.Join(parts, " ")))
	}
	return lines
}
