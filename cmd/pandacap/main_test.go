package main

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHandlePacketRecordsAStopCode(t *testing.T) {
	stopCodeTotal.Reset()

	// Ethernet + IPv4 with IHL=4 (too short): should record LENGTH.
	pkt := make([]byte, 34)
	pkt[12], pkt[13] = 0x08, 0x00 // EtherType IPv4
	pkt[14] = 0x44                // version=4, IHL=4

	handlePacket(pkt)

	if got := testutil.ToFloat64(stopCodeTotal.WithLabelValues("LENGTH")); got != 1 {
		t.Errorf("stopcode_total{stopcode=LENGTH} = %v, want 1", got)
	}
}
