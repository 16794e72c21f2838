package parsers

import "testing"

func TestBigGraphHasBothRoots(t *testing.T) {
	if BigEtherRoot == nil {
		t.Fatal("BigEtherRoot is nil")
	}
	if BigIPRoot == nil {
		t.Fatal("BigIPRoot is nil")
	}
	if BigEtherRoot.Node.Name != "ether" {
		t.Errorf("BigEtherRoot.Node.Name = %q, want ether", BigEtherRoot.Node.Name)
	}
	if BigIPRoot.Node.Name != "ip_overlay" {
		t.Errorf("BigIPRoot.Node.Name = %q, want ip_overlay", BigIPRoot.Node.Name)
	}
}

func TestBigGraphTCPHasOptionTable(t *testing.T) {
	tcp, ok := Big.Nodes["tcp"]
	if !ok {
		t.Fatal("no tcp node in Big")
	}
	if tcp.TLVTable == nil {
		t.Fatal("tcp node has no TLV table")
	}
	if _, ok := tcp.TLVTable.Lookup(2); !ok { // TCPOptMSS
		t.Error("tcp option table has no entry for kind 2 (MSS)")
	}
}

func TestDefaultEnvNamesEveryProtoNodeBigWires(t *testing.T) {
	env := DefaultEnv()
	for _, name := range []string{
		"ether", "vlan", "mpls", "arp", "rarp", "tipc", "fcoe", "batman",
		"ip_overlay", "ipv4", "ipv6", "ipv6_eh", "ipv6_frag",
		"igmp", "icmp", "icmpv6", "tcp", "udp", "sctp", "dccp",
		"gre_base", "gre_v0", "gre_v1", "ppp",
	} {
		if _, ok := env.Protos[name]; !ok {
			t.Errorf("DefaultEnv missing proto %q", name)
		}
	}
}
