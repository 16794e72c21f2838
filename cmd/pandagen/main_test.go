package main

import "testing"

func TestBuildFromFileCompilesTheSampleDeclaration(t *testing.T) {
	g, err := buildFromFile("../../testdata/declarations/mini.decl")
	if err != nil {
		t.Fatalf("buildFromFile() error = %v", err)
	}
	if _, ok := g.Roots["ether"]; !ok {
		t.Fatal(`Roots["ether"] missing`)
	}
	target, ok := g.Nodes["ether"].Table.Lookup(0x0800)
	if !ok || target.Name != "ipv4" {
		t.Fatalf("ether_dispatch[0x0800] = %v, want ipv4", target)
	}
	tcpNode := g.Nodes["tcp"]
	if tcpNode == nil || tcpNode.TLVTable == nil {
		t.Fatal("tcp node missing its TLV table")
	}
}

func TestBuildFromFileRejectsMissingFile(t *testing.T) {
	if _, err := buildFromFile("../../testdata/declarations/does-not-exist.decl"); err == nil {
		t.Fatal("buildFromFile() error = nil, want a read error")
	}
}
