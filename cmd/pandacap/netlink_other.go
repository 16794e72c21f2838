//go:build !linux

package main

import "fmt"

// ListInterfaces has no netlink-based implementation outside Linux; the
// stdlib net.Interfaces() fallback in iface.go covers interface discovery
// on other platforms.
func ListInterfaces() ([]string, error) {
	return nil, fmt.Errorf("pandacap: netlink interface listing is Linux-only")
}
