//go:build linux

package main

import (
	"bytes"
	"fmt"
	"syscall"
	"unsafe"

	"github.com/mdlayher/netlink"
)

const (
	rtmGetLink = 18
	iflaIFName = 3
)

type ifInfoMsg struct {
	Family uint8
	_      uint8
	Type   uint16
	Index  int32
	Flags  uint32
	Change uint32
}

// ListInterfaces enumerates network interfaces via an RTM_GETLINK dump,
// adapted from Spellinfo-sstop/internal/platform/linux.go's
// netlink.Dial/probeNetlinkDiag/Message/Execute pattern — there it queries
// NETLINK_SOCK_DIAG for sockets, here it queries NETLINK_ROUTE for links.
func ListInterfaces() ([]string, error) {
	conn, err := netlink.Dial(syscall.NETLINK_ROUTE, nil)
	if err != nil {
		return nil, fmt.Errorf("pandacap: netlink dial: %w", err)
	}
	defer conn.Close()

	req := ifInfoMsg{Family: syscall.AF_UNSPEC}
	reqBytes := (*[unsafe.Sizeof(req)]byte)(unsafe.Pointer(&req))[:]

	msg := netlink.Message{
		Header: netlink.Header{
			Type:  rtmGetLink,
			Flags: netlink.Request | netlink.Dump,
		},
		Data: reqBytes,
	}

	replies, err := conn.Execute(msg)
	if err != nil {
		return nil, fmt.Errorf("pandacap: RTM_GETLINK: %w", err)
	}

	var names []string
	for _, reply := range replies {
		if len(reply.Data) < int(unsafe.Sizeof(ifInfoMsg{})) {
			continue
		}
		attrs, err := netlink.UnmarshalAttributes(reply.Data[unsafe.Sizeof(ifInfoMsg{}):])
		if err != nil {
			continue
		}
		for _, attr := range attrs {
			if int(attr.Type) == iflaIFName {
				names = append(names, nullTerminatedString(attr.Data))
				break
			}
		}
	}
	return names, nil
}

func nullTerminatedString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
