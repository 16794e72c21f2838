package main

import "net"

// DetectDefaultInterface returns the name of the interface used for the
// default route, by dialing a UDP socket to a well-known external address
// (no packets actually sent) and matching the kernel-chosen local address
// against net.Interfaces(). Adapted directly from
// Spellinfo-sstop/internal/platform/iface.go's DetectDefaultInterface,
// which this driver needs for the same reason sstop did: know which
// interface to attach to without asking the operator every time.
func DetectDefaultInterface() string {
	conn, err := net.Dial("udp4", "8.8.8.8:53")
	if err != nil {
		return fallbackInterface()
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	targetIP := localAddr.IP

	ifaces, err := net.Interfaces()
	if err != nil {
		return ""
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 || iface.Flags&net.FlagUp == 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip != nil && ip.Equal(targetIP) {
				return iface.Name
			}
		}
	}
	return fallbackInterface()
}

// netInterfaceByName resolves an interface name to its kernel index, the
// value AF_PACKET's sockaddr_ll needs to bind a raw socket to one interface.
func netInterfaceByName(name string) (int, error) {
	ifi, err := net.InterfaceByName(name)
	if err != nil {
		return 0, err
	}
	return ifi.Index, nil
}

func fallbackInterface() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return ""
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 || iface.Flags&net.FlagUp == 0 {
			continue
		}
		if addrs, _ := iface.Addrs(); len(addrs) > 0 {
			return iface.Name
		}
	}
	return ""
}
