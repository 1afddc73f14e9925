package model

import (
	"fmt"
	"strconv"
	"strings"
)

// PortBinding is a host-to-container port publication.
type PortBinding struct {
	HostIP        string
	HostPort      int
	ContainerPort int
	Protocol      string // tcp or udp
}

// String returns a human-readable binding, e.g. "18123→8123".
func (p PortBinding) String() string {
	proto := ""
	if p.Protocol != "" && p.Protocol != "tcp" {
		proto = "/" + p.Protocol
	}
	if p.HostPort == p.ContainerPort {
		return fmt.Sprintf("%d%s", p.HostPort, proto)
	}
	return fmt.Sprintf("%d→%d%s", p.HostPort, p.ContainerPort, proto)
}

// ComposeShort renders the compose short syntax, e.g. "18123:8123".
func (p PortBinding) ComposeShort() string {
	s := fmt.Sprintf("%d:%d", p.HostPort, p.ContainerPort)
	if p.HostIP != "" {
		s = p.HostIP + ":" + s
	}
	if p.Protocol != "" && p.Protocol != "tcp" {
		s += "/" + p.Protocol
	}
	return s
}

// ParsePortBinding parses compose short syntax ("8080:80", "127.0.0.1:8080:80/tcp")
// and the docker ps form ("0.0.0.0:8080->80/tcp").
func ParsePortBinding(s string) (PortBinding, error) {
	pb := PortBinding{Protocol: "tcp"}
	orig := s
	s = strings.TrimSpace(strings.Replace(s, "->", ":", 1))

	if idx := strings.Index(s, "/"); idx != -1 {
		pb.Protocol = s[idx+1:]
		s = s[:idx]
	}

	parts := strings.Split(s, ":")
	var err error
	switch len(parts) {
	case 1:
		pb.HostPort, err = strconv.Atoi(parts[0])
		pb.ContainerPort = pb.HostPort
	case 2:
		if pb.HostPort, err = strconv.Atoi(parts[0]); err == nil {
			pb.ContainerPort, err = strconv.Atoi(parts[1])
		}
	case 3:
		pb.HostIP = parts[0]
		if pb.HostPort, err = strconv.Atoi(parts[1]); err == nil {
			pb.ContainerPort, err = strconv.Atoi(parts[2])
		}
	default:
		return PortBinding{}, fmt.Errorf("unsupported port binding %q", orig)
	}
	if err != nil {
		return PortBinding{}, fmt.Errorf("invalid port binding %q: %w", orig, err)
	}
	return pb, nil
}

// ValidPort reports whether p is a usable TCP/UDP port number.
func ValidPort(p int) bool {
	return p >= 1 && p <= 65535
}
