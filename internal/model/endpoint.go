package model

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// Endpoint is a resolved connection target. Host is always a bare hostname or
// IP address; a scheme, when the user supplied one, is kept separately.
type Endpoint struct {
	Scheme string
	Host   string
	Port   int
}

// Address returns host:port, bracketing IPv6 literals.
func (e Endpoint) Address() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// BaseURL returns scheme://host:port, defaulting the scheme to http.
func (e Endpoint) BaseURL() string {
	scheme := e.Scheme
	if scheme == "" {
		scheme = "http"
	}
	return scheme + "://" + e.Address()
}

func (e Endpoint) String() string {
	if e.Scheme != "" {
		return e.BaseURL()
	}
	return e.Address()
}

// ParseHostInput splits free-form user input into an Endpoint. Accepted forms:
//
//	db.lan
//	db.lan:5433
//	[fd00::10]:5432
//	https://llm.example.com
//	https://llm.example.com:8443
//
// Port is zero when the input carries none. An explicit port outside 1-65535
// is an InvalidPort error rather than a missing port.
func ParseHostInput(s string) (Endpoint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Endpoint{}, fmt.Errorf("host is empty")
	}

	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil {
			return Endpoint{}, fmt.Errorf("parse %q: %w", s, err)
		}
		scheme := strings.ToLower(u.Scheme)
		if scheme != "http" && scheme != "https" {
			return Endpoint{}, fmt.Errorf("unsupported scheme %q (want http or https)", u.Scheme)
		}
		if u.Hostname() == "" {
			return Endpoint{}, fmt.Errorf("%q has no host", s)
		}
		if u.Path != "" && u.Path != "/" {
			return Endpoint{}, fmt.Errorf("%q must not include a path", s)
		}
		ep := Endpoint{Scheme: scheme, Host: u.Hostname()}
		if p := u.Port(); p != "" {
			port, err := explicitPort(s, p)
			if err != nil {
				return Endpoint{}, err
			}
			ep.Port = port
		}
		return ep, nil
	}

	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		// No port, or a bare IPv6 literal.
		return Endpoint{Host: strings.Trim(s, "[]")}, nil
	}
	port, err := explicitPort(s, portStr)
	if err != nil {
		return Endpoint{}, err
	}
	return Endpoint{Host: host, Port: port}, nil
}

func explicitPort(input, p string) (int, error) {
	port, err := strconv.Atoi(p)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q", p)
	}
	if !ValidPort(port) {
		return 0, &ServiceError{Kind: KindInvalidPort, Endpoint: input, Detail: fmt.Sprintf("port %d out of range 1-65535", port)}
	}
	return port, nil
}

// HostInputError attributes a ParseHostInput failure to a service. Port
// range errors keep their kind; anything else is an invalid hostname.
func HostInputError(service, input string, err error) error {
	var se *ServiceError
	if errors.As(err, &se) {
		out := *se
		out.Service = service
		out.Endpoint = input
		return &out
	}
	return &ServiceError{Kind: KindInvalidHostname, Service: service, Endpoint: input, Err: err}
}

// Loopback reports whether the host is only reachable from the machine
// itself. Containers resolve such hosts to their own network namespace.
func (e Endpoint) Loopback() bool {
	if strings.EqualFold(e.Host, "localhost") {
		return true
	}
	ip := net.ParseIP(e.Host)
	return ip != nil && ip.IsLoopback()
}
