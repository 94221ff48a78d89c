// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package siteurl

import (
	"net/netip"
	"strconv"
	"strings"
)

// Parts holds the components of an absolute URL. Host never carries a port;
// IPv6 literals may be given with or without brackets. A zero Port means no
// port was given.
type Parts struct {
	Scheme   string
	User     string
	Pass     string
	Host     string
	Port     int
	Path     string
	Query    string
	Fragment string
}

// defaultPorts lists the ports implied by a scheme.
var defaultPorts = map[string]int{
	"http":  80,
	"https": 443,
}

// String serializes p. Scheme defaults to http and host to localhost. The
// port is omitted when it is the default of http or https; any other scheme
// always carries an explicit port. The path gets exactly one leading slash.
func (p Parts) String() string {
	scheme := p.Scheme
	if scheme == "" {
		scheme = "http"
	}
	host := p.Host
	if host == "" {
		host = "localhost"
	}
	if ip, err := netip.ParseAddr(host); err == nil && ip.Is6() {
		host = "[" + host + "]"
	}

	var b strings.Builder
	b.WriteString(scheme)
	b.WriteString("://")
	if p.User != "" {
		b.WriteString(p.User)
		if p.Pass != "" {
			b.WriteByte(':')
			b.WriteString(p.Pass)
		}
		b.WriteByte('@')
	}
	b.WriteString(host)
	if p.Port != 0 && p.Port != defaultPorts[scheme] {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(p.Port))
	}
	b.WriteByte('/')
	b.WriteString(strings.TrimLeft(p.Path, "/"))
	if p.Query != "" {
		b.WriteByte('?')
		b.WriteString(p.Query)
	}
	if p.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(p.Fragment)
	}
	return b.String()
}
