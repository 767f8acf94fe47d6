// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package geoip provides IP-to-country lookup using a MaxMind
// GeoLite2-Country database.
package geoip

import (
	"fmt"
	"net"
	"sync"

	"github.com/oschwald/maxminddb-golang"
)

// privateCIDRs holds the private IP ranges, parsed once at load time.
var privateCIDRs []*net.IPNet

func init() {
	blocks := []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"fc00::/7",  // IPv6 unique local
		"fe80::/10", // IPv6 link-local
	}
	for _, block := range blocks {
		_, cidr, err := net.ParseCIDR(block)
		if err == nil {
			privateCIDRs = append(privateCIDRs, cidr)
		}
	}
}

// Lookup resolves IP addresses to 2-letter ISO country codes. The zero value
// is a disabled lookup that returns empty codes, so a missing database file
// degrades gracefully.
type Lookup struct {
	mu      sync.RWMutex
	db      *maxminddb.Reader
	enabled bool
}

type geoRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

// NewLookup creates a GeoIP lookup. An empty dbPath disables lookups without
// error; a path that fails to open returns the error so the caller can log it.
func NewLookup(dbPath string) (*Lookup, error) {
	l := &Lookup{}
	if dbPath == "" {
		return l, nil
	}

	db, err := maxminddb.Open(dbPath)
	if err != nil {
		return l, fmt.Errorf("opening GeoIP database: %w", err)
	}

	l.db = db
	l.enabled = true
	return l, nil
}

// Country returns the ISO country code for an IP address, "LOCAL" for
// private and loopback addresses, and "" when the code cannot be determined.
func (l *Lookup) Country(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ""
	}
	if parsed.IsLoopback() || isPrivateIP(parsed) {
		return "LOCAL"
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if !l.enabled || l.db == nil {
		return ""
	}

	var record geoRecord
	if err := l.db.Lookup(parsed, &record); err != nil {
		return ""
	}
	return record.Country.ISOCode
}

// IsEnabled returns whether database-backed lookups are available.
func (l *Lookup) IsEnabled() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.enabled
}

// Close closes the underlying database.
func (l *Lookup) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db != nil {
		err := l.db.Close()
		l.db = nil
		l.enabled = false
		return err
	}
	return nil
}

func isPrivateIP(ip net.IP) bool {
	for _, cidr := range privateCIDRs {
		if cidr.Contains(ip) {
			return true
		}
	}
	return false
}
