// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package geoip

import "testing"

func TestDisabledLookup(t *testing.T) {
	l, err := NewLookup("")
	if err != nil {
		t.Fatalf("NewLookup: %v", err)
	}
	defer func() { _ = l.Close() }()

	if l.IsEnabled() {
		t.Error("lookup with no database should be disabled")
	}
	if got := l.Country("8.8.8.8"); got != "" {
		t.Errorf("Country = %q, want empty when disabled", got)
	}
}

func TestLocalAddresses(t *testing.T) {
	l, err := NewLookup("")
	if err != nil {
		t.Fatalf("NewLookup: %v", err)
	}
	defer func() { _ = l.Close() }()

	tests := []struct {
		ip   string
		want string
	}{
		{"127.0.0.1", "LOCAL"},
		{"10.1.2.3", "LOCAL"},
		{"192.168.0.42", "LOCAL"},
		{"172.16.5.5", "LOCAL"},
		{"fe80::1", "LOCAL"},
		{"not-an-ip", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			if got := l.Country(tt.ip); got != tt.want {
				t.Errorf("Country(%q) = %q, want %q", tt.ip, got, tt.want)
			}
		})
	}
}

func TestMissingDatabase(t *testing.T) {
	l, err := NewLookup("/nonexistent/geoip.mmdb")
	if err == nil {
		t.Error("expected error for missing database file")
	}
	if l.IsEnabled() {
		t.Error("lookup should be disabled after open failure")
	}
}
