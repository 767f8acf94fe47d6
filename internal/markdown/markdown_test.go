// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package markdown

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	html, err := Render("# Heading\n\nSome *emphasis* here.")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(html, "<h1") {
		t.Errorf("expected <h1> in output, got %q", html)
	}
	if !strings.Contains(html, "<em>emphasis</em>") {
		t.Errorf("expected <em> in output, got %q", html)
	}
}

func TestRenderStripsScript(t *testing.T) {
	html, err := Render("hello <script>alert(1)</script> world")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(html, "<script") {
		t.Errorf("script tag survived sanitization: %q", html)
	}
	if !strings.Contains(html, "hello") {
		t.Errorf("expected text content to survive, got %q", html)
	}
}
