package storefront

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name   string
		page   string
		want   string
		wantOK bool
	}{
		{
			name:   "store page",
			page:   "<html><head><title>Half-Life 2 on Steam</title></head></html>",
			want:   "Half-Life 2",
			wantOK: true,
		},
		{
			name:   "discounted page keeps prefix",
			page:   "<title>Save 50% on Foo: Bar on Steam</title>",
			want:   "Save 50% on Foo: Bar",
			wantOK: true,
		},
		{
			name:   "title on its own line",
			page:   "<head>\n\t\t<title>Portal 2 on Steam</title>\n</head>",
			want:   "Portal 2",
			wantOK: true,
		},
		{
			name:   "missing opening marker",
			page:   "<head>Half-Life 2 on Steam</title></head>",
			wantOK: false,
		},
		{
			name:   "missing closing marker",
			page:   "<title>Welcome to Steam</title>",
			wantOK: false,
		},
		{
			name:   "closing marker before opening marker",
			page:   " on Steam</title><title>Broken",
			wantOK: false,
		},
		{
			name:   "empty page",
			page:   "",
			wantOK: false,
		},
		{
			name:   "empty title",
			page:   "<title> on Steam</title>",
			want:   "",
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractTitle(tt.page)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "Half-Life 2", "Half-Life 2"},
		{"discount and colon", "Save 50% on Foo: Bar", "Foo Bar"},
		{"large discount", "Save 100% on Dota 2", "Dota 2"},
		{"discount not at start", "Please Save 50% on Foo", "Please Save 50% on Foo"},
		{"discount without digits", "Save % on Foo", "Save % on Foo"},
		{"slash", "Mega Man Zero/ZX Legacy Collection", "Mega Man ZeroZX Legacy Collection"},
		{"every forbidden character", `a\b/c:d*e?f"g<h>i|j`, "abcdefghij"},
		{"colon title", "XCOM: Enemy Unknown", "XCOM Enemy Unknown"},
		{"surrounding whitespace", "  Portal  ", "Portal"},
		{"newline inside", "Line\nBreak", "Line Break"},
		{"only forbidden", `???`, ""},
		{"unicode kept", "ニーア オートマタ", "ニーア オートマタ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeTitle(tt.raw))
		})
	}
}
