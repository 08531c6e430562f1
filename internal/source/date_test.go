package source

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		raw  string
		want string // RFC3339, empty for nil
	}{
		{"2024-05-01T08:30:00Z", "2024-05-01T08:30:00Z"},
		{"2024-05-01T08:30:00.123456Z", "2024-05-01T08:30:00Z"},
		{"2024-05-01T10:30:00+02:00", "2024-05-01T08:30:00Z"},
		{"2024-05-01T08:30:00", "2024-05-01T08:30:00Z"},
		{"2024-05-01 08:30:00", "2024-05-01T08:30:00Z"},
		{"2024-05-01", "2024-05-01T00:00:00Z"},
		{"1714552200", "2024-05-01T08:30:00Z"},
		{"today", "2024-05-10T12:00:00Z"},
		{"yesterday", "2024-05-09T12:00:00Z"},
		{"3 days ago", "2024-05-07T12:00:00Z"},
		{"30+ days ago", "2024-04-10T12:00:00Z"},
		{"2 hours ago", "2024-05-10T10:00:00Z"},
		{"1 week ago", "2024-05-03T12:00:00Z"},
		{"", ""},
		{"sometime soon", ""},
		{"0", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParseDate(tt.raw, now)
			if tt.want == "" {
				if got != nil {
					t.Errorf("ParseDate(%q) = %v, want nil", tt.raw, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ParseDate(%q) = nil, want %s", tt.raw, tt.want)
			}
			if s := got.Format(time.RFC3339); s != tt.want {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.raw, s, tt.want)
			}
		})
	}
}

func TestParseUnix(t *testing.T) {
	if ParseUnix(0) != nil {
		t.Error("ParseUnix(0) should be nil")
	}
	got := ParseUnix(1714552200)
	if got == nil || got.Location() != time.UTC {
		t.Fatalf("ParseUnix = %v", got)
	}
}

func TestParseJSONDate(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		raw    string
		wantOK bool
	}{
		{`1714552200`, true},
		{`"2024-05-01T08:30:00"`, true},
		{`"1714552200"`, true},
		{`null`, false},
		{``, false},
		{`{"x":1}`, false},
		{`"not a date"`, false},
	}
	for _, tt := range tests {
		got := ParseJSONDate(json.RawMessage(tt.raw), now)
		if (got != nil) != tt.wantOK {
			t.Errorf("ParseJSONDate(%s) = %v, wantOK %v", tt.raw, got, tt.wantOK)
		}
	}
}
