package source

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

var reRelative = regexp.MustCompile(`^(\d+)\+?\s*(minute|min|hour|hr|day|week|month)s?\s+ago$`)

// ParseDate parses a provider date string. It accepts ISO-8601 variants,
// unix seconds and relative phrases such as "3 days ago". Anything else
// yields nil. Results are UTC, truncated to the second.
func ParseDate(raw string, now time.Time) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return normalizeTime(t)
		}
	}

	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ParseUnix(secs)
	}

	return parseRelative(strings.ToLower(s), now)
}

// ParseUnix converts unix seconds; zero or negative values yield nil.
func ParseUnix(secs int64) *time.Time {
	if secs <= 0 {
		return nil
	}
	return normalizeTime(time.Unix(secs, 0))
}

func parseRelative(s string, now time.Time) *time.Time {
	switch s {
	case "today", "just now", "just posted":
		return normalizeTime(now)
	case "yesterday":
		return normalizeTime(now.AddDate(0, 0, -1))
	}

	m := reRelative.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}

	var t time.Time
	switch m[2] {
	case "minute", "min":
		t = now.Add(-time.Duration(n) * time.Minute)
	case "hour", "hr":
		t = now.Add(-time.Duration(n) * time.Hour)
	case "day":
		t = now.AddDate(0, 0, -n)
	case "week":
		t = now.AddDate(0, 0, -7*n)
	case "month":
		t = now.AddDate(0, -n, 0)
	}
	return normalizeTime(t)
}

func normalizeTime(t time.Time) *time.Time {
	u := t.UTC().Truncate(time.Second)
	return &u
}

// ParseJSONDate parses a date field whose JSON type varies between
// providers: a unix number or a string.
func ParseJSONDate(raw json.RawMessage, now time.Time) *time.Time {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if secs, err := n.Int64(); err == nil {
			return ParseUnix(secs)
		}
		if f, err := n.Float64(); err == nil {
			return ParseUnix(int64(f))
		}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ParseDate(s, now)
	}
	return nil
}
