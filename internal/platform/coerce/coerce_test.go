package coerce

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestToNumber(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   any
		want float64
	}{
		{name: "float", in: 3.5, want: 3.5},
		{name: "int", in: 12, want: 12},
		{name: "numeric string", in: " 42 ", want: 42},
		{name: "decimal string", in: "7.25", want: 7.25},
		{name: "json number", in: json.Number("18"), want: 18},
		{name: "empty string", in: "   ", want: 0},
		{name: "garbage string", in: "abc", want: 0},
		{name: "partial numeric string", in: "12abc", want: 0},
		{name: "nan", in: math.NaN(), want: 0},
		{name: "infinity", in: math.Inf(1), want: 0},
		{name: "infinity string", in: "Inf", want: 0},
		{name: "nil", in: nil, want: 0},
		{name: "bool", in: true, want: 0},
		{name: "map", in: map[string]any{"total": 3}, want: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ToNumber(tc.in)
			if got != tc.want {
				t.Fatalf("ToNumber(%#v)=%v want %v", tc.in, got, tc.want)
			}
			if math.IsNaN(got) || math.IsInf(got, 0) {
				t.Fatalf("ToNumber returned non-finite value %v", got)
			}
		})
	}
}

func TestLeadingFloat(t *testing.T) {
	t.Parallel()

	if got, ok := LeadingFloat("7.4 (avg)"); !ok || got != 7.4 {
		t.Fatalf("expected 7.4, got %v ok=%v", got, ok)
	}
	if got, ok := LeadingFloat(6); !ok || got != 6 {
		t.Fatalf("expected 6, got %v ok=%v", got, ok)
	}
	if _, ok := LeadingFloat("n/a"); ok {
		t.Fatalf("expected unreadable rating")
	}
	if _, ok := LeadingFloat(nil); ok {
		t.Fatalf("expected nil to be unreadable")
	}
}

func TestToString(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   any
		want string
	}{
		{in: "Arsenal", want: "Arsenal"},
		{in: "", want: ""},
		{in: 2024, want: "2024"},
		{in: 7.5, want: "7.5"},
		{in: float64(30), want: "30"},
		{in: false, want: "false"},
		{in: json.Number("11"), want: "11"},
		{in: nil, want: "fallback"},
		{in: map[string]any{}, want: "fallback"},
		{in: []any{"a"}, want: "fallback"},
	}

	for _, tc := range cases {
		if got := ToString(tc.in, "fallback"); got != tc.want {
			t.Fatalf("ToString(%#v)=%q want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	inputs := []any{
		"2024-01-01",
		"2024-01-01T00:00:00Z",
		"2024-01-01T00:00:00",
		"01/01/2024",
		"01.01.2024",
		"Jan 1, 2024",
		want,
		want.UnixMilli(),
	}
	for _, in := range inputs {
		got, ok := ParseDate(in)
		if !ok {
			t.Fatalf("ParseDate(%#v) failed", in)
		}
		if !got.Equal(want) {
			t.Fatalf("ParseDate(%#v)=%s want %s", in, got, want)
		}
	}

	for _, in := range []any{nil, "", "not a date", time.Time{}, map[string]any{}, math.NaN(), math.Inf(1), 9e15} {
		if _, ok := ParseDate(in); ok {
			t.Fatalf("ParseDate(%#v) should fail", in)
		}
	}
}

func TestParseDate_EpochZero(t *testing.T) {
	t.Parallel()

	for _, in := range []any{0, int64(0), float64(0)} {
		got, ok := ParseDate(in)
		if !ok {
			t.Fatalf("ParseDate(%#v) should accept the epoch", in)
		}
		if !got.Equal(time.Unix(0, 0)) {
			t.Fatalf("ParseDate(%#v)=%s want 1970-01-01", in, got)
		}
	}
}

func TestRoundTo(t *testing.T) {
	t.Parallel()

	if got := RoundTo(7.25, 1); got != 7.3 {
		t.Fatalf("expected 7.3, got %v", got)
	}
	if got := Round(-0.5); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	if got := Round(94.5); got != 95 {
		t.Fatalf("expected 95, got %v", got)
	}
}
