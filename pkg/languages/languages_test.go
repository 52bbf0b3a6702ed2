package languages

import "testing"

func TestLookupAcceptsCodesAndNames(t *testing.T) {
	cases := []struct {
		input string
		want  string
		ok    bool
	}{
		{input: "es", want: "es", ok: true},
		{input: "Spanish", want: "es", ok: true},
		{input: " spanish ", want: "es", ok: true},
		{input: "DE", want: "de", ok: true},
		{input: "klingon", ok: false},
		{input: "", ok: false},
	}
	for _, tc := range cases {
		got, ok := Normalize(tc.input)
		if ok != tc.ok || got != tc.want {
			t.Errorf("Normalize(%q) = %q, %v; want %q, %v", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}

func TestNameForFallsBackToInput(t *testing.T) {
	if got := NameFor("nl"); got != "Dutch" {
		t.Fatalf("expected Dutch, got %q", got)
	}
	if got := NameFor("xx"); got != "xx" {
		t.Fatalf("expected passthrough, got %q", got)
	}
	if len(SupportedCodes()) != len(Options) {
		t.Fatalf("expected one code per option")
	}
}
