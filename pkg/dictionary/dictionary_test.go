package dictionary

import "testing"

func TestEmptyIsIdentity(t *testing.T) {
	d := New(nil)
	if !d.Empty() {
		t.Fatal("dictionary with no entries should be Empty")
	}
	if got := d.Canonicalize("AIの研究"); got != "AIの研究" {
		t.Errorf("Canonicalize on empty dict changed text: %q", got)
	}
}

func TestVariantsMapToCanonical(t *testing.T) {
	d := New([]Entry{
		{Canonical: "人工知能", Variants: []string{"AI", "エーアイ"}},
	})
	if got := d.Canonicalize("AIの研究"); got != "人工知能の研究" {
		t.Errorf("got %q", got)
	}
	if got := d.Canonicalize("エーアイの研究"); got != "人工知能の研究" {
		t.Errorf("got %q", got)
	}
}

func TestTieBrokenByEntryOrder(t *testing.T) {
	// Two entries whose variants have the same length at the same
	// position; the earlier entry should win.
	d := New([]Entry{
		{Canonical: "第一候補", Variants: []string{"ＡＢ"}},
		{Canonical: "第二候補", Variants: []string{"ＡＢ"}},
	})
	if got := d.Canonicalize("ＡＢ"); got != "第一候補" {
		t.Errorf("got %q, want 第一候補", got)
	}
}

func TestParseJSON(t *testing.T) {
	d, err := ParseJSON([]byte(`[{"surface":"人工知能","variants":["AI"]}]`))
	if err != nil {
		t.Fatalf("ParseJSON error: %v", err)
	}
	if got := d.Canonicalize("AI"); got != "人工知能" {
		t.Errorf("got %q", got)
	}
}

func TestParseJSONInvalid(t *testing.T) {
	if _, err := ParseJSON([]byte(`not json`)); err == nil {
		t.Fatal("expected error for malformed dictionary JSON")
	}
}

func TestParseJSONEmptyArray(t *testing.T) {
	d, err := ParseJSON([]byte(`[]`))
	if err != nil {
		t.Fatalf("ParseJSON error: %v", err)
	}
	if !d.Empty() {
		t.Fatal("empty JSON array should yield an Empty dictionary")
	}
}
