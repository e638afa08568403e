package charclass

import "testing"

func TestOf(t *testing.T) {
	cases := []struct {
		r    rune
		want Class
	}{
		{'あ', Hiragana},
		{'ん', Hiragana},
		{'ア', Katakana},
		{'ー', Katakana},
		{'漢', Kanji},
		{'字', Kanji},
		{'a', Alnum},
		{'Z', Alnum},
		{'5', Alnum},
		{'５', Alnum},
		{' ', Other},
		{'。', Other},
		{'!', Other},
	}

	for _, c := range cases {
		if got := Of(c.r); got != c.want {
			t.Errorf("Of(%q) = %v, want %v", c.r, got, c.want)
		}
	}
}

func TestIsOther(t *testing.T) {
	if IsOther('あ') {
		t.Error("hiragana should not be classified as other")
	}
	if !IsOther(' ') {
		t.Error("space should be classified as other")
	}
}
