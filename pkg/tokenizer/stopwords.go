package tokenizer

// stopWords is the fixed set of Japanese function words the tokenizer
// filters or down-weights. The exact list is part of the exported-model
// contract: changing it changes which token surfaces reach the
// vocabulary, so models exported under one list don't transfer to
// another.
var stopWords = buildStopWords()

func buildStopWords() map[string]bool {
	groups := [][]string{
		// Particles (助詞)
		{"は", "が", "を", "に", "で", "と", "の", "へ", "や", "から",
			"まで", "より", "など", "ば", "も", "か", "し", "ね", "よ", "わ",
			"ぞ", "ぜ", "さ", "な", "だけ", "でも", "しか", "ほど", "くらい", "ばかり"},
		// Auxiliary verbs (助動詞)
		{"です", "ます", "だ", "である", "でした", "ました", "でしょう", "ましょう",
			"だろう", "であろう", "かもしれない", "かもしれません", "ない", "ません", "なかった", "ませんでした"},
		// Formal nouns (形式名詞)
		{"こと", "もの", "ため", "よう", "はず", "つもり", "わけ", "ところ", "ほう"},
		// Conjunctions (接続詞)
		{"また", "しかし", "そして", "それで", "だから", "つまり", "ただし", "なお", "および", "または"},
		// Common suffixes and prefixes
		{"お", "ご", "御", "的", "性", "化", "者", "たち", "ら", "ども"},
	}

	set := make(map[string]bool)
	for _, g := range groups {
		for _, w := range g {
			set[w] = true
		}
	}
	return set
}
