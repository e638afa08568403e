package hashembed

import (
	"math"
	"testing"
)

func TestTransformIsStableAcrossInstances(t *testing.T) {
	a := New(64, 3)
	b := New(64, 3)
	va := a.Transform("テスト")
	vb := b.Transform("テスト")
	if len(va) != len(vb) {
		t.Fatalf("length mismatch: %d vs %d", len(va), len(vb))
	}
	for i := range va {
		if va[i] != vb[i] {
			t.Fatalf("mismatch at %d: %v vs %v", i, va[i], vb[i])
		}
	}
}

func TestTransformIsL2Normalized(t *testing.T) {
	e := New(32, 2)
	v := e.Transform("自然言語処理の実験")
	var sumSquares float64
	for _, x := range v {
		sumSquares += float64(x) * float64(x)
	}
	norm := math.Sqrt(sumSquares)
	if math.Abs(norm-1.0) > 1e-5 {
		t.Errorf("expected unit norm, got %v", norm)
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := NewWithSeed(64, 3, 1)
	b := NewWithSeed(64, 3, 2)
	va := a.Transform("同じ文章です")
	vb := b.Transform("同じ文章です")
	same := true
	for i := range va {
		if va[i] != vb[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("expected different seeds to produce different embeddings")
	}
}

func TestShortTextBelowNgramSize(t *testing.T) {
	e := New(16, 3)
	v := e.Transform("あ")
	var sumSquares float64
	for _, x := range v {
		sumSquares += float64(x) * float64(x)
	}
	if sumSquares == 0 {
		t.Error("expected a nonzero embedding for short text")
	}
}

func TestEmptyTextIsZeroVector(t *testing.T) {
	e := New(16, 3)
	v := e.Transform("")
	for _, x := range v {
		if x != 0 {
			t.Errorf("expected zero vector for empty text, got %+v", v)
		}
	}
}

func TestSimilarTextsScoreHigherThanUnrelated(t *testing.T) {
	e := New(128, 2)
	sim := e.GetSimilarity("東京都渋谷区の天気予報", "東京都新宿区の天気予報")
	unrelated := e.GetSimilarity("東京都渋谷区の天気予報", "宇宙探査機の軌道計算")
	if sim <= unrelated {
		t.Errorf("expected related texts (%v) to score above unrelated (%v)", sim, unrelated)
	}
}

func TestTransformBatchMatchesIndividualTransform(t *testing.T) {
	e := New(32, 2)
	texts := []string{"猫", "犬", "鳥"}
	batch := e.TransformBatch(texts)
	for i, text := range texts {
		single := e.Transform(text)
		for j := range single {
			if batch[i][j] != single[j] {
				t.Fatalf("batch[%d][%d] = %v, want %v", i, j, batch[i][j], single[j])
			}
		}
	}
}

func TestSimilarityBatchLength(t *testing.T) {
	e := New(32, 2)
	scores := e.SimilarityBatch("猫", []string{"犬", "鳥", "猫"})
	if len(scores) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(scores))
	}
	if scores[2] <= scores[0] {
		t.Errorf("expected exact match to score highest: %+v", scores)
	}
}

func TestCharTypeTailFeaturesReserved(t *testing.T) {
	e := New(16, 2)
	v := e.Transform("ひらがなカタカナ漢字abc123")
	tail := v[11:16]
	var any bool
	for _, x := range tail {
		if x != 0 {
			any = true
		}
	}
	if !any {
		t.Error("expected nonzero char-type tail features for mixed-class text")
	}
}

func TestDictionaryUnifiesVariants(t *testing.T) {
	e := New(64, 2)
	if err := e.SetDictionaryJSON([]byte(`[{"surface":"人工知能","variants":["AI"]}]`)); err != nil {
		t.Fatal(err)
	}
	va := e.Transform("AIの研究")
	vb := e.Transform("人工知能の研究")
	for i := range va {
		if va[i] != vb[i] {
			t.Fatalf("expected identical embeddings after canonicalization, dim %d: %v vs %v", i, va[i], vb[i])
		}
	}

	e.ClearDictionary()
	vc := e.Transform("AIの研究")
	same := true
	for i := range va {
		if va[i] != vc[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("expected embeddings to diverge after clearing the dictionary")
	}
}

func TestSetDictionaryJSONRejectsMalformedInput(t *testing.T) {
	e := New(16, 2)
	if err := e.SetDictionaryJSON([]byte("{broken")); err == nil {
		t.Error("expected an error for malformed dictionary JSON")
	}
}

func TestCosineSimilarityMismatchedLength(t *testing.T) {
	if s := CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}); s != 0 {
		t.Errorf("expected 0 for mismatched lengths, got %v", s)
	}
}
