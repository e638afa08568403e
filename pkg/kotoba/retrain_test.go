package kotoba

import "testing"

func TestRetrainProgressStagesSumToOne(t *testing.T) {
	c := New(1000, 0)
	for _, d := range []string{"文書一", "文書二", "文書三"} {
		if err := c.AddDocument(d, 4); err != nil {
			t.Fatal(err)
		}
	}
	if ok, _ := c.StartBackgroundRetrain(4); !ok {
		t.Fatal("expected retrain to start")
	}

	if p := c.GetRetrainProgress(); p != 0 {
		t.Errorf("expected progress 0 at start, got %v", p)
	}

	for c.job.stage == stageBuildingMatrix {
		c.StepRetrain()
	}
	if p := c.GetRetrainProgress(); p < 1.0/3-1e-6 {
		t.Errorf("expected progress >= 1/3 once BUILDING_MATRIX is done, got %v", p)
	}

	c.StepRetrain() // COMPUTING_SVD
	if c.job == nil {
		t.Fatal("retrain job vanished unexpectedly (numeric failure?)")
	}
	if p := c.GetRetrainProgress(); p < 2.0/3-1e-6 {
		t.Errorf("expected progress >= 2/3 once COMPUTING_SVD is done, got %v", p)
	}

	for {
		if c.StepRetrain() {
			break
		}
	}
	if p := c.GetRetrainProgress(); p != 1.0 {
		t.Errorf("expected final progress 1.0, got %v", p)
	}
}

func TestStepRetrainNoOpWhenIdle(t *testing.T) {
	c := New(1000, 0)
	if !c.StepRetrain() {
		t.Error("expected StepRetrain on an idle controller to report true immediately")
	}
}

// A search issued while a retrain is finalizing must score against the
// previous model's index; the new stored vectors only land at commit.
func TestStoredVectorsSwapOnlyAtCommit(t *testing.T) {
	c := New(1000, 0)
	for _, d := range []string{"機械学習の入門書", "深層学習の解説記事", "料理のレシピ集"} {
		if err := c.AddDocument(d, 8); err != nil {
			t.Fatal(err)
		}
	}
	if ok, _ := c.StartBackgroundRetrain(8); !ok {
		t.Fatal("expected retrain to start")
	}
	for !c.StepRetrain() {
	}

	before := append([]float32(nil), c.docs[0].StoredVector...)
	if len(before) == 0 {
		t.Fatal("expected a stored vector after the first retrain")
	}

	for _, d := range []string{"自然言語処理の論文", "画像認識の実験結果"} {
		if err := c.AddDocument(d, 8); err != nil {
			t.Fatal(err)
		}
	}
	if ok, _ := c.StartBackgroundRetrain(8); !ok {
		t.Fatal("expected second retrain to start")
	}
	for c.job.stage != stageFinalizing {
		c.StepRetrain()
	}

	for i, v := range c.docs[0].StoredVector {
		if v != before[i] {
			t.Fatalf("stored vector changed before commit at dim %d: %v vs %v", i, v, before[i])
		}
	}

	for !c.StepRetrain() {
	}
	if c.docs[0].StoredVector == nil {
		t.Fatal("expected a refreshed stored vector after commit")
	}
}
