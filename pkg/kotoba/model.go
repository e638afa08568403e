package kotoba

import "github.com/sorataki/kotoba/pkg/lsa"

// model is the atomically-swapped live model: a vocabulary snapshot, its
// IDF vector, and (once trained) an LSA projection. Vocab/DF/N are frozen
// at the moment this model's retrain started; the vocab.Store keeps
// growing independently.
type model struct {
	K       int
	Vocab   []string
	DF      []uint32
	N       int
	IDF     []float32
	LSA     *lsa.Model
	Trained bool
}

func emptyModel(k int) *model {
	return &model{K: k}
}
