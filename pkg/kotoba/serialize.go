package kotoba

import (
	"encoding/json"
	"fmt"

	"github.com/sorataki/kotoba/pkg/lsa"
	"github.com/sorataki/kotoba/pkg/tfidf"
	"github.com/sorataki/kotoba/pkg/vocab"
)

// modelSchemaVersion is the only schema version this build understands;
// anything else is rejected on import.
const modelSchemaVersion = 1

type exportedDocument struct {
	Text string `json:"text"`
	Role string `json:"role"`
}

// exportedModel is the on-disk model schema. Stored vectors are never
// serialized; they are recomputed on import.
type exportedModel struct {
	Version         int                `json:"version"`
	K               int                `json:"K"`
	Vocab           []string           `json:"vocab"`
	DF              []uint32           `json:"df"`
	N               int                `json:"N"`
	IDF             []float32          `json:"idf"`
	Projection      [][]float32        `json:"projection"`
	SingularWeights []float32          `json:"singular_weights"`
	Documents       []exportedDocument `json:"documents"`
}

func emptyIfNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func emptyIfNilDF(v []uint32) []uint32 {
	if v == nil {
		return []uint32{}
	}
	return v
}

func emptyIfNilF32(v []float32) []float32 {
	if v == nil {
		return []float32{}
	}
	return v
}

// ExportModel serializes the live model and document list to JSON.
func (c *Controller) ExportModel() ([]byte, error) {
	out := exportedModel{
		Version: modelSchemaVersion,
		K:       c.k,
		Vocab:   emptyIfNilStrings(c.live.Vocab),
		DF:      emptyIfNilDF(c.live.DF),
		N:       c.live.N,
		IDF:     emptyIfNilF32(c.live.IDF),
	}

	if c.live.Trained {
		out.Projection = c.live.LSA.Projection
		out.SingularWeights = c.live.LSA.Singular
	} else {
		out.Projection = [][]float32{}
		out.SingularWeights = []float32{}
	}

	out.Documents = make([]exportedDocument, len(c.docs))
	for i, d := range c.docs {
		out.Documents[i] = exportedDocument{Text: d.RawText, Role: d.Role.String()}
	}

	return json.Marshal(out)
}

// ImportModel replaces the controller's live model and document list from
// previously exported JSON. The vocabulary/idf/projection are installed
// directly and the model counts as trained if both a projection and
// singular weights are present;
// searchable documents have their stored vectors recomputed by projection
// rather than deserialized.
func (c *Controller) ImportModel(data []byte) error {
	var in exportedModel
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if in.Version != modelSchemaVersion {
		return fmt.Errorf("%w: got version %d, want %d", ErrUnsupportedVersion, in.Version, modelSchemaVersion)
	}
	if len(in.IDF) != len(in.Vocab) || len(in.DF) != len(in.Vocab) {
		return fmt.Errorf("%w: vocab/df/idf length mismatch", ErrInvalidArgument)
	}

	trained := len(in.Projection) > 0 && len(in.SingularWeights) > 0
	m := &model{
		K:       in.K,
		Vocab:   in.Vocab,
		DF:      in.DF,
		N:       in.N,
		IDF:     in.IDF,
		Trained: trained,
	}
	if trained {
		m.LSA = &lsa.Model{Projection: in.Projection, Singular: in.SingularWeights, V: len(in.Vocab), K: in.K}
	}

	c.live = m
	c.k = in.K
	c.kSet = in.K > 0
	c.job = nil
	c.lastProgress = 0

	c.vcb = vocab.Restore(in.Vocab, in.DF, in.N, c.vcb.MaxSize())
	c.dedup = make(map[string]bool, len(in.Documents))
	c.docs = make([]document, len(in.Documents))
	for i, d := range in.Documents {
		role := RoleSearchable
		if d.Role == RoleTraining.String() {
			role = RoleTraining
		}
		canonical := d.Text
		if c.dict != nil {
			canonical = c.dict.Canonicalize(d.Text)
		}
		tokens := c.tok.Tokenize(canonical)
		c.docs[i] = document{RawText: d.Text, Role: role, TokenWeights: tokenWeightsFromTokens(tokens, in.Vocab)}
		c.dedup[d.Text] = true
	}
	c.docsAtLastTrain = len(in.Documents)
	c.docsAddedSinceLastTrain = 0

	if trained {
		c.recomputeStoredVectors()
	}
	return nil
}

// recomputeStoredVectors re-derives every searchable document's stored
// vector from its raw text and the current live model, needed after
// import since stored vectors are never serialized.
func (c *Controller) recomputeStoredVectors() {
	for i := range c.docs {
		if c.docs[i].Role != RoleSearchable {
			continue
		}
		canonical := c.docs[i].RawText
		if c.dict != nil {
			canonical = c.dict.Canonicalize(canonical)
		}
		tokens := c.tok.Tokenize(canonical)
		weights := tokenWeightsFromTokens(tokens, c.live.Vocab)
		x := tfidf.BuildTFIDFVector(weights, c.live.IDF)
		c.docs[i].StoredVector = c.live.LSA.Project(x)
	}
}
