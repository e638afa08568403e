// Package kotoba implements an incremental Japanese text embedder: it
// wires the tokenizer, vocabulary store, TF-IDF builder, and LSA engine
// into a single cooperatively-stepped controller with document
// deduplication, a searchable vector index, and JSON model persistence.
package kotoba

import (
	"fmt"
	"log/slog"

	"github.com/sorataki/kotoba/pkg/dictionary"
	"github.com/sorataki/kotoba/pkg/tfidf"
	"github.com/sorataki/kotoba/pkg/tokenizer"
	"github.com/sorataki/kotoba/pkg/vocab"
)

// Controller is an incremental embedder. It assumes a single logical
// executor: no internal locking, not safe for concurrent use from
// multiple goroutines. Retraining is driven in bounded steps via
// StepRetrain so the host can interleave other work.
type Controller struct {
	updateThreshold float32

	tok  *tokenizer.Tokenizer
	dict *dictionary.Dictionary
	vcb  *vocab.Store

	docs  []document
	dedup map[string]bool
	k     int
	kSet  bool
	live  *model

	docsAtLastTrain         int
	docsAddedSinceLastTrain int

	job            *retrainJob
	lastProgress   float32
	lastRetrainErr error
}

// New creates a Controller with the given auto-retrain threshold and
// vocabulary capacity (0 uses vocab.DefaultMaxSize).
func New(updateThreshold float32, vocabMaxSize int) *Controller {
	return &Controller{
		updateThreshold: updateThreshold,
		tok:             tokenizer.New(),
		vcb:             vocab.New(vocabMaxSize),
		dedup:           make(map[string]bool),
		live:            emptyModel(0),
	}
}

// SetDictionary replaces the active user dictionary from its serialized
// JSON array form.
func (c *Controller) SetDictionary(data []byte) error {
	d, err := dictionary.ParseJSON(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	c.dict = d
	c.tok.SetDictionary(d)
	return nil
}

// ClearDictionary removes the active user dictionary.
func (c *Controller) ClearDictionary() {
	c.dict = nil
	c.tok.ClearDictionary()
}

// AddDocument ingests text with a searchable role. K is latched on the
// first call across both AddDocument and AddDocumentForTraining; later
// differing values are silently ignored.
func (c *Controller) AddDocument(text string, k int) error {
	return c.addDocument(text, k, RoleSearchable)
}

// AddDocumentForTraining ingests text with a training-only role: it
// shapes the vocabulary/IDF/projection but never appears in search
// results and never gets a stored vector.
func (c *Controller) AddDocumentForTraining(text string, k int) error {
	return c.addDocument(text, k, RoleTraining)
}

func (c *Controller) addDocument(text string, k int, role Role) error {
	if !c.kSet {
		if k <= 0 {
			return ErrInvalidArgument
		}
		c.k = k
		c.kSet = true
	}

	if c.dedup[text] {
		return nil
	}
	c.dedup[text] = true

	canonical := text
	if c.dict != nil {
		canonical = c.dict.Canonicalize(text)
	}

	tokens := c.tok.Tokenize(canonical)
	weights := make(map[string]float32, len(tokens))
	surfaces := make([]string, 0, len(tokens))
	for _, tk := range tokens {
		if _, ok := weights[tk.Surface]; !ok {
			surfaces = append(surfaces, tk.Surface)
		}
		weights[tk.Surface] += tk.Weight
	}
	c.vcb.Observe(surfaces)

	tokenWeights := make(map[int]float32, len(weights))
	for surf, w := range weights {
		if id, ok := c.vcb.Lookup(surf); ok {
			tokenWeights[id] += w
		}
	}

	c.docs = append(c.docs, document{RawText: text, TokenWeights: tokenWeights, Role: role})
	c.docsAddedSinceLastTrain++

	c.maybeAutoRetrain()
	return nil
}

func (c *Controller) maybeAutoRetrain() {
	if c.job != nil {
		return
	}
	if len(c.docs) < 2 {
		return
	}
	changeRatio := float32(c.docsAddedSinceLastTrain) / float32(max(1, c.docsAtLastTrain))
	if changeRatio >= c.updateThreshold {
		c.startRetrainLocked(c.k)
	}
}

// StartBackgroundRetrain begins a retrain if the controller is idle.
// Returns (false, ErrRetrainInProgress) if a retrain is already running,
// or (false, ErrInvalidArgument) if K is invalid on the first call.
func (c *Controller) StartBackgroundRetrain(k int) (bool, error) {
	if c.job != nil {
		return false, ErrRetrainInProgress
	}
	if !c.kSet {
		if k <= 0 {
			return false, ErrInvalidArgument
		}
		c.k = k
		c.kSet = true
	}
	c.startRetrainLocked(c.k)
	return true, nil
}

func (c *Controller) startRetrainLocked(k int) {
	c.job = startRetrain(c.docs, c.vcb.Size(), c.vcb.AllDF(), c.vcb.CorpusSize(), k)
	c.lastProgress = 0
	slog.Debug("kotoba: retrain started", "docs", len(c.docs), "vocab", c.vcb.Size(), "k", k)
}

// IsRetraining reports whether a retrain is in progress.
func (c *Controller) IsRetraining() bool {
	return c.job != nil && c.job.stage != stageIdle
}

// GetRetrainProgress returns retrain progress in [0, 1]. Outside a
// retrain, it returns the value left by the most recent one (1.0 after a
// successful completion, 0 if none has ever run or the last one was
// aborted/cancelled).
func (c *Controller) GetRetrainProgress() float32 {
	if c.job == nil {
		return c.lastProgress
	}
	return c.job.progress()
}

// CancelRetrain abandons any in-flight retrain, discarding shadow state.
// The live model is unaffected.
func (c *Controller) CancelRetrain() {
	c.job = nil
	c.lastProgress = 0
}

// StepRetrain advances the retrain state machine by one bounded work
// quantum. Returns true once the controller is back to idle after a
// successful completion. On SVD non-convergence it aborts the retrain
// (live model preserved) and also returns false; IsRetraining becomes
// false immediately, so use LastRetrainError to distinguish an aborted
// retrain from an ordinary not-yet-done step.
func (c *Controller) StepRetrain() bool {
	if c.job == nil {
		return true
	}

	switch c.job.stage {
	case stageBuildingMatrix:
		c.job.stepBuildingMatrix(c.docs)
		return false

	case stageComputingSVD:
		if err := c.job.stepComputingSVD(); err != nil {
			slog.Warn("kotoba: svd did not converge, retrain aborted", "err", err)
			c.lastRetrainErr = fmt.Errorf("%w: %v", ErrNumericFailure, err)
			c.job = nil
			c.lastProgress = 0
			return false
		}
		c.lastRetrainErr = nil
		c.job.enterFinalizing(c.docs)
		return false

	case stageFinalizing:
		done := c.job.stepFinalizing(c.docs)
		if !done {
			return false
		}
		c.commitRetrain()
		slog.Debug("kotoba: retrain committed", "k", c.live.K, "trained", c.live.Trained)
		return true

	default:
		c.job = nil
		return true
	}
}

// commitRetrain swaps the shadow model in and installs the staged stored
// vectors in one place, so readers go from seeing the old model plus old
// index to the new model plus new index with nothing in between.
func (c *Controller) commitRetrain() {
	j := c.job
	surfaces := c.vcb.Surfaces()
	if len(surfaces) > j.vSnapshot {
		surfaces = surfaces[:j.vSnapshot]
	}
	j.shadow.Vocab = surfaces

	c.live = j.shadow
	j.applyVectors(c.docs)
	c.docsAtLastTrain = j.docsSnapshot
	c.docsAddedSinceLastTrain = 0
	c.job = nil
	c.lastProgress = 1.0
}

// Transform embeds text into the live K-dimensional space. Returns the
// zero vector, no error, while the model is untrained.
func (c *Controller) Transform(text string) ([]float32, error) {
	if text == "" {
		return nil, ErrInvalidArgument
	}
	if !c.live.Trained {
		return make([]float32, c.k), nil
	}

	canonical := text
	if c.dict != nil {
		canonical = c.dict.Canonicalize(text)
	}
	tokens := c.tok.Tokenize(canonical)
	weights := tokenWeightsFromTokens(tokens, c.live.Vocab)
	x := tfidf.BuildTFIDFVector(weights, c.live.IDF)
	return c.live.LSA.Project(x), nil
}

// tokenWeightsFromTokens aggregates tokenizer output by surface; ids are
// resolved against the live model's frozen vocabulary snapshot, not the
// (possibly larger) growing store, so query projection always matches
// the vocabulary the projection matrix was trained on.
func tokenWeightsFromTokens(tokens []tokenizer.Token, vocabSnapshot []string) map[int]float32 {
	ids := make(map[string]int, len(vocabSnapshot))
	for i, s := range vocabSnapshot {
		ids[s] = i
	}
	weights := make(map[int]float32)
	for _, tk := range tokens {
		if id, ok := ids[tk.Surface]; ok {
			weights[id] += tk.Weight
		}
	}
	return weights
}

// GetSimilarity returns cosine similarity between the transforms of a
// and b, in [-1, 1].
func (c *Controller) GetSimilarity(a, b string) (float32, error) {
	va, err := c.Transform(a)
	if err != nil {
		return 0, err
	}
	vb, err := c.Transform(b)
	if err != nil {
		return 0, err
	}
	return cosineSimilarity(va, vb), nil
}

// TransformBatch transforms every text in texts.
func (c *Controller) TransformBatch(texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := c.Transform(t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// SimilarityBatch scores query against every candidate.
func (c *Controller) SimilarityBatch(query string, candidates []string) ([]float32, error) {
	q, err := c.Transform(query)
	if err != nil {
		return nil, err
	}
	out := make([]float32, len(candidates))
	for i, cand := range candidates {
		v, err := c.Transform(cand)
		if err != nil {
			return nil, err
		}
		out[i] = cosineSimilarity(q, v)
	}
	return out, nil
}

// FindSimilar returns up to k searchable documents' raw text, sorted by
// descending similarity to query.
func (c *Controller) FindSimilar(query string, k int) ([]string, error) {
	scored, err := c.FindSimilarWithScores(query, k)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(scored))
	for i, s := range scored {
		out[i] = s.Document
	}
	return out, nil
}

// FindSimilarWithScores returns up to k (raw text, score) pairs, sorted
// by descending score.
func (c *Controller) FindSimilarWithScores(query string, k int) ([]ScoredResult, error) {
	q, err := c.Transform(query)
	if err != nil {
		return nil, err
	}
	return topK(q, c.docs, k), nil
}

// UniqueDocumentCount returns the number of distinct raw texts ever
// accepted.
func (c *Controller) UniqueDocumentCount() int {
	return len(c.dedup)
}

// SearchableCount returns the number of searchable documents.
func (c *Controller) SearchableCount() int {
	n := 0
	for _, d := range c.docs {
		if d.Role == RoleSearchable {
			n++
		}
	}
	return n
}

// ContainsDocument reports whether text has already been ingested
// (exact match against the dedup set).
func (c *Controller) ContainsDocument(text string) bool {
	return c.dedup[text]
}

// VocabSize returns the number of distinct token surfaces the growing
// vocabulary currently holds.
func (c *Controller) VocabSize() int {
	return c.vcb.Size()
}

// EmbeddingDim returns the latched K, or 0 before the first document.
func (c *Controller) EmbeddingDim() int {
	return c.k
}

// DocumentCount returns the total number of ingested documents,
// searchable and training-only alike.
func (c *Controller) DocumentCount() int {
	return len(c.docs)
}

// LastRetrainError returns the error from the most recent retrain
// failure, or nil if the most recent retrain (if any) succeeded.
func (c *Controller) LastRetrainError() error {
	return c.lastRetrainErr
}
