package kotoba

import (
	"github.com/sorataki/kotoba/pkg/lsa"
	"github.com/sorataki/kotoba/pkg/tfidf"
)

// stage is a node of the cooperative retrain state machine:
// IDLE -> BUILDING_MATRIX -> COMPUTING_SVD -> FINALIZING -> IDLE.
type stage int

const (
	stageIdle stage = iota
	stageBuildingMatrix
	stageComputingSVD
	stageFinalizing
)

// Work quanta per step. Matrix rows are cheap to build; re-projection
// touches the LSA model and is budgeted tighter.
const (
	buildingMatrixQuantum = 64
	finalizingQuantum     = 32
)

// retrainJob holds all state for one in-flight retrain. It is built fresh
// by startRetrain and discarded on completion, abort, or cancellation.
// Nothing in it is visible to Transform or the searchable index until
// commitRetrain installs the shadow model.
type retrainJob struct {
	stage stage
	k     int

	// Snapshot taken at start: only documents [0, docsSnapshot) and
	// vocabulary ids [0, vSnapshot) participate in this retrain. Documents
	// added while it runs carry over to the next one.
	docsSnapshot int
	vSnapshot    int
	dfSnapshot   []uint32
	idf          []float32

	// BUILDING_MATRIX progress.
	nextDocIdx int
	rows       []lsa.DocRow

	// FINALIZING progress: indices into the document slice of searchable
	// documents within the snapshot, and their freshly projected vectors.
	// The new vectors are staged here rather than written into the
	// documents so that searches issued mid-finalize keep scoring against
	// the previous model's index end to end.
	searchableIdx   []int
	newVectors      [][]float32
	nextFinalizeIdx int

	shadow *model
}

// startRetrain snapshots the current vocabulary/document state and enters
// BUILDING_MATRIX. Caller has already verified no retrain is in progress.
func startRetrain(docs []document, vSize int, df []uint32, corpusSize int, k int) *retrainJob {
	docsSnapshot := len(docs)
	job := &retrainJob{
		stage:        stageBuildingMatrix,
		k:            k,
		docsSnapshot: docsSnapshot,
		vSnapshot:    vSize,
		dfSnapshot:   df,
		idf:          tfidf.IDFVector(df, corpusSize),
		rows:         make([]lsa.DocRow, docsSnapshot),
	}
	return job
}

// stepBuildingMatrix converts up to buildingMatrixQuantum documents' token
// weights into dense-ready TF-IDF rows using the frozen idf snapshot.
func (j *retrainJob) stepBuildingMatrix(docs []document) {
	end := j.nextDocIdx + buildingMatrixQuantum
	if end > j.docsSnapshot {
		end = j.docsSnapshot
	}
	for i := j.nextDocIdx; i < end; i++ {
		tf := tfidf.TF(docs[i].TokenWeights)
		entries := tfidf.Row(i, tf, j.idf)
		row := lsa.DocRow{IDs: make([]int, len(entries)), Values: make([]float32, len(entries))}
		for n, e := range entries {
			row.IDs[n] = e.ID
			row.Values[n] = e.Value
		}
		j.rows[i] = row
	}
	j.nextDocIdx = end
	if j.nextDocIdx >= j.docsSnapshot {
		j.stage = stageComputingSVD
	}
}

// stepComputingSVD performs the full SVD in one atomic step. Returns an
// error if the factorization does not converge; the caller must abort the
// retrain and keep the live model in force.
func (j *retrainJob) stepComputingSVD() error {
	trained, err := lsa.Train(j.rows, j.vSnapshot, j.k)
	if err != nil {
		return err
	}

	j.shadow = &model{
		K:       j.k,
		DF:      j.dfSnapshot,
		N:       j.docsSnapshot,
		IDF:     j.idf,
		LSA:     trained,
		Trained: trained != nil,
	}
	j.stage = stageFinalizing
	return nil
}

// enterFinalizing builds the list of searchable documents (within the
// snapshot) whose stored vectors need recomputing against the shadow model.
func (j *retrainJob) enterFinalizing(docs []document) {
	for i := 0; i < j.docsSnapshot; i++ {
		if docs[i].Role == RoleSearchable {
			j.searchableIdx = append(j.searchableIdx, i)
		}
	}
	j.newVectors = make([][]float32, len(j.searchableIdx))
}

// stepFinalizing re-projects up to finalizingQuantum searchable documents
// against the shadow model, staging the results. Returns true once every
// searchable document in the snapshot has been processed.
func (j *retrainJob) stepFinalizing(docs []document) bool {
	end := j.nextFinalizeIdx + finalizingQuantum
	if end > len(j.searchableIdx) {
		end = len(j.searchableIdx)
	}
	for i := j.nextFinalizeIdx; i < end; i++ {
		if !j.shadow.Trained {
			continue
		}
		docIdx := j.searchableIdx[i]
		vec := tfidf.BuildTFIDFVector(docs[docIdx].TokenWeights, j.idf)
		j.newVectors[i] = j.shadow.LSA.Project(vec)
	}
	j.nextFinalizeIdx = end
	return j.nextFinalizeIdx >= len(j.searchableIdx)
}

// applyVectors installs the staged stored vectors. Runs inside the commit,
// after the shadow model becomes live, so index and model always describe
// the same space.
func (j *retrainJob) applyVectors(docs []document) {
	for i, docIdx := range j.searchableIdx {
		docs[docIdx].StoredVector = j.newVectors[i]
	}
}

// progress reports (completed_stages + intra_stage_fraction) / 3.
func (j *retrainJob) progress() float32 {
	var completed, frac float32
	switch j.stage {
	case stageBuildingMatrix:
		completed = 0
		if j.docsSnapshot > 0 {
			frac = float32(j.nextDocIdx) / float32(j.docsSnapshot)
		}
	case stageComputingSVD:
		completed = 1
	case stageFinalizing:
		completed = 2
		if n := len(j.searchableIdx); n > 0 {
			frac = float32(j.nextFinalizeIdx) / float32(n)
		} else {
			frac = 1
		}
	}
	return (completed + frac) / 3
}
