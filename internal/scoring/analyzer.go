package scoring

import (
	"github.com/Freedom18946/audioquality/internal/metrics"
	"github.com/Freedom18946/audioquality/internal/profile"
)

// Analysis is the immutable per-file result: one status, one bounded score,
// a confidence value, the ordered notes, and the measurement record it was
// derived from, for traceability. Constructed once per file, never mutated.
type Analysis struct {
	FilePath   string          `json:"filePath"`
	Score      int             `json:"qualityScore"`
	Status     Status          `json:"-"`
	StatusText string          `json:"status"`
	Confidence float64         `json:"confidence"`
	Notes      []string        `json:"notes"`
	Record     *metrics.Record `json:"metrics"`
}

// Analyzer scores measurement records against a fixed profile. It holds only
// the read-only profile and is safe for concurrent use without
// synchronization.
type Analyzer struct {
	profile profile.Profile
}

// NewAnalyzer builds an analyzer for the given profile. The profile is
// resolved once per batch, not per file.
func NewAnalyzer(p profile.Profile) *Analyzer {
	return &Analyzer{profile: p}
}

// Profile returns the profile this analyzer scores against.
func (a *Analyzer) Profile() profile.Profile {
	return a.profile
}

// Analyze classifies and scores one record. Deterministic and total: any
// record, including an empty one, yields a defined analysis with score in
// [0, 99] and confidence in [0.1, 1.0].
func (a *Analyzer) Analyze(r *metrics.Record) Analysis {
	p := &a.profile

	status := Classify(r, p)
	raw := rawScore(r, p)
	capped := resolvePenaltiesAndCap(raw, r, p, status)
	final := finalizeScore(capped, r, p)

	return Analysis{
		FilePath:   r.FilePath,
		Score:      final,
		Status:     status,
		StatusText: status.String(),
		Confidence: Confidence(r),
		Notes:      Notes(r, p),
		Record:     r,
	}
}

// AnalyzeAll scores a batch of records in input order. The engine itself has
// no shared mutable state, so callers that want parallelism can just as well
// call Analyze from their own workers; this helper serves the simple path.
func (a *Analyzer) AnalyzeAll(records []*metrics.Record) []Analysis {
	analyses := make([]Analysis, len(records))
	for i, r := range records {
		analyses[i] = a.Analyze(r)
	}
	return analyses
}
