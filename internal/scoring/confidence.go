package scoring

import "github.com/Freedom18946/audioquality/internal/metrics"

// Confidence tuning. The floor is never zero: some signal is always better
// than an unusable result, and downstream ranking needs a non-degenerate
// value.
const (
	confidenceFieldDecrement = 0.15
	confidenceErrorDecrement = 0.10
	confidenceFloor          = 0.1
)

// Confidence estimates how reliable an analysis is, from field completeness
// and the extraction error codes the record carries. Starts at 1.0 and is
// reduced per missing required field and per distinct error code, floored at
// 0.1.
func Confidence(r *metrics.Record) float64 {
	c := 1.0
	c -= float64(missingRequiredFields(r)) * confidenceFieldDecrement
	c -= float64(len(r.ErrorCodes)) * confidenceErrorDecrement
	if c < confidenceFloor {
		return confidenceFloor
	}
	return c
}
