// Package metrics defines the measurement record extracted from a single
// audio file. Every acoustic field is optional: extraction can fail per
// measurement, and a missing value must stay distinguishable from a measured
// zero, so numeric fields are pointers rather than sentinel values.
package metrics

import (
	"path/filepath"
	"strings"
	"time"
)

// Extraction error-code tokens. Upstream failures are translated into these
// before a record reaches the scoring engine; the engine only counts them.
const (
	ErrCodeTimeout       = "E_TIMEOUT"
	ErrCodeExecFailed    = "E_EXEC_FAILED"
	ErrCodeProbeFailed   = "E_PROBE_FAILED"
	ErrCodeParseLRA      = "E_PARSE_LRA"
	ErrCodeParseStats    = "E_PARSE_STATS"
	ErrCodeParseHighpass = "E_PARSE_HIGHPASS"
)

// Record holds all technical measurements for one audio file.
// Field names in JSON match the historical report format so downstream
// serializers can flatten records without knowledge of this package.
type Record struct {
	FilePath      string `json:"filePath"`
	FileSizeBytes int64  `json:"fileSizeBytes"`

	// Loudness and dynamics (ebur128)
	IntegratedLUFS *float64 `json:"integratedLoudnessLufs,omitempty"`
	TruePeakDBTP   *float64 `json:"truePeakDbtp,omitempty"`
	LRA            *float64 `json:"lra,omitempty"`

	// Level statistics (astats)
	PeakDB       *float64 `json:"peakAmplitudeDb,omitempty"`
	OverallRMSDB *float64 `json:"overallRmsDb,omitempty"`

	// High-frequency energy after highpass filtering. Proxy for whether
	// high-frequency content was ever present (fake-lossless signal).
	RMSAbove16k *float64 `json:"rmsDbAbove16k,omitempty"`
	RMSAbove18k *float64 `json:"rmsDbAbove18k,omitempty"`
	RMSAbove20k *float64 `json:"rmsDbAbove20k,omitempty"`

	// Container metadata (ffprobe)
	SampleRateHz    *int     `json:"sampleRateHz,omitempty"`
	BitrateKbps     *int     `json:"bitrateKbps,omitempty"`
	Channels        *int     `json:"channels,omitempty"`
	CodecName       string   `json:"codecName,omitempty"`
	ContainerFormat string   `json:"containerFormat,omitempty"`
	DurationSeconds *float64 `json:"durationSeconds,omitempty"`

	ProcessingTime time.Duration `json:"processingTimeMs"`
	CacheHit       bool          `json:"cacheHit"`
	ContentSHA256  string        `json:"contentSha256,omitempty"`
	ErrorCodes     []string      `json:"errorCodes,omitempty"`
}

// Origin classifies the source encoding family of a record.
type Origin int

const (
	OriginUnknown Origin = iota
	OriginLossless
	OriginLossy
)

func (o Origin) String() string {
	switch o {
	case OriginLossless:
		return "lossless"
	case OriginLossy:
		return "lossy"
	default:
		return "unknown"
	}
}

var losslessExtensions = map[string]bool{
	"flac": true, "alac": true, "wav": true, "aiff": true, "aif": true,
}

var losslessCodecs = map[string]bool{
	"flac": true, "alac": true, "wavpack": true, "ape": true,
}

var lossyExtensions = map[string]bool{
	"mp3": true, "aac": true, "m4a": true, "ogg": true, "opus": true, "wma": true,
}

var lossyCodecs = map[string]bool{
	"mp3": true, "aac": true, "vorbis": true, "opus": true,
	"wmav2": true, "mp2": true, "ac3": true,
}

// Origin derives the lossless/lossy classification from extension, codec and
// container. Lossless indicators win over lossy ones; a file matching neither
// set stays OriginUnknown rather than being forced into a bucket.
func (r *Record) Origin() Origin {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(r.FilePath), "."))
	codec := strings.ToLower(r.CodecName)
	container := strings.ToLower(r.ContainerFormat)

	if losslessExtensions[ext] || losslessCodecs[codec] || strings.HasPrefix(codec, "pcm_") {
		return OriginLossless
	}
	if strings.Contains(container, "flac") || strings.Contains(container, "wav") ||
		strings.Contains(container, "aiff") {
		return OriginLossless
	}
	if lossyExtensions[ext] || lossyCodecs[codec] {
		return OriginLossy
	}
	return OriginUnknown
}

// AddErrorCode appends a token unless the record already carries it.
// The scoring engine counts distinct codes, so duplicates would skew
// confidence.
func (r *Record) AddErrorCode(code string) {
	for _, existing := range r.ErrorCodes {
		if existing == code {
			return
		}
	}
	r.ErrorCodes = append(r.ErrorCodes, code)
}

// Float returns a pointer to v. Convenience for building records by hand,
// mostly in tests and fixtures.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
