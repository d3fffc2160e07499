package scoring

import (
	"reflect"
	"testing"

	"github.com/Freedom18946/audioquality/internal/metrics"
	"github.com/Freedom18946/audioquality/internal/profile"
)

func popAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	p, err := profile.Resolve(profile.NamePop)
	if err != nil {
		t.Fatalf("resolve pop profile: %v", err)
	}
	return NewAnalyzer(p)
}

// TestAnalyzeFakeLossless covers the canonical fake-lossless scenario:
// a FLAC with a hard 18 kHz cutoff is suspicious and hard-capped.
func TestAnalyzeFakeLossless(t *testing.T) {
	a := popAnalyzer(t)

	r := &metrics.Record{
		FilePath:        "/music/upscaled.flac",
		CodecName:       "flac",
		ContainerFormat: "flac",
		RMSAbove18k:     metrics.Float(-90.0),
		LRA:             metrics.Float(9.0),
		TruePeakDBTP:    metrics.Float(-3.0),
		Channels:        metrics.Int(2),
		SampleRateHz:    metrics.Int(44100),
	}

	analysis := a.Analyze(r)
	if analysis.Status != StatusSuspicious {
		t.Errorf("status = %v, want %v", analysis.Status, StatusSuspicious)
	}
	if analysis.Score > 25 {
		t.Errorf("score = %d, want <= 25 under the suspicious cap", analysis.Score)
	}
}

// TestAnalyzeLowBitrate verifies the low-bitrate verdict and that the -30
// penalty is visible against an otherwise identical file above the floor.
func TestAnalyzeLowBitrate(t *testing.T) {
	a := popAnalyzer(t)

	build := func(bitrate int) *metrics.Record {
		return &metrics.Record{
			FilePath:        "/music/track.mp3",
			CodecName:       "mp3",
			ContainerFormat: "mp3",
			IntegratedLUFS:  metrics.Float(-14.0),
			TruePeakDBTP:    metrics.Float(-2.0),
			LRA:             metrics.Float(7.0),
			PeakDB:          metrics.Float(-2.5),
			RMSAbove18k:     metrics.Float(-70.0),
			SampleRateHz:    metrics.Int(44100),
			BitrateKbps:     metrics.Int(bitrate),
			Channels:        metrics.Int(2),
		}
	}

	low := a.Analyze(build(128))
	if low.Status != StatusLowBitrate {
		t.Fatalf("status = %v, want %v", low.Status, StatusLowBitrate)
	}

	ok := a.Analyze(build(192))
	if ok.Status != StatusGood {
		t.Fatalf("status at 192 kbps = %v, want %v", ok.Status, StatusGood)
	}
	if diff := ok.Score - low.Score; diff != 30 {
		t.Errorf("low-bitrate penalty = %d points, want 30 (scores %d vs %d)",
			diff, ok.Score, low.Score)
	}
}

// TestAnalyzeEmptyRecord: an entirely empty record degrades, never fails.
func TestAnalyzeEmptyRecord(t *testing.T) {
	a := popAnalyzer(t)

	analysis := a.Analyze(&metrics.Record{FilePath: "/music/mystery.bin"})
	if analysis.Status != StatusIncomplete {
		t.Errorf("status = %v, want %v", analysis.Status, StatusIncomplete)
	}
	if analysis.Score > 45 {
		t.Errorf("score = %d, want <= 45 under the incomplete cap", analysis.Score)
	}
	if !almostEqual(analysis.Confidence, 0.25) {
		t.Errorf("confidence = %v, want 0.25 (five missing required fields)", analysis.Confidence)
	}
	if len(analysis.Notes) == 0 {
		t.Error("expected at least the incompleteness note")
	}
}

// TestAnalyzeNearEliteRemap is the end-to-end version of the remap ordering
// guarantee: same raw score, one failing elite indicator beats two.
func TestAnalyzeNearEliteRemap(t *testing.T) {
	a := popAnalyzer(t)

	oneMiss := eliteRecord()
	oneMiss.IntegratedLUFS = metrics.Float(-16.0)

	twoMisses := eliteRecord()
	twoMisses.IntegratedLUFS = metrics.Float(-16.0)
	twoMisses.LRA = metrics.Float(16.0)

	one := a.Analyze(oneMiss)
	two := a.Analyze(twoMisses)

	if one.Status != StatusGood || two.Status != StatusGood {
		t.Fatalf("statuses = %v, %v; want both %v", one.Status, two.Status, StatusGood)
	}
	for _, analysis := range []Analysis{one, two} {
		if analysis.Score < 85 || analysis.Score > 89 {
			t.Fatalf("remapped score %d escaped [85, 89]", analysis.Score)
		}
	}
	if one.Score <= two.Score {
		t.Errorf("one miss scored %d, two misses %d; want strict ordering",
			one.Score, two.Score)
	}
}

// TestScoreCeiling: no input, however ideal, reaches 100.
func TestScoreCeiling(t *testing.T) {
	a := popAnalyzer(t)

	ideal := eliteRecord()
	ideal.RMSAbove16k = metrics.Float(-40.0)
	ideal.RMSAbove18k = metrics.Float(-50.0)
	ideal.TruePeakDBTP = metrics.Float(-8.0)

	analysis := a.Analyze(ideal)
	if analysis.Score > MaxScore {
		t.Errorf("score = %d, exceeds the %d ceiling", analysis.Score, MaxScore)
	}
	if analysis.Score != MaxScore {
		t.Errorf("ideal record scored %d, want the full %d", analysis.Score, MaxScore)
	}
}

// TestAnalyzeBounds sweeps degenerate and extreme inputs: the engine is
// total, scores stay in [0, 99] and confidence in [0.1, 1.0].
func TestAnalyzeBounds(t *testing.T) {
	a := popAnalyzer(t)

	values := []*float64{nil, metrics.Float(-120), metrics.Float(-30), metrics.Float(0), metrics.Float(10)}
	ints := []*int{nil, metrics.Int(0), metrics.Int(1), metrics.Int(96), metrics.Int(192000)}
	paths := []string{"/a.flac", "/a.mp3", "/a.xyz"}

	for _, path := range paths {
		for _, lufs := range values {
			for _, lra := range values {
				for _, rms18 := range values {
					for _, bitrate := range ints {
						r := &metrics.Record{
							FilePath:       path,
							IntegratedLUFS: lufs,
							TruePeakDBTP:   lufs,
							LRA:            lra,
							PeakDB:         lra,
							RMSAbove16k:    rms18,
							RMSAbove18k:    rms18,
							BitrateKbps:    bitrate,
							SampleRateHz:   bitrate,
							Channels:       bitrate,
						}
						analysis := a.Analyze(r)
						if analysis.Score < 0 || analysis.Score > 99 {
							t.Fatalf("score %d out of [0, 99] for %+v", analysis.Score, r)
						}
						if analysis.Confidence < 0.1 || analysis.Confidence > 1.0 {
							t.Fatalf("confidence %v out of [0.1, 1.0] for %+v", analysis.Confidence, r)
						}
						if analysis.Status.String() == "unknown" {
							t.Fatalf("classification produced an unknown status for %+v", r)
						}
					}
				}
			}
		}
	}
}

// TestAnalyzeDeterminism: identical inputs yield identical analyses.
func TestAnalyzeDeterminism(t *testing.T) {
	a := popAnalyzer(t)

	r := goodRecord()
	r.ErrorCodes = []string{metrics.ErrCodeParseLRA}

	first := a.Analyze(r)
	second := a.Analyze(r)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated analysis differed:\n first: %+v\nsecond: %+v", first, second)
	}
}

func TestAnalyzeAllPreservesOrder(t *testing.T) {
	a := popAnalyzer(t)

	records := []*metrics.Record{
		goodRecord(),
		{FilePath: "/music/empty.flac"},
		lossyRecord(),
	}
	analyses := a.AnalyzeAll(records)
	if len(analyses) != len(records) {
		t.Fatalf("got %d analyses for %d records", len(analyses), len(records))
	}
	for i, analysis := range analyses {
		if analysis.FilePath != records[i].FilePath {
			t.Errorf("analysis %d is for %q, want %q", i, analysis.FilePath, records[i].FilePath)
		}
	}
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *metrics.Record)
		want   float64
	}{
		{"complete record", func(r *metrics.Record) {}, 1.0},
		{
			"one missing field",
			func(r *metrics.Record) { r.LRA = nil },
			0.85,
		},
		{
			"missing field plus error code",
			func(r *metrics.Record) {
				r.LRA = nil
				r.ErrorCodes = []string{metrics.ErrCodeParseLRA}
			},
			0.75,
		},
		{
			"floors at 0.1",
			func(r *metrics.Record) {
				r.IntegratedLUFS = nil
				r.TruePeakDBTP = nil
				r.LRA = nil
				r.RMSAbove18k = nil
				r.PeakDB = nil
				r.ErrorCodes = []string{
					metrics.ErrCodeTimeout, metrics.ErrCodeExecFailed, metrics.ErrCodeParseLRA,
				}
			},
			0.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := goodRecord()
			tt.mutate(r)
			if got := Confidence(r); !almostEqual(got, tt.want) {
				t.Errorf("Confidence = %v, want %v", got, tt.want)
			}
		})
	}
}
