package scoring

import (
	"math"
	"testing"

	"github.com/Freedom18946/audioquality/internal/metrics"
)

const scoreEpsilon = 0.001

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < scoreEpsilon
}

func TestMapRange(t *testing.T) {
	tests := []struct {
		name                           string
		value, inMin, inMax, outMin, outMax float64
		want                           float64
	}{
		{"midpoint", 5, 0, 10, 0, 100, 50},
		{"lower edge", 0, 0, 10, 0, 100, 0},
		{"upper edge", 10, 0, 10, 0, 100, 100},
		{"clamps below", -5, 0, 10, 0, 100, 0},
		{"clamps above", 15, 0, 10, 0, 100, 100},
		{"inverted output range", 2, 0, 10, 20, 0, 16},
		{"degenerate input range", 5, 5, 5, 0, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapRange(tt.value, tt.inMin, tt.inMax, tt.outMin, tt.outMax)
			if !almostEqual(got, tt.want) {
				t.Errorf("mapRange = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreCompliance(t *testing.T) {
	p := popProfile(t)

	t.Run("on target with headroom", func(t *testing.T) {
		r := goodRecord() // -14 LUFS on a -14 target, -2 dBTP
		got := scoreCompliance(r, p)
		// full loudness half (20) + true-peak margin 1.9 of 6 dB (4.75)
		if !almostEqual(got, 24.75) {
			t.Errorf("scoreCompliance = %v, want 24.75", got)
		}
	})

	t.Run("deviation reduces linearly", func(t *testing.T) {
		r := goodRecord()
		r.IntegratedLUFS = metrics.Float(-16.5) // 2.5 LU off a 5 LU tolerance
		got := scoreCompliance(r, p)
		if !almostEqual(got, 10+4.75) {
			t.Errorf("scoreCompliance = %v, want 14.75", got)
		}
	})

	t.Run("peak above critical earns nothing", func(t *testing.T) {
		r := goodRecord()
		r.TruePeakDBTP = metrics.Float(0.5)
		got := scoreCompliance(r, p)
		if !almostEqual(got, 20) {
			t.Errorf("scoreCompliance = %v, want 20", got)
		}
	})

	t.Run("missing fields contribute zero", func(t *testing.T) {
		r := goodRecord()
		r.IntegratedLUFS = nil
		r.TruePeakDBTP = nil
		if got := scoreCompliance(r, p); got != 0 {
			t.Errorf("scoreCompliance = %v, want 0", got)
		}
	})
}

func TestScoreDynamicsPlateau(t *testing.T) {
	p := popProfile(t)

	tests := []struct {
		lra  float64
		want float64
	}{
		{0, 0},
		{2, 4},      // severely compressed band
		{3, 6},      // poor/low boundary
		{4.5, 9},    // low band midpoint
		{6, 12},     // low/acceptable boundary
		{7, 16},     // approaching excellent
		{8, 20},     // plateau start
		{10, 20},    // excellent
		{18, 20},    // wide dynamics are never penalized here
	}
	for _, tt := range tests {
		r := goodRecord()
		r.LRA = metrics.Float(tt.lra)
		if got := scoreDynamics(r, p); !almostEqual(got, tt.want) {
			t.Errorf("scoreDynamics(lra=%.1f) = %v, want %v", tt.lra, got, tt.want)
		}
	}

	r := goodRecord()
	r.LRA = nil
	if got := scoreDynamics(r, p); got != 0 {
		t.Errorf("scoreDynamics(missing) = %v, want 0", got)
	}
}

func TestScoreDynamicsMonotone(t *testing.T) {
	p := popProfile(t)
	prev := -1.0
	for lra := 0.0; lra <= 16.0; lra += 0.25 {
		r := goodRecord()
		r.LRA = metrics.Float(lra)
		got := scoreDynamics(r, p)
		if got < prev {
			t.Fatalf("scoreDynamics not monotone: f(%.2f) = %v < previous %v", lra, got, prev)
		}
		prev = got
	}
}

func TestScoreSpectrum(t *testing.T) {
	p := popProfile(t)

	tests := []struct {
		name         string
		rms16, rms18 *float64
		want         float64
	}{
		{"both at ceiling", metrics.Float(-55), metrics.Float(-65), 25},
		{"both at floor", metrics.Float(-90), metrics.Float(-85), 0},
		{"16k only", metrics.Float(-55), nil, 15},
		{"18k only", nil, metrics.Float(-65), 10},
		{"both missing", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := goodRecord()
			r.RMSAbove16k = tt.rms16
			r.RMSAbove18k = tt.rms18
			if got := scoreSpectrum(r, p); !almostEqual(got, tt.want) {
				t.Errorf("scoreSpectrum = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreAuthenticity(t *testing.T) {
	p := popProfile(t)

	t.Run("lossy files have no claim to audit", func(t *testing.T) {
		r := lossyRecord()
		r.RMSAbove18k = metrics.Float(-95)
		if got := scoreAuthenticity(r, p); got != maxAuthenticity {
			t.Errorf("scoreAuthenticity = %v, want %v", got, maxAuthenticity)
		}
	})

	t.Run("unverifiable lossless claim earns half", func(t *testing.T) {
		r := goodRecord()
		r.RMSAbove18k = nil
		if got := scoreAuthenticity(r, p); got != authenticityUnverified {
			t.Errorf("scoreAuthenticity = %v, want %v", got, authenticityUnverified)
		}
	})

	t.Run("full high end verifies the claim", func(t *testing.T) {
		r := goodRecord() // -68 dB above 18 kHz
		if got := scoreAuthenticity(r, p); got != maxAuthenticity {
			t.Errorf("scoreAuthenticity = %v, want %v", got, maxAuthenticity)
		}
	})

	t.Run("borderline cutoff maps into the penalty band", func(t *testing.T) {
		r := goodRecord()
		r.RMSAbove18k = metrics.Float(-82)
		if got := scoreAuthenticity(r, p); !almostEqual(got, 6.8) {
			t.Errorf("scoreAuthenticity = %v, want 6.8", got)
		}
	})

	t.Run("hard cutoff earns nothing", func(t *testing.T) {
		r := goodRecord()
		r.RMSAbove18k = metrics.Float(-90)
		if got := scoreAuthenticity(r, p); got != 0 {
			t.Errorf("scoreAuthenticity = %v, want 0", got)
		}
	})
}

func TestScoreIntegrity(t *testing.T) {
	t.Run("complete record", func(t *testing.T) {
		if got := scoreIntegrity(goodRecord()); got != maxIntegrity {
			t.Errorf("scoreIntegrity = %v, want %v", got, maxIntegrity)
		}
	})

	t.Run("missing fields and error codes", func(t *testing.T) {
		r := goodRecord()
		r.LRA = nil
		r.TruePeakDBTP = nil
		r.ErrorCodes = []string{metrics.ErrCodeParseLRA}
		if got := scoreIntegrity(r); got != 4 {
			t.Errorf("scoreIntegrity = %v, want 4", got)
		}
	})

	t.Run("floors at zero", func(t *testing.T) {
		r := &metrics.Record{
			FilePath:   "/music/broken.flac",
			ErrorCodes: []string{metrics.ErrCodeTimeout, metrics.ErrCodeExecFailed, metrics.ErrCodeParseLRA},
		}
		if got := scoreIntegrity(r); got != 0 {
			t.Errorf("scoreIntegrity = %v, want 0", got)
		}
	})
}

func TestResolvePenalties(t *testing.T) {
	p := popProfile(t)

	t.Run("low bitrate penalty", func(t *testing.T) {
		r := lossyRecord()
		r.BitrateKbps = metrics.Int(128)
		with := resolvePenaltiesAndCap(60, r, p, StatusLowBitrate)
		if !almostEqual(with, 30) {
			t.Errorf("penalized score = %v, want 30", with)
		}
	})

	t.Run("high bitrate hollow spectrum anomaly", func(t *testing.T) {
		r := lossyRecord()
		r.BitrateKbps = metrics.Int(320)
		r.RMSAbove18k = metrics.Float(-82)
		got := resolvePenaltiesAndCap(80, r, p, StatusProcessed)
		// 80 - 25 anomaly = 55, below the Processed cap of 60
		if !almostEqual(got, 55) {
			t.Errorf("penalized score = %v, want 55", got)
		}
	})

	t.Run("status cap dominates arithmetic", func(t *testing.T) {
		r := goodRecord()
		r.RMSAbove18k = metrics.Float(-90)
		got := resolvePenaltiesAndCap(95, r, p, StatusSuspicious)
		if !almostEqual(got, 25) {
			t.Errorf("capped score = %v, want 25", got)
		}
	})

	t.Run("floor at zero", func(t *testing.T) {
		r := lossyRecord()
		r.BitrateKbps = metrics.Int(96)
		r.SampleRateHz = metrics.Int(22050)
		r.Channels = metrics.Int(1)
		got := resolvePenaltiesAndCap(20, r, p, StatusLowBitrate)
		if got != 0 {
			t.Errorf("score = %v, want 0", got)
		}
	})

	t.Run("mono penalty", func(t *testing.T) {
		r := goodRecord()
		r.Channels = metrics.Int(1)
		got := resolvePenaltiesAndCap(80, r, p, StatusMono)
		if !almostEqual(got, 75) {
			t.Errorf("score = %v, want 75", got)
		}
	})
}
