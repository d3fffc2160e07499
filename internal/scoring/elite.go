package scoring

import (
	"math"

	"github.com/Freedom18946/audioquality/internal/metrics"
	"github.com/Freedom18946/audioquality/internal/profile"
)

// Elite gate tuning. Scores above eliteGateThreshold are only honored when
// every indicator passes simultaneously; near-misses are remapped into the
// [eliteBandFloor, eliteBandCeil] band instead of being clustered at the
// boundary. The remap curve is a tunable policy; the guarantees that matter
// are monotonicity and the band bounds.
const (
	eliteGateThreshold = 90
	eliteBandFloor     = 85
	eliteBandCeil      = 89

	// Weighting between how far above the gate the score reached and how
	// close the failing indicators were to passing. Readiness dominates so
	// a near-elite file beats a merely-loud overshoot.
	eliteOvershootWeight = 0.3
	eliteReadinessWeight = 0.7

	// Closeness falloff spans: a miss this far from its threshold scores
	// zero closeness for that indicator.
	eliteLoudnessMissSpan = 3.0  // LU beyond the elite tolerance
	eliteTruePeakMissSpan = 3.0  // dB above the warning threshold
	eliteLRAMissSpan      = 4.0  // LU outside the excellent band
	eliteSpectrumMissSpan = 10.0 // dB below the strict floor
	eliteBitrateMissSpan  = 128  // kbps below the strict floor
)

// eliteIndicators evaluates the simultaneous-excellence checklist and
// returns a closeness value in [0,1] per indicator (1.0 = passing).
// A missing measurement counts as a full miss: excellence cannot be presumed.
func eliteIndicators(r *metrics.Record, p *profile.Profile) []float64 {
	indicators := make([]float64, 0, 5)

	// Loudness within the tightest compliance band.
	if r.IntegratedLUFS == nil {
		indicators = append(indicators, 0)
	} else {
		deviation := math.Abs(*r.IntegratedLUFS - p.TargetLUFS)
		indicators = append(indicators, closeness(deviation, p.EliteLoudnessTol, eliteLoudnessMissSpan))
	}

	// True peak strictly below the warning threshold.
	if r.TruePeakDBTP == nil {
		indicators = append(indicators, 0)
	} else if *r.TruePeakDBTP < p.TruePeakWarnDBTP {
		indicators = append(indicators, 1)
	} else {
		excess := *r.TruePeakDBTP - p.TruePeakWarnDBTP
		indicators = append(indicators, closeness(excess, 0, eliteTruePeakMissSpan))
	}

	// LRA inside the excellent band.
	if r.LRA == nil {
		indicators = append(indicators, 0)
	} else {
		var distance float64
		switch {
		case *r.LRA < p.Shared.LRAExcellentMin:
			distance = p.Shared.LRAExcellentMin - *r.LRA
		case *r.LRA > p.Shared.LRAExcellentMax:
			distance = *r.LRA - p.Shared.LRAExcellentMax
		}
		indicators = append(indicators, closeness(distance, 0, eliteLRAMissSpan))
	}

	// High-frequency energy above the strict floor.
	if r.RMSAbove18k == nil {
		indicators = append(indicators, 0)
	} else {
		deficit := p.Shared.SpectrumGood - *r.RMSAbove18k
		indicators = append(indicators, closeness(deficit, 0, eliteSpectrumMissSpan))
	}

	// Lossy files additionally need a strict bitrate floor. Lossless files
	// pass this indicator by construction.
	if r.Origin() != metrics.OriginLossy {
		indicators = append(indicators, 1)
	} else if r.BitrateKbps == nil {
		indicators = append(indicators, 0)
	} else {
		deficit := float64(p.EliteMinBitrateKbps - *r.BitrateKbps)
		indicators = append(indicators, closeness(deficit, 0, eliteBitrateMissSpan))
	}

	return indicators
}

// closeness maps a miss distance to [0,1]: anything at or inside allowed is
// a pass (1.0), a miss decays linearly and bottoms out at span beyond the
// allowance.
func closeness(distance, allowed, span float64) float64 {
	if distance <= allowed {
		return 1
	}
	miss := distance - allowed
	if miss >= span {
		return 0
	}
	return 1 - miss/span
}

// passesEliteGate requires every indicator at exactly 1.0.
func passesEliteGate(indicators []float64) bool {
	for _, v := range indicators {
		if v < 1 {
			return false
		}
	}
	return true
}

// finalizeScore applies the elite gate to a capped score. Scores at or below
// the gate threshold pass through untouched. A gated score either stands
// (all indicators pass) or is remapped into [85,89] by a monotone blend of
// overshoot above the gate and elite-readiness, so near-elite files land
// above merely-good ones inside the compressed band.
func finalizeScore(capped float64, r *metrics.Record, p *profile.Profile) int {
	if capped <= eliteGateThreshold {
		return int(math.Round(capped))
	}

	indicators := eliteIndicators(r, p)
	if passesEliteGate(indicators) {
		return int(math.Round(capped))
	}

	readiness := 0.0
	for _, v := range indicators {
		readiness += v
	}
	readiness /= float64(len(indicators))

	overshoot := (capped - eliteGateThreshold) / float64(MaxScore-eliteGateThreshold)

	blend := eliteOvershootWeight*overshoot + eliteReadinessWeight*readiness
	remapped := eliteBandFloor + int(math.Round(blend*float64(eliteBandCeil-eliteBandFloor)))
	if remapped > eliteBandCeil {
		remapped = eliteBandCeil
	}
	if remapped < eliteBandFloor {
		remapped = eliteBandFloor
	}
	return remapped
}
