package scoring

import (
	"math"

	"github.com/Freedom18946/audioquality/internal/metrics"
	"github.com/Freedom18946/audioquality/internal/profile"
)

// Sub-score maxima. The five dimensions sum to 100 before penalties; the
// final clamp to 99 keeps the ceiling unreachable.
const (
	maxCompliance   = 35.0
	maxDynamics     = 20.0
	maxSpectrum     = 25.0
	maxAuthenticity = 10.0
	maxIntegrity    = 10.0

	// Compliance split
	complianceLoudnessMax = 20.0
	complianceTruePeakMax = 15.0
	truePeakFullMarginDB  = 6.0 // dB below critical for full marks

	// Spectrum split
	spectrum16kMax   = 15.0
	spectrum18kMax   = 10.0
	spectrum18kFloor = -85.0 // dB - fake-lossless cutoff
	spectrum18kCeil  = -65.0 // dB - fully present high end

	// Authenticity
	authenticityUnverified = 5.0 // lossless claim with no 18 kHz measurement
	authenticityBorderMin  = 2.0 // at the fake threshold

	// Integrity and confidence decrements
	integrityFieldPenalty = 2.0
	integrityErrorPenalty = 2.0

	// Additive penalties (resolver)
	penaltyLowBitrate      = 30.0
	penaltySpectrumAnomaly = 25.0 // high bitrate but hollow spectrum
	penaltyLowSampleRate   = 20.0
	penaltyMono            = 5.0

	// MaxScore is the score ceiling. 100 is never reachable, to avoid
	// score-ceiling clustering in reports.
	MaxScore = 99
)

// requiredFields lists the measurement accessors that integrity and
// confidence treat as required. Ordering is stable for deterministic output.
var requiredFields = []func(*metrics.Record) *float64{
	func(r *metrics.Record) *float64 { return r.IntegratedLUFS },
	func(r *metrics.Record) *float64 { return r.TruePeakDBTP },
	func(r *metrics.Record) *float64 { return r.LRA },
	func(r *metrics.Record) *float64 { return r.RMSAbove18k },
	func(r *metrics.Record) *float64 { return r.PeakDB },
}

func missingRequiredFields(r *metrics.Record) int {
	missing := 0
	for _, field := range requiredFields {
		if field(r) == nil {
			missing++
		}
	}
	return missing
}

// mapRange linearly maps value from [inMin, inMax] to [outMin, outMax],
// clamping value to the input range first. Degenerate input ranges map to
// outMin.
func mapRange(value, inMin, inMax, outMin, outMax float64) float64 {
	if math.Abs(inMax-inMin) < 1e-12 {
		return outMin
	}
	if value < inMin {
		value = inMin
	} else if value > inMax {
		value = inMax
	}
	return outMin + (value-inMin)*(outMax-outMin)/(inMax-inMin)
}

// scoreCompliance rates loudness-target deviation and true-peak headroom.
// Larger deviations reduce the sub-score linearly toward 0; a missing field
// simply contributes nothing to its half.
func scoreCompliance(r *metrics.Record, p *profile.Profile) float64 {
	score := 0.0

	if r.IntegratedLUFS != nil {
		deviation := math.Abs(*r.IntegratedLUFS - p.TargetLUFS)
		score += mapRange(deviation, 0, p.LoudnessTolerance(), complianceLoudnessMax, 0)
	}

	if r.TruePeakDBTP != nil {
		margin := p.TruePeakCritDBTP - *r.TruePeakDBTP
		if margin > 0 {
			score += mapRange(margin, 0, truePeakFullMarginDB, 0, complianceTruePeakMax)
		}
	}

	return clampScore(score, maxCompliance)
}

// scoreDynamics is monotonically increasing in LRA up to the excellent
// plateau, then flat. Very high LRA is not penalized here: dynamics is not
// target-seeking, the over-dynamic case only surfaces as an advisory note.
func scoreDynamics(r *metrics.Record, p *profile.Profile) float64 {
	if r.LRA == nil {
		return 0
	}
	lra := *r.LRA

	t := p.Shared
	switch {
	case lra >= t.LRAExcellentMin:
		return maxDynamics
	case lra >= t.LRALowMax:
		return mapRange(lra, t.LRALowMax, t.LRAExcellentMin, 12, maxDynamics)
	case lra >= t.LRAPoorMax:
		return mapRange(lra, t.LRAPoorMax, t.LRALowMax, 6, 12)
	default:
		return mapRange(lra, 0, t.LRAPoorMax, 0, 6)
	}
}

// scoreSpectrum rates high-frequency energy: more energy above 16/18 kHz
// means a fuller encoding and a higher score.
func scoreSpectrum(r *metrics.Record, p *profile.Profile) float64 {
	score := 0.0
	if r.RMSAbove16k != nil {
		score += mapRange(*r.RMSAbove16k, p.Shared.SpectrumFloor16k, p.Shared.SpectrumCeil16k, 0, spectrum16kMax)
	}
	if r.RMSAbove18k != nil {
		score += mapRange(*r.RMSAbove18k, spectrum18kFloor, spectrum18kCeil, 0, spectrum18kMax)
	}
	return clampScore(score, maxSpectrum)
}

// scoreAuthenticity penalizes the fake-lossless signal: a file claiming a
// lossless format whose spectrum shows the relative cutoff of a prior lossy
// encode. Independent of the raw spectrum score, since a file can carry
// decent absolute high-frequency energy yet still show a suspicious cutoff
// versus its claimed format.
func scoreAuthenticity(r *metrics.Record, p *profile.Profile) float64 {
	if r.Origin() != metrics.OriginLossless {
		// No lossless claim to audit.
		return maxAuthenticity
	}
	if r.RMSAbove18k == nil {
		return authenticityUnverified
	}

	rms := *r.RMSAbove18k
	t := p.Shared
	switch {
	case rms >= t.SpectrumProcessed:
		return maxAuthenticity
	case rms >= t.SpectrumFake:
		return mapRange(rms, t.SpectrumFake, t.SpectrumProcessed, authenticityBorderMin, maxAuthenticity)
	default:
		return 0
	}
}

// scoreIntegrity decreases with missing required fields and extraction error
// codes. Floor at zero; confidence carries the finer-grained signal.
func scoreIntegrity(r *metrics.Record) float64 {
	score := maxIntegrity
	score -= float64(missingRequiredFields(r)) * integrityFieldPenalty
	score -= float64(len(r.ErrorCodes)) * integrityErrorPenalty
	if score < 0 {
		return 0
	}
	return score
}

// statusCaps are the status-driven upper bounds applied after penalties.
// A verdict like "suspicious" must dominate whatever the arithmetic says.
var statusCaps = map[Status]float64{
	StatusSuspicious:         25,
	StatusIncomplete:         45,
	StatusProcessed:          60,
	StatusSeverelyCompressed: 65,
	StatusLowBitrate:         70,
	StatusLowSampleRate:      75,
	StatusLowDynamic:         80,
	StatusClipped:            85,
	StatusMono:               88,
	StatusLoudnessOffTarget:  90,
	StatusTruePeakRisk:       92,
	StatusGood:               MaxScore,
}

// rawScore sums the five dimension sub-scores.
func rawScore(r *metrics.Record, p *profile.Profile) float64 {
	return scoreCompliance(r, p) +
		scoreDynamics(r, p) +
		scoreSpectrum(r, p) +
		scoreAuthenticity(r, p) +
		scoreIntegrity(r)
}

// resolvePenaltiesAndCap applies the profile-driven additive deductions that
// are not already reflected in sub-scores, then the status cap, then the
// final range clamp.
func resolvePenaltiesAndCap(raw float64, r *metrics.Record, p *profile.Profile, status Status) float64 {
	score := raw
	origin := r.Origin()

	if origin == metrics.OriginLossy && r.BitrateKbps != nil &&
		*r.BitrateKbps < p.Shared.MinBitrateKbps {
		score -= penaltyLowBitrate
	}

	// High bitrate with a hollow top end: the bits were spent re-encoding
	// already-truncated material.
	if origin == metrics.OriginLossy && r.BitrateKbps != nil &&
		*r.BitrateKbps > p.Shared.HighBitrateKbps &&
		r.RMSAbove18k != nil && *r.RMSAbove18k < p.Shared.SpectrumProcessed {
		score -= penaltySpectrumAnomaly
	}

	if r.SampleRateHz != nil && *r.SampleRateHz < p.Shared.MinSampleRateHz {
		score -= penaltyLowSampleRate
	}

	if r.Channels != nil && *r.Channels < 2 {
		score -= penaltyMono
	}

	if bound, ok := statusCaps[status]; ok && score > bound {
		score = bound
	}

	if score < 0 {
		return 0
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

func clampScore(score, ceiling float64) float64 {
	if score < 0 {
		return 0
	}
	if score > ceiling {
		return ceiling
	}
	return score
}
