package scoring

import (
	"github.com/Freedom18946/audioquality/internal/metrics"
	"github.com/Freedom18946/audioquality/internal/profile"
)

// rule pairs a predicate with the status it selects. The classifier walks
// the rules in slice order and the first match wins, so severity ordering
// lives entirely in the slice layout below.
type rule struct {
	status Status
	match  func(r *metrics.Record, p *profile.Profile) bool
}

// classifierRules is the ordered decision list. Severity-first: authenticity
// and clipping concerns must never be masked by a cosmetic defect found later
// in the list, and completeness is checked before any acoustic judgement
// because acoustic rules are meaningless on missing data.
var classifierRules = []rule{
	{StatusIncomplete, func(r *metrics.Record, p *profile.Profile) bool {
		return missingCriticalFields(r) >= 2
	}},
	{StatusSuspicious, func(r *metrics.Record, p *profile.Profile) bool {
		return r.Origin() == metrics.OriginLossless &&
			r.RMSAbove18k != nil && *r.RMSAbove18k < p.Shared.SpectrumFake
	}},
	{StatusProcessed, func(r *metrics.Record, p *profile.Profile) bool {
		return r.RMSAbove18k != nil && *r.RMSAbove18k < p.Shared.SpectrumProcessed
	}},
	{StatusClipped, func(r *metrics.Record, p *profile.Profile) bool {
		return r.TruePeakDBTP != nil && *r.TruePeakDBTP >= p.TruePeakCritDBTP
	}},
	{StatusTruePeakRisk, func(r *metrics.Record, p *profile.Profile) bool {
		// Range-bounded so a clipped file does not also report peak risk.
		return r.TruePeakDBTP != nil && *r.TruePeakDBTP >= p.TruePeakWarnDBTP &&
			*r.TruePeakDBTP < p.TruePeakCritDBTP
	}},
	{StatusLoudnessOffTarget, func(r *metrics.Record, p *profile.Profile) bool {
		return r.IntegratedLUFS != nil &&
			(*r.IntegratedLUFS < p.LoudnessMin || *r.IntegratedLUFS > p.LoudnessMax)
	}},
	{StatusLowBitrate, func(r *metrics.Record, p *profile.Profile) bool {
		return r.Origin() == metrics.OriginLossy &&
			r.BitrateKbps != nil && *r.BitrateKbps < p.Shared.MinBitrateKbps
	}},
	{StatusLowSampleRate, func(r *metrics.Record, p *profile.Profile) bool {
		return r.SampleRateHz != nil && *r.SampleRateHz < p.Shared.MinSampleRateHz
	}},
	{StatusMono, func(r *metrics.Record, p *profile.Profile) bool {
		return r.Channels != nil && *r.Channels < 2
	}},
	{StatusSeverelyCompressed, func(r *metrics.Record, p *profile.Profile) bool {
		return r.LRA != nil && *r.LRA < p.Shared.LRAPoorMax
	}},
	{StatusLowDynamic, func(r *metrics.Record, p *profile.Profile) bool {
		return r.LRA != nil && *r.LRA >= p.Shared.LRAPoorMax && *r.LRA < p.Shared.LRALowMax
	}},
}

// Classify evaluates the ordered decision list and returns the first matching
// status, or StatusGood when nothing fires. Total: no input combination
// fails, an entirely empty record simply degrades to StatusIncomplete.
func Classify(r *metrics.Record, p *profile.Profile) Status {
	for _, rule := range classifierRules {
		if rule.match(r, p) {
			return rule.status
		}
	}
	return StatusGood
}

// triggeredStatuses returns every rule that would fire on this record,
// in decision-list order, regardless of short-circuiting. The note generator
// reports all of them, not just the winner.
func triggeredStatuses(r *metrics.Record, p *profile.Profile) []Status {
	var fired []Status
	for _, rule := range classifierRules {
		if rule.match(r, p) {
			fired = append(fired, rule.status)
		}
	}
	return fired
}

// missingCriticalFields counts absences among the three fields the
// completeness rule tests: high-frequency RMS above 18 kHz, LRA, and peak
// level. A measured 0.0 is a value, not an absence.
func missingCriticalFields(r *metrics.Record) int {
	missing := 0
	if r.RMSAbove18k == nil {
		missing++
	}
	if r.LRA == nil {
		missing++
	}
	if r.PeakDB == nil {
		missing++
	}
	return missing
}
