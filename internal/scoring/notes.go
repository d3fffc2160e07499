package scoring

import (
	"fmt"

	"github.com/Freedom18946/audioquality/internal/metrics"
	"github.com/Freedom18946/audioquality/internal/profile"
)

// Notes renders one explanatory entry per condition that fired during
// classification, in decision-list order, not only the winning status.
// A file classified Good can still carry a mono note if the mono predicate
// fired behind an earlier short-circuit; suppressing those would hide real
// findings from the report. An advisory over-dynamic note is appended for
// LRA above the too-high threshold, and a default line covers the clean
// case. Pure text formatting, no I/O.
func Notes(r *metrics.Record, p *profile.Profile) []string {
	var notes []string
	for _, status := range triggeredStatuses(r, p) {
		notes = append(notes, noteFor(status, r, p))
	}

	if r.LRA != nil && *r.LRA > p.Shared.LRATooHigh {
		notes = append(notes, fmt.Sprintf(
			"Very wide loudness range (LRA %.1f LU); may need gain riding for casual listening.", *r.LRA))
	}

	if len(notes) == 0 {
		notes = append(notes, "No hard technical defects found.")
	}
	return notes
}

func noteFor(status Status, r *metrics.Record, p *profile.Profile) string {
	switch status {
	case StatusIncomplete:
		return fmt.Sprintf("Critical measurements missing (%d of 3); analysis may be unreliable.",
			missingCriticalFields(r))
	case StatusSuspicious:
		return fmt.Sprintf("Hard spectral cutoff near 18 kHz (%.1f dB) on a lossless-labelled file; likely a lossy transcode.",
			*r.RMSAbove18k)
	case StatusProcessed:
		return fmt.Sprintf("Low energy above 18 kHz (%.1f dB); soft cutoff suggests prior lossy processing.",
			*r.RMSAbove18k)
	case StatusClipped:
		return fmt.Sprintf("True peak %.2f dBTP at or above the %.1f dBTP clipping threshold.",
			*r.TruePeakDBTP, p.TruePeakCritDBTP)
	case StatusTruePeakRisk:
		return fmt.Sprintf("True peak %.2f dBTP above the %.1f dBTP warning threshold; inter-sample clipping risk.",
			*r.TruePeakDBTP, p.TruePeakWarnDBTP)
	case StatusLoudnessOffTarget:
		return fmt.Sprintf("Integrated loudness %.1f LUFS outside the %s band [%.0f, %.0f] LUFS.",
			*r.IntegratedLUFS, p.Name, p.LoudnessMin, p.LoudnessMax)
	case StatusLowBitrate:
		return fmt.Sprintf("Bitrate %d kbps below %d kbps; audible detail loss likely.",
			*r.BitrateKbps, p.Shared.MinBitrateKbps)
	case StatusLowSampleRate:
		return fmt.Sprintf("Sample rate %d Hz below %d Hz; high-frequency ceiling reduced.",
			*r.SampleRateHz, p.Shared.MinSampleRateHz)
	case StatusMono:
		return "Single channel (mono) audio."
	case StatusSeverelyCompressed:
		return fmt.Sprintf("Extremely low loudness range (LRA %.1f LU); severe over-compression.", *r.LRA)
	case StatusLowDynamic:
		return fmt.Sprintf("Low loudness range (LRA %.1f LU); likely over-compressed.", *r.LRA)
	default:
		return status.Description()
	}
}
