// Package scoring implements the quality scoring and status classification
// engine. Everything in this package is a pure function of a measurement
// record and a profile: no hidden state, no I/O, safe to call from any number
// of goroutines over independent records.
package scoring

// Status is the single categorical quality verdict for one file. The set is
// closed; classification always yields exactly one value, never a
// combination.
type Status int

const (
	StatusGood Status = iota
	StatusIncomplete
	StatusSuspicious
	StatusProcessed
	StatusClipped
	StatusTruePeakRisk
	StatusLoudnessOffTarget
	StatusLowBitrate
	StatusLowSampleRate
	StatusMono
	StatusSeverelyCompressed
	StatusLowDynamic
)

var statusLabels = map[Status]string{
	StatusGood:               "good",
	StatusIncomplete:         "incomplete",
	StatusSuspicious:         "suspicious",
	StatusProcessed:          "processed",
	StatusClipped:            "clipped",
	StatusTruePeakRisk:       "true-peak-risk",
	StatusLoudnessOffTarget:  "loudness-off-target",
	StatusLowBitrate:         "low-bitrate",
	StatusLowSampleRate:      "low-sample-rate",
	StatusMono:               "mono",
	StatusSeverelyCompressed: "severely-compressed",
	StatusLowDynamic:         "low-dynamic",
}

func (s Status) String() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return "unknown"
}

// Description returns the human-readable report label for a status.
func (s Status) Description() string {
	switch s {
	case StatusGood:
		return "Good quality"
	case StatusIncomplete:
		return "Incomplete data"
	case StatusSuspicious:
		return "Suspicious (fake lossless)"
	case StatusProcessed:
		return "Likely processed"
	case StatusClipped:
		return "Clipped"
	case StatusTruePeakRisk:
		return "True-peak risk"
	case StatusLoudnessOffTarget:
		return "Loudness off target"
	case StatusLowBitrate:
		return "Low bitrate"
	case StatusLowSampleRate:
		return "Low sample rate"
	case StatusMono:
		return "Mono"
	case StatusSeverelyCompressed:
		return "Severely compressed"
	case StatusLowDynamic:
		return "Low dynamics"
	default:
		return "Unknown"
	}
}
