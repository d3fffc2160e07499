// Package profile holds the named threshold catalogs the scoring engine is
// tuned against. A profile is plain configuration data: target loudness, the
// acceptable loudness band, and true-peak thresholds, plus the shared
// thresholds that do not vary between delivery targets.
package profile

import (
	"errors"
	"fmt"
)

// ErrUnknownProfile is returned by Resolve for names outside the catalog.
var ErrUnknownProfile = errors.New("unknown profile")

// Names of the built-in profiles.
const (
	NamePop       = "pop"
	NameBroadcast = "broadcast"
	NameArchive   = "archive"
)

// Profile is an immutable set of scoring targets. Exactly one profile is
// active per analysis; it is shared by reference across concurrent calls.
type Profile struct {
	Name string

	// Loudness compliance
	TargetLUFS  float64 // integrated loudness target
	LoudnessMin float64 // lower edge of the acceptable band (LUFS)
	LoudnessMax float64 // upper edge of the acceptable band (LUFS)

	// True peak
	TruePeakWarnDBTP float64 // at or above: true-peak risk
	TruePeakCritDBTP float64 // at or above: clipped

	// Elite gate
	EliteLoudnessTol    float64 // max |I - target| for the elite gate (LU)
	EliteMinBitrateKbps int     // strict bitrate floor for lossy files

	Shared Thresholds
}

// Thresholds are the profile-independent constants shared by every catalog
// entry. Values carried over from the reference scoring tables.
type Thresholds struct {
	// High-frequency energy (dB RMS above 18 kHz)
	SpectrumFake      float64 // below: hard cutoff, fake-lossless signal
	SpectrumProcessed float64 // below: soft cutoff, lossy processing likely
	SpectrumGood      float64 // at or above: full high-frequency content

	// Loudness range bands (LU)
	LRAPoorMax       float64 // below: severely compressed
	LRALowMax        float64 // below: low dynamics
	LRAExcellentMin  float64
	LRAExcellentMax  float64
	LRAAcceptableMax float64
	LRATooHigh       float64 // above: advisory only, never penalized

	// Metadata floors
	MinBitrateKbps   int // lossy below this: low bitrate
	HighBitrateKbps  int // lossy above this with poor spectrum: anomaly
	MinSampleRateHz  int
	SpectrumFloor16k float64 // mapping floor for the 16 kHz band
	SpectrumCeil16k  float64 // mapping ceiling for the 16 kHz band
}

// sharedDefaults is identical for all built-in profiles.
var sharedDefaults = Thresholds{
	SpectrumFake:      -85.0,
	SpectrumProcessed: -80.0,
	SpectrumGood:      -70.0,
	LRAPoorMax:        3.0,
	LRALowMax:         6.0,
	LRAExcellentMin:   8.0,
	LRAExcellentMax:   12.0,
	LRAAcceptableMax:  15.0,
	LRATooHigh:        20.0,
	MinBitrateKbps:    192,
	HighBitrateKbps:   256,
	MinSampleRateHz:   44100,
	SpectrumFloor16k:  -90.0,
	SpectrumCeil16k:   -55.0,
}

// catalog is the closed set of built-in profiles. Entries are hand-tuned and
// never mutated at runtime.
var catalog = map[string]Profile{
	// Streaming music delivery: wide loudness tolerance, lenient peaks.
	NamePop: {
		Name:                NamePop,
		TargetLUFS:          -14.0,
		LoudnessMin:         -18.0,
		LoudnessMax:         -9.0,
		TruePeakWarnDBTP:    -1.0,
		TruePeakCritDBTP:    -0.1,
		EliteLoudnessTol:    1.5,
		EliteMinBitrateKbps: 320,
		Shared:              sharedDefaults,
	},
	// EBU R128 programme delivery: tight band around -23 LUFS.
	NameBroadcast: {
		Name:                NameBroadcast,
		TargetLUFS:          -23.0,
		LoudnessMin:         -24.0,
		LoudnessMax:         -22.0,
		TruePeakWarnDBTP:    -2.0,
		TruePeakCritDBTP:    -1.0,
		EliteLoudnessTol:    0.5,
		EliteMinBitrateKbps: 320,
		Shared:              sharedDefaults,
	},
	// Preservation auditing: widest tolerance, only hard defects matter.
	NameArchive: {
		Name:                NameArchive,
		TargetLUFS:          -16.0,
		LoudnessMin:         -30.0,
		LoudnessMax:         -8.0,
		TruePeakWarnDBTP:    -0.5,
		TruePeakCritDBTP:    0.0,
		EliteLoudnessTol:    2.0,
		EliteMinBitrateKbps: 256,
		Shared:              sharedDefaults,
	},
}

// Resolve returns the profile for name, or ErrUnknownProfile for any name
// outside the closed catalog. The failure is fatal to the requesting call
// only, never to a batch.
func Resolve(name string) (Profile, error) {
	p, ok := catalog[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q (known: %s, %s, %s)",
			ErrUnknownProfile, name, NamePop, NameBroadcast, NameArchive)
	}
	return p, nil
}

// Names returns the catalog names in a stable order, for help text and flag
// validation.
func Names() []string {
	return []string{NamePop, NameBroadcast, NameArchive}
}

// LoudnessTolerance is the widest distance from target still inside the
// acceptable band. Used as the falloff span for the compliance scorer.
func (p Profile) LoudnessTolerance() float64 {
	low := p.TargetLUFS - p.LoudnessMin
	high := p.LoudnessMax - p.TargetLUFS
	if low > high {
		return low
	}
	return high
}
