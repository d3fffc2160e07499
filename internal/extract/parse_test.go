package extract

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/Freedom18946/audioquality/internal/metrics"
)

// Captured (and trimmed) ffmpeg stderr from real invocations.
const ebur128Fixture = `[Parsed_ebur128_0 @ 0x55f9b8a4c980] t: 212.8     TARGET:-23 LUFS    M: -13.9 S: -14.3     I: -14.5 LUFS       LRA: 11.6 LU  FTPK: -2.5 dBFS  TPK: -0.4 dBFS
[Parsed_ebur128_0 @ 0x55f9b8a4c980] Summary:

  Integrated loudness:
    I:         -14.5 LUFS
    Threshold: -25.1 LUFS

  Loudness range:
    LRA:        11.7 LU
    Threshold: -35.3 LUFS
    LRA low:   -25.6 LUFS
    LRA high:  -13.9 LUFS

  True peak:
    Peak:       -0.4 dBFS
`

const ebur128LiveOnlyFixture = `[Parsed_ebur128_0 @ 0x1] t: 10.1   M: -15.0 S: -15.2     I: -15.4 LUFS       LRA: 7.2 LU
[Parsed_ebur128_0 @ 0x1] t: 20.2   M: -14.1 S: -14.8     I: -15.1 LUFS       LRA: 8.4 LU

  Integrated loudness:
    I:         -15.0 LUFS
`

const astatsFixture = `[Parsed_astats_0 @ 0x55b1c0a3d2c0] Channel: 1
[Parsed_astats_0 @ 0x55b1c0a3d2c0] Peak level dB: -3.102*
[Parsed_astats_0 @ 0x55b1c0a3d2c0] Overall
[Parsed_astats_0 @ 0x55b1c0a3d2c0] DC offset: 0.000001
[Parsed_astats_0 @ 0x55b1c0a3d2c0] Peak level dB: -3.102447
[Parsed_astats_0 @ 0x55b1c0a3d2c0] RMS level dB: -17.893211
[Parsed_astats_0 @ 0x55b1c0a3d2c0] Flat factor: 0.000000
`

const highpassFixture = `[Parsed_astats_1 @ 0x5653a1b2c3d0] Channel: 1
[Parsed_astats_1 @ 0x5653a1b2c3d0] Overall
[Parsed_astats_1 @ 0x5653a1b2c3d0] DC offset: 0.000000
[Parsed_astats_1 @ 0x5653a1b2c3d0] Peak level dB: -61.234567
[Parsed_astats_1 @ 0x5653a1b2c3d0] RMS level dB: -72.515091
`

const highpassSilentFixture = `[Parsed_astats_1 @ 0x5653a1b2c3d0] Overall
[Parsed_astats_1 @ 0x5653a1b2c3d0] Peak level dB: -inf
[Parsed_astats_1 @ 0x5653a1b2c3d0] RMS level dB: -inf
`

const ffprobeFixture = `{
  "streams": [
    {
      "codec_type": "video",
      "codec_name": "mjpeg"
    },
    {
      "codec_type": "audio",
      "codec_name": "flac",
      "sample_rate": "44100",
      "channels": 2
    }
  ],
  "format": {
    "format_name": "flac",
    "duration": "213.4",
    "bit_rate": "941522"
  }
}`

func TestParseLoudnessSummary(t *testing.T) {
	l, err := parseLoudness(ebur128Fixture)
	if err != nil {
		t.Fatalf("parseLoudness failed: %v", err)
	}
	if l.integratedLUFS != -14.5 {
		t.Errorf("integrated = %v, want -14.5", l.integratedLUFS)
	}
	if l.lra != 11.7 {
		t.Errorf("LRA = %v, want 11.7 (summary value, not the live one)", l.lra)
	}
	if !l.hasTruePeak || l.truePeakDBTP != -0.4 {
		t.Errorf("true peak = %v (has=%v), want -0.4", l.truePeakDBTP, l.hasTruePeak)
	}
}

func TestParseLoudnessLiveFallback(t *testing.T) {
	l, err := parseLoudness(ebur128LiveOnlyFixture)
	if err != nil {
		t.Fatalf("parseLoudness failed: %v", err)
	}
	if l.lra != 8.4 {
		t.Errorf("LRA = %v, want the last live value 8.4", l.lra)
	}
	if l.hasTruePeak {
		t.Error("no true peak in fixture, hasTruePeak should be false")
	}
}

func TestParseLoudnessMissingIntegrated(t *testing.T) {
	if _, err := parseLoudness("no loudness report here"); err == nil {
		t.Fatal("expected an error for output without an ebur128 report")
	}
}

func TestParseStats(t *testing.T) {
	peak, rms, err := parseStats(astatsFixture)
	if err != nil {
		t.Fatalf("parseStats failed: %v", err)
	}
	if math.Abs(peak-(-3.102447)) > 1e-9 {
		t.Errorf("peak = %v, want -3.102447 from the Overall block", peak)
	}
	if math.Abs(rms-(-17.893211)) > 1e-9 {
		t.Errorf("rms = %v, want -17.893211", rms)
	}
}

func TestParseHighpassRMS(t *testing.T) {
	rms, err := parseHighpassRMS(highpassFixture)
	if err != nil {
		t.Fatalf("parseHighpassRMS failed: %v", err)
	}
	if math.Abs(rms-(-72.515091)) > 1e-9 {
		t.Errorf("rms = %v, want -72.515091", rms)
	}
}

func TestParseHighpassDigitalSilence(t *testing.T) {
	rms, err := parseHighpassRMS(highpassSilentFixture)
	if err != nil {
		t.Fatalf("parseHighpassRMS failed on -inf: %v", err)
	}
	if rms != -120.0 {
		t.Errorf("rms = %v, want the -120 measurement floor for -inf", rms)
	}
}

func TestApplyProbe(t *testing.T) {
	var pr probeResult
	if err := json.Unmarshal([]byte(ffprobeFixture), &pr); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	rec := &metrics.Record{FilePath: "/music/track.flac"}
	applyProbe(&pr, rec)

	if rec.ContainerFormat != "flac" {
		t.Errorf("container = %q, want flac", rec.ContainerFormat)
	}
	if rec.CodecName != "flac" {
		t.Errorf("codec = %q, want flac (the audio stream, not the cover art)", rec.CodecName)
	}
	if rec.SampleRateHz == nil || *rec.SampleRateHz != 44100 {
		t.Errorf("sample rate = %v, want 44100", rec.SampleRateHz)
	}
	if rec.Channels == nil || *rec.Channels != 2 {
		t.Errorf("channels = %v, want 2", rec.Channels)
	}
	if rec.BitrateKbps == nil || *rec.BitrateKbps != 941 {
		t.Errorf("bitrate = %v, want 941 kbps", rec.BitrateKbps)
	}
	if rec.DurationSeconds == nil || *rec.DurationSeconds != 213.4 {
		t.Errorf("duration = %v, want 213.4", rec.DurationSeconds)
	}
}

func TestApplyProbeEmptyOutput(t *testing.T) {
	rec := &metrics.Record{FilePath: "/music/broken.flac"}
	applyProbe(&probeResult{}, rec)

	if rec.SampleRateHz != nil || rec.BitrateKbps != nil || rec.Channels != nil {
		t.Errorf("empty probe must leave numeric fields nil, got %+v", rec)
	}
}
