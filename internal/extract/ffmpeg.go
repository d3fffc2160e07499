package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
)

// FFmpeg writes its filter reports to stderr, not stdout. The parsers below
// work over that captured text; they are pure so they can be exercised
// against canned output without a process boundary.
var (
	// ebur128 summary block, e.g. "    I:         -14.5 LUFS"
	ebur128IntegratedRE = regexp.MustCompile(`(?m)^\s*I:\s*(-?[0-9.]+)\s*LUFS\s*$`)
	ebur128LRARE        = regexp.MustCompile(`(?m)^\s*LRA:\s*(-?[0-9.]+)\s*LU\s*$`)
	ebur128TruePeakRE   = regexp.MustCompile(`(?m)^\s*Peak:\s*(-?[0-9.]+)\s*dBFS\s*$`)

	// Streaming fallback for ffmpeg builds without a summary block:
	// take the last live "LRA: 11.7" occurrence.
	ebur128LiveLRARE = regexp.MustCompile(`LRA:\s*(-?[0-9.]+)`)

	// astats "Overall" block. When astats is chained after highpass its
	// parsed index shifts to 1, hence the two variants.
	overallStatsRE = regexp.MustCompile(
		`(?s)\[Parsed_astats_0 @ [^\]]+\] Overall.*?Peak level dB:\s*(-?[0-9.]+|-inf).*?RMS level dB:\s*(-?[0-9.]+|-inf)`)
	highpassStatsRE = regexp.MustCompile(
		`(?s)\[Parsed_astats_1 @ [^\]]+\] Overall.*?RMS level dB:\s*(-?[0-9.]+|-inf)`)
)

// loudness holds the three ebur128 summary measurements.
type loudness struct {
	integratedLUFS float64
	truePeakDBTP   float64
	lra            float64
	hasTruePeak    bool
}

// runStderr executes an ffmpeg invocation and returns captured stderr.
// A non-zero exit is an error even if stderr contains partial reports.
func (e *Extractor) runStderr(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		preview := stderr.String()
		if len(preview) > 500 {
			preview = preview[:500]
		}
		return "", fmt.Errorf("ffmpeg %v: %w (stderr: %s)", args, err, preview)
	}
	return stderr.String(), nil
}

// measureLoudness runs the ebur128 filter and parses integrated loudness,
// loudness range and true peak from the summary report.
func (e *Extractor) measureLoudness(ctx context.Context, path string) (loudness, error) {
	out, err := e.runStderr(ctx,
		"-hide_banner", "-nostats", "-vn",
		"-i", path,
		"-filter:a", "ebur128=peak=true",
		"-f", "null", "-",
	)
	if err != nil {
		return loudness{}, err
	}
	return parseLoudness(out)
}

func parseLoudness(stderr string) (loudness, error) {
	var l loudness

	m := ebur128IntegratedRE.FindStringSubmatch(stderr)
	if m == nil {
		return l, errors.New("ebur128 summary missing integrated loudness")
	}
	l.integratedLUFS, _ = strconv.ParseFloat(m[1], 64)

	if m := ebur128LRARE.FindStringSubmatch(stderr); m != nil {
		l.lra, _ = strconv.ParseFloat(m[1], 64)
	} else if matches := ebur128LiveLRARE.FindAllStringSubmatch(stderr, -1); len(matches) > 0 {
		last := matches[len(matches)-1]
		l.lra, _ = strconv.ParseFloat(last[1], 64)
	} else {
		return l, errors.New("ebur128 output missing LRA")
	}

	if m := ebur128TruePeakRE.FindStringSubmatch(stderr); m != nil {
		l.truePeakDBTP, _ = strconv.ParseFloat(m[1], 64)
		l.hasTruePeak = true
	}

	return l, nil
}

// measureStats runs astats and parses the overall peak and RMS levels.
func (e *Extractor) measureStats(ctx context.Context, path string) (peakDB, rmsDB float64, err error) {
	out, err := e.runStderr(ctx,
		"-hide_banner", "-nostats", "-vn",
		"-i", path,
		"-filter:a", "astats=metadata=1",
		"-f", "null", "-",
	)
	if err != nil {
		return 0, 0, err
	}
	return parseStats(out)
}

func parseStats(stderr string) (peakDB, rmsDB float64, err error) {
	m := overallStatsRE.FindStringSubmatch(stderr)
	if m == nil {
		return 0, 0, errors.New("astats output missing Overall block")
	}
	peakDB, err = parseLevel(m[1])
	if err != nil {
		return 0, 0, err
	}
	rmsDB, err = parseLevel(m[2])
	return peakDB, rmsDB, err
}

// measureHighpassRMS chains a highpass filter into astats and parses the
// overall RMS of what survived above freq. The fake-lossless probe.
func (e *Extractor) measureHighpassRMS(ctx context.Context, path string, freqHz int) (float64, error) {
	out, err := e.runStderr(ctx,
		"-hide_banner", "-nostats", "-vn",
		"-i", path,
		"-filter:a", fmt.Sprintf("highpass=f=%d,astats=metadata=1", freqHz),
		"-f", "null", "-",
	)
	if err != nil {
		return 0, err
	}
	return parseHighpassRMS(out)
}

func parseHighpassRMS(stderr string) (float64, error) {
	m := highpassStatsRE.FindStringSubmatch(stderr)
	if m == nil {
		return 0, errors.New("highpass astats output missing Overall RMS")
	}
	return parseLevel(m[1])
}

// parseLevel handles ffmpeg's "-inf" for digital silence by mapping it to
// the -120 dB measurement floor instead of failing the whole measurement.
func parseLevel(s string) (float64, error) {
	if s == "-inf" {
		return -120.0, nil
	}
	return strconv.ParseFloat(s, 64)
}
