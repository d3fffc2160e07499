package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/Freedom18946/audioquality/internal/metrics"
)

// probeResult mirrors the subset of `ffprobe -of json` output we consume.
type probeResult struct {
	Format struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
		BitRate    string `json:"bit_rate"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
	} `json:"streams"`
}

// probe runs ffprobe and fills the container-metadata fields of the record.
// Numeric fields that ffprobe omits or mangles stay nil rather than zero.
func (e *Extractor) probe(ctx context.Context, path string, rec *metrics.Record) error {
	cmd := exec.CommandContext(ctx, e.ffprobePath,
		"-v", "error",
		"-show_format", "-show_streams",
		"-of", "json",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return fmt.Errorf("ffprobe %s: %w", path, err)
	}

	var pr probeResult
	if err := json.Unmarshal(out, &pr); err != nil {
		return fmt.Errorf("ffprobe output for %s: %w", path, err)
	}

	applyProbe(&pr, rec)
	return nil
}

// applyProbe maps a parsed ffprobe result onto a record. Split out from the
// process boundary so parsing stays testable against canned output.
func applyProbe(pr *probeResult, rec *metrics.Record) {
	rec.ContainerFormat = pr.Format.FormatName
	if v, err := strconv.ParseFloat(pr.Format.Duration, 64); err == nil {
		rec.DurationSeconds = &v
	}
	if v, err := strconv.Atoi(pr.Format.BitRate); err == nil && v > 0 {
		kbps := v / 1000
		rec.BitrateKbps = &kbps
	}

	for _, s := range pr.Streams {
		if s.CodecType != "audio" {
			continue
		}
		rec.CodecName = s.CodecName
		if v, err := strconv.Atoi(s.SampleRate); err == nil && v > 0 {
			rec.SampleRateHz = &v
		}
		if s.Channels > 0 {
			ch := s.Channels
			rec.Channels = &ch
		}
		break
	}
}
