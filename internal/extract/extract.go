// Package extract shells out to ffmpeg and ffprobe to measure one audio
// file. Each independent measurement can fail on its own; failures degrade
// to a missing field plus an error-code token on the record instead of
// failing the file, so the scoring engine always receives something to work
// with.
package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/Freedom18946/audioquality/internal/metrics"
)

// Highpass probe frequencies, in Hz. 18 kHz is the primary fake-lossless
// signal; 16 and 20 kHz bracket it for the spectrum score.
var highpassFrequencies = []int{16000, 18000, 20000}

// DefaultTimeout bounds each individual ffmpeg/ffprobe invocation.
const DefaultTimeout = 2 * time.Minute

// Extractor runs measurement commands for one configured toolchain.
// Safe for concurrent use; it holds only immutable configuration.
type Extractor struct {
	ffmpegPath  string
	ffprobePath string
	timeout     time.Duration
}

// New builds an extractor from explicit tool paths. Empty paths fall back to
// a PATH lookup; an error is returned only when a tool cannot be found at
// all.
func New(ffmpegPath, ffprobePath string, timeout time.Duration) (*Extractor, error) {
	var err error
	if ffmpegPath == "" {
		ffmpegPath, err = exec.LookPath("ffmpeg")
		if err != nil {
			return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
		}
	}
	if ffprobePath == "" {
		ffprobePath, err = exec.LookPath("ffprobe")
		if err != nil {
			return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
		}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Extractor{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		timeout:     timeout,
	}, nil
}

// ProcessFile measures a single audio file. The five acoustic measurements
// and the metadata probe run concurrently; each is individually bounded by
// the extractor timeout. The returned record is complete to whatever degree
// extraction succeeded; the only hard error is a missing file.
func (e *Extractor) ProcessFile(ctx context.Context, path string) (*metrics.Record, error) {
	start := time.Now()

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	rec := &metrics.Record{
		FilePath:      path,
		FileSizeBytes: info.Size(),
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	// fail records an extraction failure under the appropriate token.
	fail := func(err error, parseCode string) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			rec.AddErrorCode(metrics.ErrCodeTimeout)
		case isExecFailure(err):
			rec.AddErrorCode(metrics.ErrCodeExecFailed)
		default:
			rec.AddErrorCode(parseCode)
		}
	}

	run := func(task func(ctx context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			taskCtx, cancel := context.WithTimeout(ctx, e.timeout)
			defer cancel()
			task(taskCtx)
		}()
	}

	run(func(ctx context.Context) {
		if err := e.probe(ctx, path, rec); err != nil {
			fail(err, metrics.ErrCodeProbeFailed)
		}
	})

	run(func(ctx context.Context) {
		l, err := e.measureLoudness(ctx, path)
		if err != nil {
			fail(err, metrics.ErrCodeParseLRA)
			return
		}
		mu.Lock()
		rec.IntegratedLUFS = &l.integratedLUFS
		rec.LRA = &l.lra
		if l.hasTruePeak {
			rec.TruePeakDBTP = &l.truePeakDBTP
		}
		mu.Unlock()
	})

	run(func(ctx context.Context) {
		peak, rms, err := e.measureStats(ctx, path)
		if err != nil {
			fail(err, metrics.ErrCodeParseStats)
			return
		}
		mu.Lock()
		rec.PeakDB = &peak
		rec.OverallRMSDB = &rms
		mu.Unlock()
	})

	for _, freq := range highpassFrequencies {
		freq := freq
		run(func(ctx context.Context) {
			rms, err := e.measureHighpassRMS(ctx, path, freq)
			if err != nil {
				fail(err, metrics.ErrCodeParseHighpass)
				return
			}
			mu.Lock()
			switch freq {
			case 16000:
				rec.RMSAbove16k = &rms
			case 18000:
				rec.RMSAbove18k = &rms
			case 20000:
				rec.RMSAbove20k = &rms
			}
			mu.Unlock()
		})
	}

	wg.Wait()

	rec.ProcessingTime = time.Since(start)
	return rec, nil
}

func isExecFailure(err error) bool {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return true
	}
	var execErr *exec.Error
	return errors.As(err, &execErr)
}
