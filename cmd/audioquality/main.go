package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/Freedom18946/audioquality/internal/cache"
	"github.com/Freedom18946/audioquality/internal/cli"
	"github.com/Freedom18946/audioquality/internal/config"
	"github.com/Freedom18946/audioquality/internal/extract"
	"github.com/Freedom18946/audioquality/internal/logging"
	"github.com/Freedom18946/audioquality/internal/metrics"
	"github.com/Freedom18946/audioquality/internal/profile"
	"github.com/Freedom18946/audioquality/internal/report"
	"github.com/Freedom18946/audioquality/internal/scan"
	"github.com/Freedom18946/audioquality/internal/scoring"
	"github.com/Freedom18946/audioquality/internal/ui"
)

var (
	version = "1.0.0"
)

// CLI defines the command-line interface
type CLI struct {
	Profile string   `short:"p" help:"Scoring profile: pop, broadcast or archive" placeholder:"name"`
	Config  string   `short:"c" type:"path" help:"Path to YAML config file (optional)"`
	Jobs    int      `short:"j" help:"Number of parallel analysis workers" placeholder:"n"`
	CSV     string   `help:"Write the CSV report to this path" placeholder:"path"`
	JSON    string   `help:"Write the full JSON report to this path" placeholder:"path"`
	NoCache bool     `help:"Skip the analysis cache entirely"`
	NoTUI   bool     `name:"no-tui" help:"Disable the interactive interface"`
	Version bool     `short:"v" help:"Show version information"`
	Paths   []string `arg:"" name:"paths" help:"Audio files or directories to analyze" type:"path" optional:""`
}

func main() {
	cliArgs := &CLI{}
	kctx := kong.Parse(cliArgs,
		kong.Name("audioquality"),
		kong.Description("Audio collection quality analyzer"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	if cliArgs.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	if len(cliArgs.Paths) == 0 {
		cli.PrintError("No input paths specified")
		kctx.PrintUsage(false)
		os.Exit(1)
	}

	cfg, err := config.Load(cliArgs.Config)
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
	applyFlags(&cfg, cliArgs)

	log := logging.New(os.Stderr, cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, cliArgs, log); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}

// applyFlags lets command-line flags override the loaded configuration.
func applyFlags(cfg *config.Config, c *CLI) {
	if c.Profile != "" {
		cfg.Profile = c.Profile
	}
	if c.Jobs > 0 {
		cfg.Jobs = c.Jobs
	}
	if c.CSV != "" {
		cfg.Output.CSVPath = c.CSV
	}
	if c.JSON != "" {
		cfg.Output.JSONPath = c.JSON
	}
	if c.NoCache {
		cfg.Cache.Enabled = false
	}
}

func run(ctx context.Context, cfg config.Config, cliArgs *CLI, log *slog.Logger) error {
	prof, err := profile.Resolve(cfg.Profile)
	if err != nil {
		return err
	}

	var files []string
	for _, root := range cliArgs.Paths {
		found, err := scan.AudioFiles(root)
		if err != nil {
			return err
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return fmt.Errorf("no supported audio files under %v", cliArgs.Paths)
	}
	log.Info("scan complete", "files", len(files), "profile", prof.Name)

	extractor, err := extract.New(cfg.FFmpeg.FFmpegPath, cfg.FFmpeg.FFprobePath, cfg.FFmpeg.Timeout())
	if err != nil {
		return err
	}

	var store *cache.Cache
	if cfg.Cache.Enabled {
		store, err = cache.Load(cfg.Cache.Path)
		if err != nil {
			log.Warn("cache unusable, starting fresh", "error", err)
			store = cache.New()
		}
	}

	analyzer := scoring.NewAnalyzer(prof)
	batch := &batchRunner{
		cfg:       cfg,
		files:     files,
		extractor: extractor,
		analyzer:  analyzer,
		store:     store,
		log:       log,
	}

	var analyses []scoring.Analysis
	if cliArgs.NoTUI {
		analyses, err = batch.run(ctx, nil)
	} else {
		analyses, err = batch.runWithUI(ctx, prof.Name)
	}
	if err != nil {
		return err
	}

	if store != nil {
		if err := store.Save(cfg.Cache.Path, cfg.Output.SafeMode); err != nil {
			log.Warn("could not save cache", "error", err)
		}
	}

	fmt.Print(report.Summary(analyses))

	if cfg.Output.CSVPath != "" {
		if err := report.WriteCSV(analyses, cfg.Output.CSVPath, cfg.Output.SafeMode); err != nil {
			return err
		}
		log.Info("csv report written", "path", cfg.Output.CSVPath)
	}
	if cfg.Output.JSONPath != "" {
		if err := report.WriteJSON(analyses, cfg.Output.JSONPath, cfg.Output.SafeMode); err != nil {
			return err
		}
		log.Info("json report written", "path", cfg.Output.JSONPath)
	}

	return ctx.Err()
}

// batchRunner drives the worker pool over the discovered files.
type batchRunner struct {
	cfg       config.Config
	files     []string
	extractor *extract.Extractor
	analyzer  *scoring.Analyzer
	store     *cache.Cache
	log       *slog.Logger

	mu sync.Mutex
}

// runWithUI runs the batch behind the Bubbletea interface.
func (b *batchRunner) runWithUI(ctx context.Context, profileName string) ([]scoring.Analysis, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := ui.NewModel(b.files, profileName)
	p := tea.NewProgram(model, tea.WithAltScreen())

	var analyses []scoring.Analysis
	var runErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		analyses, runErr = b.run(ctx, p)
		p.Send(ui.AllDoneMsg{})
	}()

	_, uiErr := p.Run()
	// Quitting the interface early cancels the remaining work.
	cancel()
	<-done

	if uiErr != nil {
		return nil, fmt.Errorf("terminal interface: %w", uiErr)
	}
	if runErr != nil && runErr != context.Canceled {
		return analyses, runErr
	}
	return analyses, nil
}

// run processes every file through the pool and returns the completed
// analyses in input order. A nil program means headless mode.
func (b *batchRunner) run(ctx context.Context, p *tea.Program) ([]scoring.Analysis, error) {
	results := make([]*scoring.Analysis, len(b.files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Jobs)

	for i, path := range b.files {
		i, path := i, path
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			b.send(p, ui.FileStartMsg{Index: i})

			rec, hit, err := b.measure(gctx, path)
			if err != nil {
				b.send(p, ui.FileResultMsg{Index: i, Error: err})
				if p == nil {
					b.log.Error("analysis failed", "file", path, "error", err)
				}
				return nil
			}

			analysis := b.analyzer.Analyze(rec)
			results[i] = &analysis
			b.send(p, ui.FileResultMsg{Index: i, Analysis: analysis, CacheHit: hit})
			if p == nil {
				b.log.Info("analyzed",
					"file", path,
					"score", analysis.Score,
					"status", analysis.StatusText,
					"cached", hit)
			}
			return nil
		})
	}

	err := g.Wait()

	analyses := make([]scoring.Analysis, 0, len(results))
	for _, a := range results {
		if a != nil {
			analyses = append(analyses, *a)
		}
	}
	return analyses, err
}

// measure returns the record for path, from cache when the fingerprint
// still matches, otherwise freshly extracted.
func (b *batchRunner) measure(ctx context.Context, path string) (*metrics.Record, bool, error) {
	if b.store == nil {
		rec, err := b.extractor.ProcessFile(ctx, path)
		return rec, false, err
	}

	fp, err := cache.FingerprintFile(path)
	if err != nil {
		return nil, false, err
	}

	b.mu.Lock()
	rec, ok := b.store.Lookup(path, fp)
	b.mu.Unlock()
	if ok {
		return rec, true, nil
	}

	rec, err = b.extractor.ProcessFile(ctx, path)
	if err != nil {
		return nil, false, err
	}
	rec.ContentSHA256 = fp.ContentSHA256

	b.mu.Lock()
	b.store.Upsert(path, fp, rec)
	b.mu.Unlock()
	return rec, false, nil
}

// send forwards a message to the UI when one is attached.
func (b *batchRunner) send(p *tea.Program, msg tea.Msg) {
	if p != nil {
		p.Send(msg)
	}
}
