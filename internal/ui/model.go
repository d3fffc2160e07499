// Package ui provides the Bubbletea terminal user interface for batch
// analysis runs.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FileStatus represents the analysis state of a single file
type FileStatus int

const (
	StatusQueued FileStatus = iota
	StatusAnalyzing
	StatusDone
	StatusError
)

// FileProgress tracks one audio file through the batch
type FileProgress struct {
	Path      string
	Status    FileStatus
	StartTime time.Time

	// Result fields, valid once Status is StatusDone
	Score      int
	StatusText string
	Confidence float64
	CacheHit   bool

	Error error
}

// Model is the Bubbletea model for the analysis UI. Workers feed it through
// ProgressChan; several files can be analyzing at once.
type Model struct {
	Files   []FileProgress
	Profile string

	TotalFiles     int
	CompletedFiles int
	FailedFiles    int

	// Completion order of finished files, for the recent-results list.
	finished []int

	StartTime time.Time
	Done      bool

	ProgressChan chan tea.Msg

	Width  int
	Height int
}

// NewModel creates a UI model over the list of discovered files.
func NewModel(paths []string, profileName string) Model {
	files := make([]FileProgress, len(paths))
	for i, path := range paths {
		files[i] = FileProgress{Path: path, Status: StatusQueued}
	}

	return Model{
		Files:        files,
		Profile:      profileName,
		TotalFiles:   len(paths),
		StartTime:    time.Now(),
		ProgressChan: make(chan tea.Msg, 100),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return waitForProgress(m.ProgressChan)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case FileStartMsg:
		if msg.Index >= 0 && msg.Index < len(m.Files) {
			m.Files[msg.Index].Status = StatusAnalyzing
			m.Files[msg.Index].StartTime = time.Now()
		}
		return m, waitForProgress(m.ProgressChan)

	case FileResultMsg:
		if msg.Index >= 0 && msg.Index < len(m.Files) {
			f := &m.Files[msg.Index]
			if msg.Error != nil {
				f.Status = StatusError
				f.Error = msg.Error
				m.FailedFiles++
			} else {
				f.Status = StatusDone
				f.Score = msg.Analysis.Score
				f.StatusText = msg.Analysis.StatusText
				f.Confidence = msg.Analysis.Confidence
				f.CacheHit = msg.CacheHit
				m.CompletedFiles++
			}
			m.finished = append(m.finished, msg.Index)
		}
		return m, waitForProgress(m.ProgressChan)

	case AllDoneMsg:
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if m.Width == 0 {
		return "Initializing..."
	}
	if m.Done {
		return renderCompletionSummary(m)
	}
	return renderAnalysisView(m)
}

// waitForProgress creates a command that waits for progress messages
func waitForProgress(progressChan chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-progressChan
	}
}
