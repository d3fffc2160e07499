package ui

import (
	"github.com/Freedom18946/audioquality/internal/scoring"
)

// FileStartMsg indicates a worker has started measuring a file
type FileStartMsg struct {
	Index int
}

// FileResultMsg carries the finished analysis for one file
type FileResultMsg struct {
	Index    int
	Analysis scoring.Analysis
	CacheHit bool
	Error    error
}

// AllDoneMsg indicates the whole batch has been analyzed
type AllDoneMsg struct{}
