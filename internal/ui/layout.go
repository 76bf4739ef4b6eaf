package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which list metadata is hidden.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width to show the chapter column.
	LayoutWideWidth = 140
)

// Chrome occupies the header line, the command bar and the status line.
const chromeHeight = 3

// Log display limits.
const (
	// LogTailLines is the number of log lines read from the end of the file.
	LogTailLines = 2000
)

// Timing constants.
const (
	// LogRefreshInterval is how often the log view rereads the file while following.
	LogRefreshInterval = 2 * time.Second
)
