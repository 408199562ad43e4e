package session

import "time"

// pollInterval paces the spinner and the snapshot poll while the session
// is loading or grading.
const pollInterval = 120 * time.Millisecond

// pollTickMsg animates the spinner and re-reads the session snapshot.
// Ticks from an older loop carry a stale ID and are dropped.
type pollTickMsg struct {
	ID int
}

// gradeDoneMsg is sent when Session.Grade returns.
type gradeDoneMsg struct {
	Err error
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
