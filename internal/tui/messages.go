package tui

import "github.com/Veraticus/duecal/internal/tracker"

type monthLoadedMsg struct {
	err    error
	month  *tracker.Month
	period tracker.Period
}

type savedMsg struct {
	err     error
	period  tracker.Period
	entries int
}
