package domain

import (
	"strings"
	"time"
)

// ukrainianLetters is the Ukrainian alphabet in both cases
const ukrainianLetters = "абвгґдеєжзиіїйклмнопрстуфхцчшщьюя" +
	"АБВГҐДЕЄЖЗИІЇЙКЛМНОПРСТУФХЦЧШЩЬЮЯ"

// IsUkrainian reports whether text contains at least one Ukrainian letter
func IsUkrainian(text string) bool {
	return strings.ContainsAny(text, ukrainianLetters)
}

// QuietWindow is a local-time interval of whole hours (value object).
// Start > End wraps around midnight, Start == End is an empty window.
type QuietWindow struct {
	StartHour int
	EndHour   int
}

// DefaultQuietWindow is 23:00 to 08:00
var DefaultQuietWindow = QuietWindow{StartHour: 23, EndHour: 8}

// Contains checks whether the hour falls inside the window
func (w QuietWindow) Contains(hour int) bool {
	switch {
	case w.StartHour == w.EndHour:
		return false
	case w.StartHour > w.EndHour:
		return hour >= w.StartHour || hour < w.EndHour
	default:
		return hour >= w.StartHour && hour < w.EndHour
	}
}

// ActiveAt checks whether the window is active at t (local hour of t)
func (w QuietWindow) ActiveAt(t time.Time) bool {
	return w.Contains(t.Hour())
}

// Valid checks that both bounds are hours of the day
func (w QuietWindow) Valid() bool {
	return w.StartHour >= 0 && w.StartHour < 24 && w.EndHour >= 0 && w.EndHour < 24
}
