// Package player is the terminal front end of a viewing session. It renders
// session snapshots with bubbletea and lipgloss and maps keys onto session
// operations.
package player
