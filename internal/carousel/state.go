package carousel

import "git.home.luguber.info/inful/birthday/internal/gallery"

// Phase is the coarse scheduler state.
type Phase int

const (
	Idle Phase = iota
	Showing
	Transitioning
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Showing:
		return "showing"
	case Transitioning:
		return "transitioning"
	default:
		return "unknown"
	}
}

// State is a point-in-time copy of the scheduler state. Current and Target
// are -1 when they do not apply.
type State struct {
	Items         []gallery.Image `json:"items"`
	Current       int             `json:"current_index"`
	Target        int             `json:"target_index"`
	Paused        bool            `json:"paused"`
	Transitioning bool            `json:"transitioning"`
}

// Phase derives the state machine phase.
func (s State) Phase() Phase {
	switch {
	case len(s.Items) == 0:
		return Idle
	case s.Transitioning:
		return Transitioning
	default:
		return Showing
	}
}

// CurrentImage returns the image being shown.
func (s State) CurrentImage() (gallery.Image, bool) {
	if s.Current < 0 || s.Current >= len(s.Items) {
		return gallery.Image{}, false
	}
	return s.Items[s.Current], true
}
