package handlers

import (
	"log/slog"
	"math/rand/v2"
	"net/http"

	"git.home.luguber.info/inful/birthday/internal/celebration"
	derrors "git.home.luguber.info/inful/birthday/internal/foundation/errors"
)

// CelebrationHandlers serves freshly drawn effect plans.
type CelebrationHandlers struct {
	newRand      func() *rand.Rand
	errorAdapter *derrors.HTTPErrorAdapter
}

// NewCelebrationHandlers creates the handlers. A nil newRand seeds randomly per request.
func NewCelebrationHandlers(newRand func() *rand.Rand) *CelebrationHandlers {
	if newRand == nil {
		newRand = func() *rand.Rand { return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) }
	}
	return &CelebrationHandlers{
		newRand:      newRand,
		errorAdapter: derrors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// HandleCelebration returns hearts, the opening confetti show and the wish burst.
func (h *CelebrationHandlers) HandleCelebration(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	if err := writeJSONPretty(w, r, http.StatusOK, celebration.NewPlan(h.newRand())); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r,
			derrors.WrapError(err, derrors.CategoryInternal, "failed to write celebration response").Build())
	}
}
