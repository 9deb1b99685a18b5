package handlers

import (
	"log/slog"
	"net/http"
	"time"

	derrors "git.home.luguber.info/inful/birthday/internal/foundation/errors"
	"git.home.luguber.info/inful/birthday/internal/gallery"
	"git.home.luguber.info/inful/birthday/internal/logfields"
	"git.home.luguber.info/inful/birthday/internal/metrics"
)

// PhotoHandlers serves the read-only listing endpoints.
type PhotoHandlers struct {
	source       gallery.Source
	recorder     metrics.Recorder
	errorAdapter *derrors.HTTPErrorAdapter
}

// NewPhotoHandlers creates listing handlers over src.
func NewPhotoHandlers(src gallery.Source, recorder metrics.Recorder) *PhotoHandlers {
	return &PhotoHandlers{
		source:       src,
		recorder:     metrics.OrNoop(recorder),
		errorAdapter: derrors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// HandleListing returns the handler for one category. A listing failure is
// logged and answered with 500 and an empty image list.
func (h *PhotoHandlers) HandleListing(cat gallery.Category) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		images, err := gallery.ListOrEmpty(r.Context(), h.source, cat)
		h.recorder.ObserveListingDuration(string(cat), time.Since(start))

		status := http.StatusOK
		if err != nil {
			status = http.StatusInternalServerError
			h.recorder.IncListingResult(string(cat), metrics.ResultFailure)
			slog.Warn("Error reading photos directory",
				logfields.Category(string(cat)),
				logfields.Error(err))
		} else {
			h.recorder.IncListingResult(string(cat), metrics.ResultSuccess)
		}

		w.Header().Set("Cache-Control", "no-store")
		if werr := writeJSONPretty(w, r, status, gallery.Listing{Images: images}); werr != nil {
			h.errorAdapter.WriteErrorResponse(w, r,
				derrors.WrapError(werr, derrors.CategoryInternal, "failed to write listing response").Build())
		}
	}
}
