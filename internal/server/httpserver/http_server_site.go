package httpserver

import (
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"git.home.luguber.info/inful/birthday/internal/config"
	"git.home.luguber.info/inful/birthday/internal/gallery"
	smw "git.home.luguber.info/inful/birthday/internal/server/middleware"
)

// SiteHandler builds the public router: page, assets, photo files and the
// /api endpoints behind the rate limiter.
func (s *Server) SiteHandler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.mchain)

	r.Get("/", s.page.ServeHTTP)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(staticFS())))

	limiter := smw.NewLimiter(s.cfg.Server.RateLimit.PerSecond, s.cfg.Server.RateLimit.Burst)
	r.Route("/api", func(r chi.Router) {
		r.Use(smw.RateLimit(limiter, s.errorAdapter, s.opts.Recorder))
		r.Get("/photos", s.photoHandlers.HandleListing(gallery.Carousel))
		r.Get("/gf-photos", s.photoHandlers.HandleListing(gallery.Collage))
		r.Get("/celebration", s.celebrationHandlers.HandleCelebration)
		if s.opts.Events != nil {
			r.Get("/events", s.opts.Events.ServeHTTP)
		}
	})

	for _, cc := range []config.CategoryConfig{s.cfg.Gallery.Carousel, s.cfg.Gallery.Collage} {
		prefix := strings.TrimRight(cc.URLPrefix, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix+"/", photoFileServer(cc.Directory)))
	}
	return r
}

// photoFileServer serves image files from dir. Directory listings and
// non-image files are hidden.
func photoFileServer(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := path.Clean("/" + r.URL.Path)
		if strings.Count(name, "/") != 1 || !gallery.IsImageName(name) {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=300")
		files.ServeHTTP(w, r)
	})
}
