package httpserver

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/yuin/goldmark"

	"git.home.luguber.info/inful/birthday/internal/config"
	derrors "git.home.luguber.info/inful/birthday/internal/foundation/errors"
	"git.home.luguber.info/inful/birthday/internal/logfields"
	"git.home.luguber.info/inful/birthday/internal/version"
)

//go:embed assets
var assets embed.FS

func staticFS() fs.FS {
	sub, err := fs.Sub(assets, "assets/static")
	if err != nil {
		panic(err)
	}
	return sub
}

// pageData feeds index.html.tmpl. Timings are milliseconds for the browser.
type pageData struct {
	Title           string
	Subtitle        string
	Message         template.HTML
	CarouselMillis  int64
	SettleMillis    int64
	CollageMillis   int64
	TransitionOutMs int64
	GridSize        int
	CarouselAPI     string
	CollageAPI      string
	Version         string
}

// pageRenderer renders the single page once; the content only depends on config.
type pageRenderer struct {
	body []byte
}

func newPageRenderer(cfg *config.Config) (*pageRenderer, error) {
	tmpl, err := template.ParseFS(assets, "assets/index.html.tmpl")
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryInternal, "failed to parse page template").Build()
	}

	var msg bytes.Buffer
	if err := goldmark.Convert([]byte(cfg.Site.Message), &msg); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to render site message").Build()
	}

	data := pageData{
		Title:           cfg.Site.Title,
		Subtitle:        cfg.Site.Subtitle,
		Message:         template.HTML(msg.String()), //nolint:gosec // goldmark drops raw HTML unless WithUnsafe is set
		CarouselMillis:  cfg.Carousel.Interval.Milliseconds(),
		SettleMillis:    cfg.Carousel.Settle.Milliseconds(),
		CollageMillis:   cfg.Collage.Interval.Milliseconds(),
		TransitionOutMs: cfg.Collage.TransitionOut.Milliseconds(),
		GridSize:        cfg.Collage.GridSize,
		CarouselAPI:     "/api/photos",
		CollageAPI:      "/api/gf-photos",
		Version:         version.Version,
	}

	var out bytes.Buffer
	if err := tmpl.Execute(&out, data); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryInternal, "failed to render page").Build()
	}
	return &pageRenderer{body: out.Bytes()}, nil
}

func (p *pageRenderer) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(p.body); err != nil {
		slog.Debug("page write failed", logfields.Error(err))
	}
}
