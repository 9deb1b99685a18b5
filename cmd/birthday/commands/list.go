package commands

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"git.home.luguber.info/inful/birthday/internal/gallery"
)

// ListCmd implements the 'list' command.
type ListCmd struct {
	Category string `arg:"" enum:"carousel,collage" help:"Category to list (carousel or collage)"`
	Server   string `help:"List from a running server at this base URL instead of the local directories"`
}

func (l *ListCmd) Run(_ *Global, root *CLI) error {
	cat, err := gallery.ParseCategory(l.Category)
	if err != nil {
		return err
	}
	var src gallery.Source
	if l.Server != "" {
		src = gallery.NewHTTPSource(l.Server, &http.Client{Timeout: 10 * time.Second})
	} else {
		cfg, err := LoadConfig(root.Config)
		if err != nil {
			return err
		}
		src = gallery.NewDirSource(cfg.Gallery)
	}
	return RunList(context.Background(), os.Stdout, src, cat)
}

// RunList writes the listing of cat to w. A failed listing still prints an
// empty listing, then reports the error.
func RunList(ctx context.Context, w io.Writer, src gallery.Source, cat gallery.Category) error {
	images, listErr := gallery.ListOrEmpty(ctx, src, cat)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(gallery.Listing{Images: images}); err != nil {
		return err
	}
	return listErr
}
