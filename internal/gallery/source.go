package gallery

import (
	"context"
	"os"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/birthday/internal/config"
	derrors "git.home.luguber.info/inful/birthday/internal/foundation/errors"
)

// imagePattern selects the displayable file extensions.
var imagePattern = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp)$`)

// IsImageName reports whether a file name has a displayable image extension.
func IsImageName(name string) bool { return imagePattern.MatchString(name) }

// Source enumerates the images of a category.
type Source interface {
	List(ctx context.Context, cat Category) ([]Image, error)
}

// DirSource lists images from one local directory per category.
type DirSource struct {
	categories map[Category]config.CategoryConfig
}

// NewDirSource builds a DirSource from the gallery configuration.
func NewDirSource(cfg config.GalleryConfig) *DirSource {
	return &DirSource{categories: map[Category]config.CategoryConfig{
		Carousel: cfg.Carousel,
		Collage:  cfg.Collage,
	}}
}

// Directory returns the directory backing cat.
func (s *DirSource) Directory(cat Category) string {
	return s.categories[cat].Directory
}

// List reads the category directory. Entries keep the order returned by the
// directory read; directories and non-image files are skipped.
func (s *DirSource) List(ctx context.Context, cat Category) ([]Image, error) {
	cc, ok := s.categories[cat]
	if !ok {
		return nil, derrors.ValidationError("unknown image category").
			WithContext("category", string(cat)).
			Build()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(cc.Directory)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategorySourceUnavailable, "failed to read photo directory").
			WithSeverity(derrors.SeverityWarning).
			WithRetry(derrors.RetryBackoff).
			WithContext("category", string(cat)).
			WithContext("dir", cc.Directory).
			Build()
	}

	images := make([]Image, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !IsImageName(e.Name()) {
			continue
		}
		images = append(images, Image{
			Src: strings.TrimRight(cc.URLPrefix, "/") + "/" + e.Name(),
			Alt: altFor(cc, e.Name()),
		})
	}
	return images, nil
}

func altFor(cc config.CategoryConfig, name string) string {
	if cc.AltStyle != config.AltStyleName {
		return cc.AltText
	}
	stem, _, _ := strings.Cut(name, ".")
	return cc.AltText + " - " + norm.NFC.String(stem)
}

// ListOrEmpty applies the degrade-to-empty policy: on failure it returns an
// empty, non-nil list together with the error so callers can log it.
func ListOrEmpty(ctx context.Context, src Source, cat Category) ([]Image, error) {
	images, err := src.List(ctx, cat)
	if err != nil {
		return []Image{}, err
	}
	if images == nil {
		images = []Image{}
	}
	return images, nil
}
