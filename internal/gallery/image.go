package gallery

import (
	"fmt"
	"strings"
)

// Image describes one displayable photo. Src is unique within a listing.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// Category identifies a photo collection.
type Category string

const (
	// Carousel is the rotating hero gallery, served from /photos.
	Carousel Category = "carousel"
	// Collage is the randomized grid, served from /gf-photos.
	Collage Category = "collage"
)

// Categories lists every category in display order.
func Categories() []Category { return []Category{Carousel, Collage} }

// Collection returns the on-the-wire collection name.
func (c Category) Collection() string {
	switch c {
	case Carousel:
		return "photos"
	case Collage:
		return "gf-photos"
	default:
		return string(c)
	}
}

// APIPath returns the listing endpoint path for the category.
func (c Category) APIPath() string { return "/api/" + c.Collection() }

// Valid reports whether c is a known category.
func (c Category) Valid() bool { return c == Carousel || c == Collage }

// ParseCategory accepts either the category name or its collection name.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "carousel", "photos":
		return Carousel, nil
	case "collage", "gf-photos":
		return Collage, nil
	default:
		return "", fmt.Errorf("unknown category %q (want carousel or collage)", s)
	}
}

// Listing is the JSON body of a listing response.
type Listing struct {
	Images []Image `json:"images"`
}
