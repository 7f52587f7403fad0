package service

import "strings"

// Image size tokens understood by the TMDB image service
const (
	SizeThumb    = "w500"
	SizeFull     = "w1280"
	SizeOriginal = "original"
)

// DefaultPlaceholder is served in place of missing images
const DefaultPlaceholder = "/static/placeholder.jpg"

// Images composes image URLs as {base}/{size}{path}
type Images struct {
	base        string
	placeholder string
}

// NewImages creates an image URL builder
func NewImages(base, placeholder string) *Images {
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	return &Images{
		base:        strings.TrimSuffix(base, "/"),
		placeholder: placeholder,
	}
}

// URL returns the image URL for path at size, or the placeholder when path is empty
func (i *Images) URL(size, path string) string {
	path = strings.TrimSpace(path)
	if path == "" || i.base == "" {
		return i.placeholder
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return i.base + "/" + size + path
}

// URLOf is URL for an optional path
func (i *Images) URLOf(size string, path *string) string {
	if path == nil {
		return i.placeholder
	}
	return i.URL(size, *path)
}

// Placeholder returns the fallback image URL
func (i *Images) Placeholder() string {
	return i.placeholder
}
