// Package model defines the core data structures for carlogos.
package model

import (
	"errors"
	"net/url"
	"path"
	"strings"
)

// Logo is one record of the car-brand logo dataset.
// Records are supplied by the remote dataset and treated as read-only.
type Logo struct {
	Name  string `json:"name" yaml:"name"`
	Slug  string `json:"slug" yaml:"slug"`
	Image Image  `json:"image" yaml:"image"`
}

// Image holds the alternative image URLs of a logo, in preference order,
// plus the page the logo was sourced from.
type Image struct {
	Optimized string `json:"optimized,omitempty" yaml:"optimized,omitempty"`
	Thumb     string `json:"thumb,omitempty" yaml:"thumb,omitempty"`
	Original  string `json:"original,omitempty" yaml:"original,omitempty"`
	Source    string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Validation errors. Malformed records are still displayed; these are only
// reported by the CLI.
var (
	ErrEmptyName   = errors.New("name cannot be empty")
	ErrEmptySlug   = errors.New("slug cannot be empty")
	ErrNoImage     = errors.New("neither optimized nor thumb image is set")
	ErrEmptySource = errors.New("image source cannot be empty")
)

// Validate checks the dataset invariants for a record.
func (l *Logo) Validate() error {
	if l.Name == "" {
		return ErrEmptyName
	}
	if l.Slug == "" {
		return ErrEmptySlug
	}
	if l.Image.Optimized == "" && l.Image.Thumb == "" {
		return ErrNoImage
	}
	if l.Image.Source == "" {
		return ErrEmptySource
	}
	return nil
}

// DisplayImage returns the URL shown when a card is first rendered:
// optimized, falling back to thumb.
func (l *Logo) DisplayImage() string {
	if l.Image.Optimized != "" {
		return l.Image.Optimized
	}
	return l.Image.Thumb
}

// FallbackImage returns the URL used after the display image failed to
// load: thumb, falling back to original.
func (l *Logo) FallbackImage() string {
	if l.Image.Thumb != "" {
		return l.Image.Thumb
	}
	return l.Image.Original
}

// HasSource reports whether activating the logo can open anything.
func (l *Logo) HasSource() bool {
	return strings.TrimSpace(l.Image.Source) != ""
}

// AltText returns the accessible label for the logo image.
func (l *Logo) AltText() string {
	return l.Name + " logo"
}

// SourceHost returns the host name of the source URL, or "" if unparsable.
func (l *Logo) SourceHost() string {
	u, err := url.Parse(l.Image.Source)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// ImageFile returns the base file name of the given image URL.
func ImageFile(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return rawURL
	}
	return path.Base(u.Path)
}

// Initials returns up to two upper-case letters used as a monogram when no
// image can be drawn.
func (l *Logo) Initials() string {
	fields := strings.FieldsFunc(l.Name, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	})
	var b strings.Builder
	for _, f := range fields {
		r := []rune(f)
		if len(r) == 0 {
			continue
		}
		b.WriteString(strings.ToUpper(string(r[0])))
		if b.Len() >= 2 {
			break
		}
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}
