// Package firms loads the versioned account rules of the supported prop
// trading firms and resolves a firm and account size to a single tier.
package firms

import (
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embedded embed.FS

// supported is the allow-list of firm slugs. Its order is the tie-break for
// DetectFirm and the order of SupportedFirms.
var supported = []string{
	"topstep",
	"myfundedfutures",
	"tradeify",
	"alpha-futures",
	"ftmo",
	"fundednext",
}

// SupportedFirms returns the supported firm slugs in enumeration order.
func SupportedFirms() []string {
	return slices.Clone(supported)
}

// IsSupported reports whether slug is on the allow-list. slug must already
// be normalized.
func IsSupported(slug string) bool {
	return slices.Contains(supported, slug)
}

// Normalize lowercases name and collapses runs of whitespace into a single
// hyphen, so "Alpha  Futures" becomes "alpha-futures".
func Normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// Repository serves firm bundles from an fs.FS holding one <slug>.yaml per
// firm. Bundles are parsed on first use and kept for the life of the
// repository.
type Repository struct {
	fsys  fs.FS
	cache sync.Map // slug -> *Bundle
}

// NewRepository returns a repository reading bundles from the root of fsys.
func NewRepository(fsys fs.FS) *Repository {
	return &Repository{fsys: fsys}
}

var defaultRepo = sync.OnceValue(func() *Repository {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(err)
	}
	return NewRepository(sub)
})

// Default returns the process wide repository over the embedded rule data.
func Default() *Repository {
	return defaultRepo()
}

// Load returns the bundle for firmName. Unsupported names yield a
// *NotFoundError of kind KindFirm. Any other error means the rule data
// itself is broken.
func (r *Repository) Load(firmName string) (*Bundle, error) {
	slug := Normalize(firmName)
	if !IsSupported(slug) {
		return nil, &NotFoundError{Kind: KindFirm, Firm: firmName}
	}

	if b, ok := r.cache.Load(slug); ok {
		return b.(*Bundle), nil
	}

	// Concurrent first loads of the same slug may both parse; LoadOrStore
	// keeps the first and the bundles are equal anyway.
	b, err := r.read(slug)
	if err != nil {
		return nil, err
	}
	actual, loaded := r.cache.LoadOrStore(slug, b)
	if !loaded {
		log.Debug().
			Str("firm", slug).
			Str("version", b.Version).
			Int("tiers", len(b.Tiers)).
			Msg("firm rules loaded")
	}
	return actual.(*Bundle), nil
}

// LoadAll loads every supported firm, in enumeration order.
func (r *Repository) LoadAll() ([]*Bundle, error) {
	out := make([]*Bundle, 0, len(supported))
	for _, slug := range supported {
		b, err := r.Load(slug)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *Repository) read(slug string) (*Bundle, error) {
	data, err := fs.ReadFile(r.fsys, slug+".yaml")
	if err != nil {
		return nil, fmt.Errorf("read %s rules: %w", slug, err)
	}

	b := &Bundle{}
	if err := yaml.Unmarshal(data, b); err != nil {
		return nil, fmt.Errorf("parse %s rules: %w", slug, err)
	}
	if b.Slug != slug {
		return nil, fmt.Errorf("%s rules: file declares slug %q", slug, b.Slug)
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s rules: %w", slug, err)
	}
	return b, nil
}
