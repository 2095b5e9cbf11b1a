package services

import (
	"net/url"
	"strings"
)

// MediaResolver turns stored image references into URLs under the media base URL.
type MediaResolver struct {
	base *url.URL
}

func NewMediaResolver(baseURL string) (*MediaResolver, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, err
	}
	return &MediaResolver{base: base}, nil
}

// URL returns nil for a missing reference. Absolute references pass through.
func (m *MediaResolver) URL(ref *string) *string {
	if ref == nil || *ref == "" {
		return nil
	}
	if m == nil || m.base == nil {
		out := *ref
		return &out
	}
	parsed, err := url.Parse(*ref)
	if err != nil {
		return nil
	}
	if parsed.IsAbs() {
		out := parsed.String()
		return &out
	}
	out := m.base.ResolveReference(&url.URL{Path: strings.TrimLeft(parsed.Path, "/")}).String()
	return &out
}
