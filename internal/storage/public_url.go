// Package storage resolves stored video objects to public URLs.
package storage

import (
	"fmt"
	"net/url"
	"strings"
)

// PublicURLResolver builds object URLs of the form
// {base}/storage/v1/object/public/{bucket}/{path}.
type PublicURLResolver struct {
	base   *url.URL
	bucket string
}

func NewPublicURLResolver(baseURL, bucket string) (*PublicURLResolver, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse storage url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("storage url %q must be absolute", baseURL)
	}
	if bucket == "" {
		return nil, fmt.Errorf("storage bucket not configured")
	}
	return &PublicURLResolver{base: base, bucket: bucket}, nil
}

// ResolveVideoURL never fails; a bad path shows up as a URL that does not play.
func (r *PublicURLResolver) ResolveVideoURL(filePath string) string {
	return r.base.JoinPath("storage", "v1", "object", "public", r.bucket, strings.TrimPrefix(filePath, "/")).String()
}
