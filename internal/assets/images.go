// Package assets resolves the image URLs a configuration names to decoded
// images for the scene builder.
package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	DefaultTimeout = 10 * time.Second
	maxImageBytes  = 32 << 20
)

var ErrUnsupportedScheme = errors.New("assets: unsupported url scheme")

// Images loads local files, file:// URLs and, when remote loading is
// enabled, http(s) URLs. Decoded images are kept for the life of the
// source, so a rebuild never decodes the same URL twice.
type Images struct {
	dir    string
	client *http.Client
	remote bool

	mu    sync.Mutex
	cache map[string]image.Image
}

type Option func(*Images)

// WithRemote enables http and https URLs.
func WithRemote(client *http.Client) Option {
	return func(s *Images) {
		if client == nil {
			client = &http.Client{Timeout: DefaultTimeout}
		}
		s.client = client
		s.remote = true
	}
}

// NewImages resolves relative paths against dir.
func NewImages(dir string, opts ...Option) *Images {
	s := &Images{dir: dir, cache: make(map[string]image.Image)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Images) Image(rawURL string) (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if img, ok := s.cache[rawURL]; ok {
		return img, nil
	}
	img, err := s.load(rawURL)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", rawURL, err)
	}
	s.cache[rawURL] = img
	return img, nil
}

func (s *Images) load(rawURL string) (image.Image, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "", "file":
		p := u.Path
		if u.Scheme == "" {
			p = rawURL
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(s.dir, p)
		}
		return decodeFile(p)
	case "http", "https":
		if !s.remote {
			return nil, ErrUnsupportedScheme
		}
		return s.fetch(rawURL)
	}
	return nil, ErrUnsupportedScheme
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

func (s *Images) fetch(rawURL string) (image.Image, error) {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %s", resp.Status)
	}
	img, _, err := image.Decode(io.LimitReader(resp.Body, maxImageBytes))
	return img, err
}

// Len returns the number of decoded images held.
func (s *Images) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}
