package words

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultDir is the directory searched when no source is configured.
const DefaultDir = "wordlists"

// maxDocumentSize caps how much of a response is read.
const maxDocumentSize = 8 << 20

// Source is where word lists are read from: a local directory or an HTTP
// base URL. Lists are named <name>.json under either.
type Source struct {
	Dir     string
	BaseURL *url.URL
	Client  *http.Client
}

// ParseSource interprets s as an http(s) URL or a directory path.
func ParseSource(s string) (Source, error) {
	if s == "" {
		return Source{Dir: DefaultDir}, nil
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		u, err := url.Parse(s)
		if err != nil {
			return Source{}, fmt.Errorf("invalid word list URL %q: %w", s, err)
		}
		return Source{BaseURL: u}, nil
	}
	return Source{Dir: s}, nil
}

// IsRemote reports whether the source is an HTTP base URL.
func (s Source) IsRemote() bool {
	return s.BaseURL != nil
}

// Location returns the file path or URL of the named list.
func (s Source) Location(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	if s.IsRemote() {
		return s.BaseURL.JoinPath(name + ".json").String(), nil
	}
	return filepath.Join(s.Dir, name+".json"), nil
}

// Load fetches and validates the named word list. There is no retry.
func Load(ctx context.Context, src Source, name string) (Lists, error) {
	loc, err := src.Location(name)
	if err != nil {
		return nil, err
	}

	var data []byte
	if src.IsRemote() {
		data, err = fetch(ctx, src.client(), loc)
	} else {
		data, err = readFile(loc)
	}
	if err != nil {
		return nil, err
	}

	lists, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("word list %q: %w", loc, err)
	}
	return lists, nil
}

func (s Source) client() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return &http.Client{Timeout: 10 * time.Second}
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w %q: not found", ErrFetch, path)
		}
		return nil, fmt.Errorf("%w %q: %v", ErrFetch, path, err)
	}
	return data, nil
}

func fetch(ctx context.Context, client *http.Client, loc string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrFetch, loc, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrFetch, loc, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w %q (HTTP %s)", ErrFetch, loc, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrFetch, loc, err)
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("%w %q: document larger than %d bytes", ErrFetch, loc, maxDocumentSize)
	}
	return data, nil
}
