package httpds

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"path"
	"regexp"
	"strings"
)

// nameCleaner collapses runs of non-alphanumeric characters into "_".
var nameCleaner = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Remote is a batch source that downloads its bytes over HTTP.
type Remote struct {
	client *Client
	url    string
}

// NewRemote returns a Remote source that fetches rawURL using client.
func NewRemote(client *Client, rawURL string) *Remote {
	return &Remote{client: client, url: rawURL}
}

// Name derives a stable, filesystem- and table-name-safe identifier from the
// source URL. It prefers the last path segment without its extension; when
// the URL has no usable path it falls back to a SHA1 digest of the whole URL
// so distinct query-only URLs still get distinct names.
func (r *Remote) Name() string {
	u, err := url.Parse(r.url)
	if err != nil {
		return hashName(r.url)
	}
	base := path.Base(u.Path)
	base = strings.TrimSuffix(base, path.Ext(base))
	clean := strings.Trim(nameCleaner.ReplaceAllString(base, "_"), "_")
	if clean == "" || clean == "_" {
		return hashName(r.url)
	}
	return clean
}

// Open performs the GET and returns the response body. Any non-2xx status
// that survives the client's retry policy is an error.
func (r *Remote) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := r.client.Get(ctx, r.url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("httpds: status %d from GET %s", resp.StatusCode, r.url)
	}
	return resp.Body, nil
}

func hashName(s string) string {
	h := sha1.Sum([]byte(s))
	return hex.EncodeToString(h[:])
}
