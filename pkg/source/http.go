package source

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kgview/pkg/buildinfo"
	"github.com/matzehuels/kgview/pkg/cache"
	kgerrors "github.com/matzehuels/kgview/pkg/errors"
	"github.com/matzehuels/kgview/pkg/graph"
)

const (
	httpTimeout = 30 * time.Second

	// maxBodySize caps a downloaded dataset.
	maxBodySize = 256 << 20

	cacheNamespace = "dataset"
)

// HTTP downloads a dataset with a single GET. Failures are not retried.
type HTTP struct {
	URL string

	client  *http.Client
	cache   cache.Cache
	keyer   cache.Keyer
	ttl     time.Duration
	refresh bool
	logger  *log.Logger
}

func newHTTP(url string, opts Options) *HTTP {
	h := &HTTP{
		URL:     url,
		client:  opts.HTTPClient,
		cache:   opts.Cache,
		keyer:   opts.Keyer,
		ttl:     opts.CacheTTL,
		refresh: opts.Refresh,
		logger:  opts.Logger,
	}
	if h.client == nil {
		h.client = &http.Client{Timeout: httpTimeout}
	}
	if h.cache == nil {
		h.cache = cache.NewNullCache()
	}
	if h.keyer == nil {
		h.keyer = cache.NewDefaultKeyer()
	}
	if h.ttl == 0 {
		h.ttl = cache.DatasetTTL
	}
	return h
}

// Fetch returns the cached body when present, otherwise downloads it. Only
// bodies that parse as a dataset are cached, so a bad upstream response is
// fetched again on the next load.
func (h *HTTP) Fetch(ctx context.Context) ([]byte, error) {
	key := h.keyer.HTTPKey(cacheNamespace, h.URL)
	if !h.refresh {
		if data, ok, err := h.cache.Get(ctx, key); err == nil && ok {
			h.logger.Debug("dataset cache hit", "url", h.URL)
			return data, nil
		}
	}

	data, err := h.download(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := graph.Parse(data, graph.DefaultColors()); err != nil {
		h.logger.Debug("dataset not cached", "url", h.URL, "err", err)
	} else {
		if err := h.cache.Set(ctx, key, data, h.ttl); err != nil {
			h.logger.Warn("cache dataset", "url", h.URL, "err", err)
		}
	}
	return data, nil
}

func (h *HTTP) download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, kgerrors.Wrap(kgerrors.ErrCodeInvalidURI, err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, kgerrors.Wrap(kgerrors.ErrCodeTransport, err, "GET %s", h.URL)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, kgerrors.New(kgerrors.ErrCodeTransport, "GET %s: status %d", h.URL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, kgerrors.Wrap(kgerrors.ErrCodeTransport, err, "read %s", h.URL)
	}
	if len(data) > maxBodySize {
		return nil, kgerrors.New(kgerrors.ErrCodeTransport, "GET %s: body exceeds %d bytes", h.URL, maxBodySize)
	}
	h.logger.Debug("dataset downloaded", "url", h.URL, "bytes", len(data), "took", time.Since(start))
	return data, nil
}

func (h *HTTP) String() string { return h.URL }
