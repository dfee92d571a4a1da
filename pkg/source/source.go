// Package source fetches raw datasets for the graph store.
//
// [Open] maps a dataset location to a [graph.Fetcher]:
//
//	graph.json, file:///data/graph.json    local file
//	-                                      standard input
//	https://example.com/graph.json         HTTP GET, optionally cached
//	mongodb://host/db?name=physics         one document from a collection
//	sqlite:///var/lib/kg.db                nodes and links tables
//
// Every fetcher returns the dataset as JSON bytes; parsing is left to
// graph.Parse so that all sources share one notion of a malformed payload.
package source

import (
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kgview/pkg/cache"
	kgerrors "github.com/matzehuels/kgview/pkg/errors"
	"github.com/matzehuels/kgview/pkg/graph"
)

// Supported URI schemes.
const (
	SchemeFile     = "file"
	SchemeHTTP     = "http"
	SchemeHTTPS    = "https"
	SchemeMongo    = "mongodb"
	SchemeMongoSRV = "mongodb+srv"
	SchemeSQLite   = "sqlite"
)

// Options configure the fetchers built by Open. The zero value is usable.
type Options struct {
	// Cache stores HTTP bodies. Nil disables caching.
	Cache cache.Cache
	// Keyer builds cache keys. Nil uses cache.NewDefaultKeyer().
	Keyer cache.Keyer
	// CacheTTL bounds cached bodies. Zero uses cache.DatasetTTL.
	CacheTTL time.Duration
	// Refresh bypasses cached bodies but still writes fresh ones.
	Refresh bool

	// HTTPClient overrides the default client with a 30 second timeout.
	HTTPClient *http.Client

	// MongoDatabase and MongoCollection apply when the URI omits them.
	MongoDatabase   string
	MongoCollection string

	// Stdin is read for the "-" location. Nil uses os.Stdin.
	Stdin io.Reader

	Logger *log.Logger
}

// Open returns a fetcher for location.
func Open(location string, opts Options) (graph.Fetcher, error) {
	if err := kgerrors.ValidateSourceURI(location); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	if location == "-" {
		r := opts.Stdin
		if r == nil {
			r = os.Stdin
		}
		return &Reader{Name: "stdin", R: r}, nil
	}

	scheme, _, found := strings.Cut(location, "://")
	if !found {
		return &File{Path: location}, nil
	}

	switch strings.ToLower(scheme) {
	case SchemeFile:
		u, err := url.Parse(location)
		if err != nil {
			return nil, kgerrors.Wrap(kgerrors.ErrCodeInvalidURI, err, "parse %s", location)
		}
		return &File{Path: u.Path}, nil
	case SchemeHTTP, SchemeHTTPS:
		return newHTTP(location, opts), nil
	case SchemeMongo, SchemeMongoSRV:
		return newMongo(location, opts)
	case SchemeSQLite:
		return newSQLite(location)
	}
	return nil, kgerrors.New(kgerrors.ErrCodeUnsupported, "unsupported dataset scheme %q", scheme)
}
