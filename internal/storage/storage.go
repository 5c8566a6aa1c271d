// Package storage caches conversion results for the unit service.
package storage

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Adda-Baaj/unit-service/internal/domain"
)

// Store caches conversion results keyed by normalized request.
type Store interface {
	Close() error
	Lookup(key string) (domain.ConversionResult, bool, error)
	Save(key string, result domain.ConversionResult) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	EntryTTL        time.Duration
	CleanupInterval time.Duration
}

const (
	defaultEntryTTL        = 24 * time.Hour
	defaultCleanupInterval = time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return Noop(), nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		store, err := openBolt(path, opts)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

// CacheKey normalizes a request so equivalent spellings ("c", " Celsius ") share an entry.
// Units are expected to be parsed already.
func CacheKey(value float64, from, to domain.Unit) string {
	return strconv.FormatFloat(value, 'g', -1, 64) + "|" + from.String() + "|" + to.String()
}

func normalizeOptions(opts Options) Options {
	if opts.EntryTTL <= 0 {
		opts.EntryTTL = defaultEntryTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

// Noop returns a Store that never caches.
func Noop() Store { return noopStore{} }

type noopStore struct{}

func (noopStore) Close() error { return nil }
func (noopStore) Lookup(string) (domain.ConversionResult, bool, error) {
	return domain.ConversionResult{}, false, nil
}
func (noopStore) Save(string, domain.ConversionResult) error { return nil }
