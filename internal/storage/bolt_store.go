package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Adda-Baaj/unit-service/internal/domain"
	bolt "go.etcd.io/bbolt"
)

var conversionBucket = []byte("conversions")

// expiryBytes prefixes every value: big-endian unix seconds, then the JSON result.
const expiryBytes = 8

var errBucketMissing = errors.New("conversion bucket missing")

// boltStore caches conversion results in a single bbolt bucket.
// Reads never write; expired entries are skipped and swept every cleanupInterval.
type boltStore struct {
	db              *bolt.DB
	entryTTL        time.Duration
	cleanupInterval time.Duration
	now             func() time.Time

	sweepMu   sync.Mutex
	lastSweep time.Time
}

func openBolt(path string, opts Options) (*boltStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(conversionBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	return &boltStore{
		db:              db,
		entryTTL:        opts.EntryTTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
		lastSweep:       time.Now(),
	}, nil
}

func (b *boltStore) Close() error {
	return b.db.Close()
}

func (b *boltStore) Lookup(key string) (domain.ConversionResult, bool, error) {
	now := b.now()
	if err := b.sweepIfDue(now); err != nil {
		return domain.ConversionResult{}, false, err
	}

	var (
		result domain.ConversionResult
		found  bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(conversionBucket)
		if bucket == nil {
			return errBucketMissing
		}
		expiry, payload, ok := decodeEntry(bucket.Get([]byte(key)))
		if !ok || !expiry.After(now) {
			return nil
		}
		// A corrupt payload is treated as a miss; the next Save overwrites it.
		found = json.Unmarshal(payload, &result) == nil
		return nil
	})
	if err != nil {
		return domain.ConversionResult{}, false, err
	}
	return result, found, nil
}

func (b *boltStore) Save(key string, result domain.ConversionResult) error {
	now := b.now()
	if err := b.sweepIfDue(now); err != nil {
		return err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	value := encodeEntry(now.Add(b.entryTTL), payload)

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(conversionBucket)
		if bucket == nil {
			return errBucketMissing
		}
		return bucket.Put([]byte(key), value)
	})
}

// sweepIfDue deletes expired or malformed entries at most once per cleanupInterval.
func (b *boltStore) sweepIfDue(now time.Time) error {
	b.sweepMu.Lock()
	defer b.sweepMu.Unlock()

	if now.Sub(b.lastSweep) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(conversionBucket)
		if bucket == nil {
			return errBucketMissing
		}
		c := bucket.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if expiry, _, ok := decodeEntry(v); ok && expiry.After(now) {
				continue
			}
			if err := c.Delete(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sweep expired conversions: %w", err)
	}
	b.lastSweep = now
	return nil
}

// count reports the number of stored entries, expired or not.
func (b *boltStore) count() int {
	n := 0
	_ = b.db.View(func(tx *bolt.Tx) error {
		if bucket := tx.Bucket(conversionBucket); bucket != nil {
			n = bucket.Stats().KeyN
		}
		return nil
	})
	return n
}

func encodeEntry(expiry time.Time, payload []byte) []byte {
	buf := make([]byte, expiryBytes, expiryBytes+len(payload))
	binary.BigEndian.PutUint64(buf, uint64(expiry.Unix()))
	return append(buf, payload...)
}

func decodeEntry(value []byte) (time.Time, []byte, bool) {
	if len(value) < expiryBytes {
		return time.Time{}, nil, false
	}
	unix := int64(binary.BigEndian.Uint64(value[:expiryBytes]))
	if unix <= 0 {
		return time.Time{}, nil, false
	}
	return time.Unix(unix, 0), value[expiryBytes:], true
}
