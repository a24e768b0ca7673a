// Package store persists assembled trajectories in a bbolt database:
// monotone sequence keys, gzip-compressed GeoJSON feature values.
// Sequence keys rather than trajectory ids because ids are not unique
// — a point stream may legally yield several runs under one id, and
// each run is its own stored record.
package store

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/paulmach/orb/geojson"
	"github.com/rotblauer/trajio/params"
	"github.com/rotblauer/trajio/types/trajectory"
	"github.com/tidwall/gjson"
	bbolt "go.etcd.io/bbolt"
)

var bucketTrajectories = []byte("trajectories")

type Store struct {
	Config *params.StoreConfig
	DB     *bbolt.DB

	cache  *lru.Cache[uint64, *trajectory.TemporalTrajectory]
	logger *slog.Logger
}

func New(config *params.StoreConfig) (*Store, error) {
	if config == nil {
		config = params.DefaultStoreConfig()
	}
	if err := os.MkdirAll(filepath.Dir(config.DBPath), 0770); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(config.DBPath, 0660, nil)
	if err != nil {
		return nil, err
	}
	cache, err := lru.New[uint64, *trajectory.TemporalTrajectory](config.CacheSize)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{
		Config: config,
		DB:     db,
		cache:  cache,
		logger: slog.With("store", filepath.Base(config.DBPath)),
	}, nil
}

// Load drains the channel into the store, flushing one write
// transaction per batch to constrain disk txes. It blocks until the
// channel closes or the context is done.
func (s *Store) Load(ctx context.Context, in <-chan *trajectory.TemporalTrajectory) error {
	batch := make([]*trajectory.TemporalTrajectory, 0, params.DefaultBatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.put(batch); err != nil {
			return err
		}
		s.logger.Debug("Stored batch", "size", len(batch))
		batch = batch[:0]
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return flush()
		case t, ok := <-in:
			if !ok {
				return flush()
			}
			batch = append(batch, t)
			if len(batch) == cap(batch) {
				if err := flush(); err != nil {
					return err
				}
			}
		}
	}
}

func (s *Store) put(batch []*trajectory.TemporalTrajectory) error {
	gzw := gzip.NewWriter(io.Discard)
	defer gzw.Close()
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketTrajectories)
		if err != nil {
			return err
		}
		for _, t := range batch {
			seq, err := b.NextSequence()
			if err != nil {
				return err
			}
			encoded, err := t.Feature().MarshalJSON()
			if err != nil {
				return fmt.Errorf("json marshal write: %w", err)
			}
			out := new(bytes.Buffer)
			gzw.Reset(out)
			if _, err := gzw.Write(encoded); err != nil {
				return err
			}
			if err := gzw.Close(); err != nil {
				return fmt.Errorf("gzip close: %w", err)
			}
			if err := b.Put(keyFor(seq), out.Bytes()); err != nil {
				return fmt.Errorf("bbolt put: %w", err)
			}
		}
		return nil
	})
}

func keyFor(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}

// Get returns the trajectory stored under seq, via the read cache.
func (s *Store) Get(seq uint64) (*trajectory.TemporalTrajectory, error) {
	if t, ok := s.cache.Get(seq); ok {
		return t, nil
	}
	var t *trajectory.TemporalTrajectory
	err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketTrajectories)
		if b == nil {
			return fmt.Errorf("bucket not found")
		}
		v := b.Get(keyFor(seq))
		if v == nil {
			return fmt.Errorf("no trajectory at sequence %d", seq)
		}
		var err error
		t, err = decodeValue(v)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.cache.Add(seq, t)
	return t, nil
}

// Count returns the number of stored trajectories.
func (s *Store) Count() (int, error) {
	n := 0
	err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketTrajectories)
		if b == nil {
			return nil
		}
		n = b.Stats().KeyN
		return nil
	})
	return n, err
}

// Dump sends all stored trajectories in sequence order. A non-negative
// filterID keeps only trajectories with that id; pass a negative id
// for everything. Only non-nil errors are sent.
func (s *Store) Dump(ctx context.Context, filterID int) (<-chan *trajectory.TemporalTrajectory, <-chan error) {
	out := make(chan *trajectory.TemporalTrajectory, params.DefaultBatchSize)
	errs := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errs)
		err := s.DB.View(func(tx *bbolt.Tx) error {
			b := tx.Bucket(bucketTrajectories)
			if b == nil {
				return nil
			}
			return b.ForEach(func(k, v []byte) error {
				raw, err := gunzip(v)
				if err != nil {
					return err
				}
				if filterID >= 0 {
					id := gjson.GetBytes(raw, "properties.id")
					if !id.Exists() || int(id.Int()) != filterID {
						return nil
					}
				}
				t, err := decodeRaw(raw)
				if err != nil {
					return err
				}
				select {
				case <-ctx.Done():
					return ctx.Err()
				case out <- t:
				}
				return nil
			})
		})
		if err != nil {
			errs <- err
		}
	}()
	return out, errs
}

func gunzip(v []byte) ([]byte, error) {
	gzr, err := gzip.NewReader(bytes.NewReader(v))
	if err != nil {
		return nil, fmt.Errorf("gzip reader: %w", err)
	}
	defer gzr.Close()
	return io.ReadAll(gzr)
}

func decodeValue(v []byte) (*trajectory.TemporalTrajectory, error) {
	raw, err := gunzip(v)
	if err != nil {
		return nil, err
	}
	return decodeRaw(raw)
}

func decodeRaw(raw []byte) (*trajectory.TemporalTrajectory, error) {
	f, err := geojson.UnmarshalFeature(raw)
	if err != nil {
		return nil, fmt.Errorf("json decode read: %w", err)
	}
	return trajectory.TemporalFromFeature(f)
}

func (s *Store) Close() error {
	return s.DB.Close()
}
