package cache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cruciblehq/nanobundle/internal/build"
	"github.com/cruciblehq/nanobundle/internal/paths"
	bolt "go.etcd.io/bbolt"
)

var bucketTasks = []byte("tasks")

// Persisted state of one output file.
type record struct {
	Fingerprint string    `json:"fingerprint"`
	Inputs      []string  `json:"inputs"`
	Files       []string  `json:"files"`
	BuiltAt     time.Time `json:"builtAt"`
}

// Build cache backed by bbolt. Safe for concurrent use.
type Store struct {
	db *bolt.DB
}

// Opens (or creates) the cache database at path.
//
// Only one process may hold the database; a second open waits one second
// and then fails with [ErrOpen].
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), paths.DefaultDirMode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketTasks)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}

	return &Store{db: db}, nil
}

// Closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Reports whether the task's outputs exist and its inputs are unchanged
// since the last successful build.
func (s *Store) Fresh(task build.Task, opts build.Options) bool {
	rec, err := s.load(task.OutputFile)
	if err != nil {
		slog.Debug("ignoring cache record", "output", task.OutputFile, "error", err)
		return false
	}
	if rec == nil {
		return false
	}

	for _, f := range rec.Files {
		if _, err := os.Stat(f); err != nil {
			return false
		}
	}

	sum, err := fingerprint(task, opts, rec.Inputs)
	if err != nil {
		return false
	}
	return sum == rec.Fingerprint
}

// Records a successful build of the task.
func (s *Store) Store(task build.Task, opts build.Options, artifact *build.Artifact) error {
	rec := record{
		Files:   []string{task.OutputFile},
		Inputs:  []string{task.Entry.SourceFile},
		BuiltAt: time.Now().UTC(),
	}
	if artifact != nil {
		if len(artifact.Files) > 0 {
			rec.Files = artifact.Files
		}
		if len(artifact.Inputs) > 0 {
			rec.Inputs = artifact.Inputs
		}
	}

	sum, err := fingerprint(task, opts, rec.Inputs)
	if err != nil {
		return err
	}
	rec.Fingerprint = sum

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTasks).Put([]byte(task.OutputFile), data)
	})
}

// Removes every record.
func (s *Store) Reset() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketTasks); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketTasks)
		return err
	})
}

// Returns the record for an output file, or nil when there is none.
func (s *Store) load(output string) (*record, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		// Values are only valid within the transaction.
		if v := tx.Bucket(bucketTasks).Get([]byte(output)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil || data == nil {
		return nil, err
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return &rec, nil
}
