// Package storage persists scored predictions for the report endpoint.
// It uses BoltDB as the underlying storage engine. Each prediction is stored
// once under a monotonically increasing sequence key, and an index bucket maps
// employee ids to the sequence keys of their predictions.
package storage

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const (
	dbFileName        = "rf-report.db"
	predictionsBucket = "predictions" // sequence key -> PredictionRecord JSON
	employeesBucket   = "employees"   // employee id -> nested bucket of sequence keys
)

// Store provides persistent storage for prediction records using BoltDB.
type Store struct {
	db *bbolt.DB
}

// New opens (or creates) the report database inside dataPath.
func New(dataPath string) (*Store, error) {
	dbPath := filepath.Join(dataPath, dbFileName)

	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(predictionsBucket)); err != nil {
			return fmt.Errorf("create predictions bucket: %w", err)
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(employeesBucket)); err != nil {
			return fmt.Errorf("create employees bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// OpenReadOnly opens an existing report database for offline export.
// A running server holds an exclusive lock, so this times out until it stops.
func OpenReadOnly(dataPath string) (*Store, error) {
	dbPath := filepath.Join(dataPath, dbFileName)
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("report database: %w", err)
	}

	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{ReadOnly: true, Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Store{db: db}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	if s == nil || s.db == nil {
		return ""
	}
	return s.db.Path()
}

// Close closes the database. It is safe to call on a nil store or twice.
func (s *Store) Close() error {
	if s != nil && s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Count returns the number of stored predictions.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket([]byte(predictionsBucket)).Stats().KeyN
		return nil
	})
	return n, err
}

// CountEmployee returns the number of stored predictions for one employee.
func (s *Store) CountEmployee(employeeID string) (int, error) {
	var n int
	err := s.db.View(func(tx *bbolt.Tx) error {
		if idx := tx.Bucket([]byte(employeesBucket)).Bucket([]byte(employeeID)); idx != nil {
			n = idx.Stats().KeyN
		}
		return nil
	})
	return n, err
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
