package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

// ErrInvalidRecord is returned for records that cannot be stored.
var ErrInvalidRecord = errors.New("invalid prediction record")

// PredictionRecord is one scored request as persisted in the report store.
type PredictionRecord struct {
	Seq          uint64             `json:"seq"`
	RequestID    string             `json:"request_id,omitempty"`
	EmployeeID   string             `json:"employee_id,omitempty"`
	Features     map[string]float64 `json:"features"`
	Probability  float64            `json:"turnover_probability"`
	Class        int                `json:"prediction_class"`
	ModelVersion string             `json:"model_version,omitempty"`
	Timestamp    time.Time          `json:"timestamp"`
}

// StorePrediction appends a record and returns it with its assigned sequence number.
func (s *Store) StorePrediction(record PredictionRecord) (PredictionRecord, error) {
	if len(record.Features) == 0 {
		return PredictionRecord{}, fmt.Errorf("%w: no features", ErrInvalidRecord)
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(predictionsBucket))

		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("next sequence: %w", err)
		}
		record.Seq = seq

		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal prediction record: %w", err)
		}

		key := seqKey(seq)
		if err := b.Put(key, data); err != nil {
			return err
		}

		if record.EmployeeID == "" {
			return nil
		}
		idx, err := tx.Bucket([]byte(employeesBucket)).CreateBucketIfNotExists([]byte(record.EmployeeID))
		if err != nil {
			return fmt.Errorf("create employee index: %w", err)
		}
		return idx.Put(key, nil)
	})
	if err != nil {
		return PredictionRecord{}, err
	}
	return record, nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(limit int) ([]PredictionRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	records := make([]PredictionRecord, 0, limit)
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(predictionsBucket)).Cursor()
		for k, v := c.Last(); k != nil && len(records) < limit; k, v = c.Prev() {
			var record PredictionRecord
			if err := json.Unmarshal(v, &record); err != nil {
				continue // Skip malformed records
			}
			records = append(records, record)
		}
		return nil
	})
	return records, err
}

// ForEmployee returns up to limit records for one employee, newest first.
func (s *Store) ForEmployee(employeeID string, limit int) ([]PredictionRecord, error) {
	if limit <= 0 || employeeID == "" {
		return nil, nil
	}

	var records []PredictionRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		idx := tx.Bucket([]byte(employeesBucket)).Bucket([]byte(employeeID))
		if idx == nil {
			return nil
		}
		predictions := tx.Bucket([]byte(predictionsBucket))

		c := idx.Cursor()
		for k, _ := c.Last(); k != nil && len(records) < limit; k, _ = c.Prev() {
			v := predictions.Get(k)
			if v == nil {
				continue
			}
			var record PredictionRecord
			if err := json.Unmarshal(v, &record); err != nil {
				continue
			}
			records = append(records, record)
		}
		return nil
	})
	return records, err
}

// InRange returns records with start <= Timestamp < end, oldest first.
func (s *Store) InRange(start, end time.Time) ([]PredictionRecord, error) {
	var records []PredictionRecord

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(predictionsBucket)).ForEach(func(_, v []byte) error {
			var record PredictionRecord
			if err := json.Unmarshal(v, &record); err != nil {
				return nil
			}
			if !record.Timestamp.Before(start) && record.Timestamp.Before(end) {
				records = append(records, record)
			}
			return nil
		})
	})

	return records, err
}
