package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func record(employee string, workload, grievance, probability float64) PredictionRecord {
	return PredictionRecord{
		EmployeeID: employee,
		Features: map[string]float64{
			"stress_workload_amount":       workload,
			"stress_org_climate_grievance": grievance,
		},
		Probability: probability,
	}
}

func TestNew(t *testing.T) {
	tempDir := t.TempDir()

	store, err := New(tempDir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	if store.db == nil {
		t.Error("Store database is nil")
	}

	dbPath := filepath.Join(tempDir, "rf-report.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
	if store.Path() != dbPath {
		t.Errorf("Expected path %s, got %s", dbPath, store.Path())
	}
}

func TestNew_InvalidPath(t *testing.T) {
	invalidPath := filepath.Join(t.TempDir(), "missing", "dir")

	_, err := New(invalidPath)
	if err == nil {
		t.Error("Expected error for invalid path, got nil")
	}
}

func TestStore_Close(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if err := store.Close(); err != nil {
		t.Errorf("Error closing store: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("Error closing already closed store: %v", err)
	}
}

func TestStore_CloseNil(t *testing.T) {
	if err := (&Store{db: nil}).Close(); err != nil {
		t.Errorf("Expected no error for nil db, got: %v", err)
	}
	var store *Store
	if err := store.Close(); err != nil {
		t.Errorf("Expected no error for nil store, got: %v", err)
	}
	if store.Path() != "" {
		t.Error("Expected empty path for nil store")
	}
}

func TestStorePrediction(t *testing.T) {
	store := newTestStore(t)

	first, err := store.StorePrediction(record("E0001", 3, 2, 0.45))
	if err != nil {
		t.Fatalf("Failed to store prediction: %v", err)
	}
	second, err := store.StorePrediction(record("", 4, 4, 0.75))
	if err != nil {
		t.Fatalf("Failed to store prediction: %v", err)
	}

	if first.Seq != 1 || second.Seq != 2 {
		t.Errorf("Expected sequences 1 and 2, got %d and %d", first.Seq, second.Seq)
	}
	if first.Timestamp.IsZero() {
		t.Error("Expected timestamp to be assigned")
	}

	count, err := store.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 records, got %d", count)
	}
}

func TestStorePrediction_KeepsTimestamp(t *testing.T) {
	store := newTestStore(t)

	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rec := record("E0001", 1, 1, 0.15)
	rec.Timestamp = ts

	stored, err := store.StorePrediction(rec)
	if err != nil {
		t.Fatalf("Failed to store prediction: %v", err)
	}
	if !stored.Timestamp.Equal(ts) {
		t.Errorf("Expected timestamp %v, got %v", ts, stored.Timestamp)
	}
}

func TestStorePrediction_Invalid(t *testing.T) {
	store := newTestStore(t)

	_, err := store.StorePrediction(PredictionRecord{Probability: 0.5})
	if !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("Expected ErrInvalidRecord, got %v", err)
	}
}

func TestRecent(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 5; i++ {
		if _, err := store.StorePrediction(record("", float64(i+1), 1, float64(i)/10)); err != nil {
			t.Fatalf("Failed to store prediction: %v", err)
		}
	}

	records, err := store.Recent(3)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	for i, want := range []uint64{5, 4, 3} {
		if records[i].Seq != want {
			t.Errorf("Record %d: expected seq %d, got %d", i, want, records[i].Seq)
		}
	}
	if records[0].Features["stress_workload_amount"] != 5 {
		t.Errorf("Expected newest workload 5, got %v", records[0].Features["stress_workload_amount"])
	}

	all, err := store.Recent(100)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("Expected 5 records, got %d", len(all))
	}

	none, err := store.Recent(0)
	if err != nil || len(none) != 0 {
		t.Errorf("Expected no records for zero limit, got %d (%v)", len(none), err)
	}
}

func TestRecent_Empty(t *testing.T) {
	store := newTestStore(t)

	records, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected no records, got %d", len(records))
	}
}

func TestForEmployee(t *testing.T) {
	store := newTestStore(t)

	for i, employee := range []string{"E0001", "E0002", "E0001", "", "E0001"} {
		if _, err := store.StorePrediction(record(employee, float64(i+1), 2, 0.5)); err != nil {
			t.Fatalf("Failed to store prediction: %v", err)
		}
	}

	records, err := store.ForEmployee("E0001", 10)
	if err != nil {
		t.Fatalf("ForEmployee failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	for i, want := range []uint64{5, 3, 1} {
		if records[i].Seq != want {
			t.Errorf("Record %d: expected seq %d, got %d", i, want, records[i].Seq)
		}
		if records[i].EmployeeID != "E0001" {
			t.Errorf("Record %d: unexpected employee %q", i, records[i].EmployeeID)
		}
	}

	limited, err := store.ForEmployee("E0001", 1)
	if err != nil {
		t.Fatalf("ForEmployee failed: %v", err)
	}
	if len(limited) != 1 || limited[0].Seq != 5 {
		t.Errorf("Expected only the newest record, got %+v", limited)
	}

	unknown, err := store.ForEmployee("E9999", 10)
	if err != nil {
		t.Fatalf("ForEmployee failed: %v", err)
	}
	if len(unknown) != 0 {
		t.Errorf("Expected no records for unknown employee, got %d", len(unknown))
	}
}

func TestInRange(t *testing.T) {
	store := newTestStore(t)

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		rec := record(fmt.Sprintf("E%04d", i), 1, 1, 0.15)
		rec.Timestamp = base.Add(time.Duration(i) * time.Hour)
		if _, err := store.StorePrediction(rec); err != nil {
			t.Fatalf("Failed to store prediction: %v", err)
		}
	}

	records, err := store.InRange(base.Add(2*time.Hour), base.Add(5*time.Hour))
	if err != nil {
		t.Fatalf("InRange failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	if records[0].EmployeeID != "E0002" || records[2].EmployeeID != "E0004" {
		t.Errorf("Unexpected range boundaries: %s .. %s", records[0].EmployeeID, records[2].EmployeeID)
	}
}

func TestReopenPreservesRecords(t *testing.T) {
	dir := t.TempDir()

	store, err := New(dir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	if _, err := store.StorePrediction(record("E0001", 2, 3, 0.3)); err != nil {
		t.Fatalf("Failed to store prediction: %v", err)
	}
	store.Close()

	reopened, err := New(dir)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer reopened.Close()

	next, err := reopened.StorePrediction(record("E0001", 4, 4, 0.75))
	if err != nil {
		t.Fatalf("Failed to store prediction: %v", err)
	}
	if next.Seq != 2 {
		t.Errorf("Expected sequence to continue at 2, got %d", next.Seq)
	}

	records, err := reopened.ForEmployee("E0001", 10)
	if err != nil {
		t.Fatalf("ForEmployee failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("Expected 2 records after reopen, got %d", len(records))
	}
}

func TestConcurrentAccess(t *testing.T) {
	store := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(2)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				store.StorePrediction(record(fmt.Sprintf("E%04d", id), float64(j%5+1), 1, 0.2))
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				store.Recent(5)
				store.ForEmployee("E0001", 5)
			}
		}()
	}
	wg.Wait()

	count, err := store.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 50 {
		t.Errorf("Expected 50 records, got %d", count)
	}
}

func BenchmarkStorePrediction(b *testing.B) {
	store, err := New(b.TempDir())
	if err != nil {
		b.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	rec := record("E0001", 3, 2, 0.45)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := store.StorePrediction(rec); err != nil {
			b.Fatal(err)
		}
	}
}

func TestOpenReadOnly(t *testing.T) {
	dir := t.TempDir()

	store, err := New(dir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	if _, err := store.StorePrediction(record("E1", 3, 2, 0.45)); err != nil {
		t.Fatalf("Failed to store prediction: %v", err)
	}
	store.Close()

	ro, err := OpenReadOnly(dir)
	if err != nil {
		t.Fatalf("Failed to open read-only store: %v", err)
	}
	defer ro.Close()

	records, err := ro.Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(records) != 1 || records[0].EmployeeID != "E1" {
		t.Errorf("Expected the stored record, got %+v", records)
	}

	if _, err := ro.StorePrediction(record("E2", 1, 1, 0.15)); err == nil {
		t.Error("Expected write to a read-only store to fail")
	}
}

func TestOpenReadOnly_Missing(t *testing.T) {
	if _, err := OpenReadOnly(t.TempDir()); err == nil {
		t.Error("Expected error for missing database")
	}
}

func TestCountEmployee(t *testing.T) {
	store := newTestStore(t)

	for _, emp := range []string{"E1", "E2", "E1", "", "E1"} {
		if _, err := store.StorePrediction(record(emp, 2, 2, 0.3)); err != nil {
			t.Fatalf("Failed to store prediction: %v", err)
		}
	}

	tests := []struct {
		employee string
		want     int
	}{
		{"E1", 3},
		{"E2", 1},
		{"E3", 0},
	}
	for _, tt := range tests {
		got, err := store.CountEmployee(tt.employee)
		if err != nil {
			t.Fatalf("CountEmployee(%q) failed: %v", tt.employee, err)
		}
		if got != tt.want {
			t.Errorf("CountEmployee(%q) = %d, want %d", tt.employee, got, tt.want)
		}
	}

	total, err := store.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if total != 5 {
		t.Errorf("Expected 5 records in total, got %d", total)
	}
}
