package history

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "history.sqlite"))
	if err != nil {
		t.Fatalf("failed to open history db: %v", err)
	}
	return db
}

func TestRecordAndRecent(t *testing.T) {
	db := openTestDB(t)

	entries := []*Entry{
		{ServerURL: "https://a.example.com", IDNumber: "DL1", Result: "legit", Confidence: 95, CreatedAt: time.Now().Add(-2 * time.Hour)},
		{ServerURL: "https://a.example.com", IDNumber: "DL2", Result: "fake", Confidence: 90, CreatedAt: time.Now().Add(-time.Hour)},
		{ServerURL: "https://b.example.com", IDNumber: "DL3", Result: "legit", Confidence: 95, CreatedAt: time.Now()},
	}
	for _, e := range entries {
		if err := db.Record(e); err != nil {
			t.Fatalf("failed to record entry: %v", err)
		}
	}

	recent, err := db.Recent("https://a.example.com", 10)
	if err != nil {
		t.Fatalf("failed to load history: %v", err)
	}

	if len(recent) != 2 {
		t.Fatalf("expected 2 entries for server a, got %d", len(recent))
	}
	// Newest first
	if recent[0].IDNumber != "DL2" || recent[1].IDNumber != "DL1" {
		t.Errorf("unexpected order: %s, %s", recent[0].IDNumber, recent[1].IDNumber)
	}
}

func TestRecent_LimitAndDefault(t *testing.T) {
	db := openTestDB(t)

	for i := 0; i < 25; i++ {
		entry := &Entry{
			ServerURL: "https://a.example.com",
			IDNumber:  "DL",
			Result:    "legit",
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		}
		if err := db.Record(entry); err != nil {
			t.Fatalf("failed to record entry: %v", err)
		}
	}

	limited, err := db.Recent("https://a.example.com", 5)
	if err != nil {
		t.Fatalf("failed to load history: %v", err)
	}
	if len(limited) != 5 {
		t.Errorf("expected 5 entries, got %d", len(limited))
	}

	defaulted, err := db.Recent("https://a.example.com", 0)
	if err != nil {
		t.Fatalf("failed to load history: %v", err)
	}
	if len(defaulted) != 20 {
		t.Errorf("expected default limit of 20, got %d", len(defaulted))
	}
}
