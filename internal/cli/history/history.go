// Package history keeps a local record of verification results so officers
// can review past checks without a round trip. It is a convenience cache
// only; no networking decision ever reads it.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Entry is one locally recorded verification
type Entry struct {
	ID              uint   `gorm:"primaryKey"`
	ServerURL       string `gorm:"index"`
	IDNumber        string
	Result          string
	Confidence      float64
	ImageSimilarity *float64
	ImagePath       string
	CreatedAt       time.Time
}

// DB wraps the local history database
type DB struct {
	db *gorm.DB
}

// DefaultPath returns the history database location, next to the user config
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "idverify", "history.sqlite"), nil
}

// Open opens (and migrates) the history database at path
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}

	return &DB{db: db}, nil
}

// Record stores one verification result
func (d *DB) Record(entry *Entry) error {
	if err := d.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record history entry: %w", err)
	}
	return nil
}

// Recent returns the newest entries for a server, newest first
func (d *DB) Recent(serverURL string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	var entries []Entry
	err := d.db.
		Where("server_url = ?", serverURL).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	return entries, nil
}
