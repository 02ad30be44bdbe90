package store

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"oncology-dashboard/internal/config"
	"oncology-dashboard/internal/models"
)

// SessionEntry is one persisted key of the session
type SessionEntry struct {
	EntryKey  string    `gorm:"column:entry_key;primaryKey;size:64"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// DBStore persists the session in a SQL database through gorm.
type DBStore struct {
	db     *gorm.DB
	sealer *Sealer
}

// OpenDB opens the database named by the store config and migrates the
// session table.
func OpenDB(cfg config.StoreConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("store driver %q has no database", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&SessionEntry{}); err != nil {
		return nil, err
	}
	return db, nil
}

// NewDBStore creates a DBStore on an opened, migrated database.
func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db}
}

// NewSealedDBStore creates a DBStore that encrypts every value with a key
// derived from secret.
func NewSealedDBStore(db *gorm.DB, secret string) (*DBStore, error) {
	sealer, err := NewSealer(secret)
	if err != nil {
		return nil, err
	}
	return &DBStore{db: db, sealer: sealer}, nil
}

func (s *DBStore) Save(pair models.TokenPair, identity models.Identity) error {
	entries, err := encode(pair, identity)
	if err != nil {
		return err
	}

	rows := make([]SessionEntry, 0, len(entries))
	for _, key := range []string{KeyAccessToken, KeyRefreshToken, KeyUser} {
		value := entries[key]
		if s.sealer != nil {
			if value, err = s.sealer.Seal(key, value); err != nil {
				return fmt.Errorf("failed to seal %s: %w", key, err)
			}
		}
		rows = append(rows, SessionEntry{EntryKey: key, Value: value})
	}

	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *DBStore) Load() (Saved, bool) {
	var rows []SessionEntry
	if err := s.db.Find(&rows).Error; err != nil {
		return Saved{}, false
	}

	entries := make(map[string]string, len(rows))
	for _, row := range rows {
		value := row.Value
		if s.sealer != nil {
			var err error
			if value, err = s.sealer.Open(row.EntryKey, value); err != nil {
				slog.Warn("discarding unreadable session entry", "key", row.EntryKey, "error", err)
				return Saved{}, false
			}
		}
		entries[row.EntryKey] = value
	}
	return decode(entries)
}

func (s *DBStore) Clear() error {
	keys := []string{KeyAccessToken, KeyRefreshToken, KeyUser}
	if err := s.db.Where("entry_key IN ?", keys).Delete(&SessionEntry{}).Error; err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
