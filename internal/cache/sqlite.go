package cache

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// cacheRow is the single table the embedded-SQL backend persists to:
// cache(key PRIMARY KEY, data BLOB, expires_at, created_at). expires_at and
// created_at are time.Time fields, stored by the GORM SQLite driver as
// datetime values, not as REAL epoch seconds.
type cacheRow struct {
	Key string `gorm:"primaryKey;column:key"`
	Data []byte `gorm:"column:data"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (cacheRow) TableName() string { return "cache" }

// SQLiteBackend is the embedded single-table SQL backend, backed by GORM
// over a pure SQLite file.
type SQLiteBackend struct {
	db *gorm.DB
}

// NewSQLite opens (creating if necessary) a SQLite-backed Backend at path.
func NewSQLite(path string) (*SQLiteBackend, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	if err := db.AutoMigrate(&cacheRow{}); err != nil {
		return nil, fmt.Errorf("migrating cache table: %w", err)
	}
	return &SQLiteBackend{db: db}, nil
}

func (s *SQLiteBackend) Get(key string) (*Entry, bool, error) {
	var row cacheRow
	err := s.db.Where("key = ?", key).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &Entry{Payload: row.Data, ExpiresAt: row.ExpiresAt, CreatedAt: row.CreatedAt}, true, nil
}

func (s *SQLiteBackend) Set(key string, entry Entry) error {
	row := cacheRow{Key: key, Data: entry.Payload, ExpiresAt: entry.ExpiresAt, CreatedAt: entry.CreatedAt}
	return s.db.Save(&row).Error
}

func (s *SQLiteBackend) Clear() error {
	return s.db.Exec("DELETE FROM cache").Error
}

// CleanupExpired removes entries whose expires_at has already passed; not
// required for correctness (expired entries are simply treated as misses)
// but keeps the on-disk table from growing unbounded across long runs.
func (s *SQLiteBackend) CleanupExpired() error {
	return s.db.Where("expires_at < ?", time.Now()).Delete(&cacheRow{}).Error
}
