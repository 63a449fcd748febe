package settings

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Setting is one persisted key.
type Setting struct {
	Key   string `gorm:"primaryKey;size:64"`
	Value float64
}

// SQLStore persists settings in a sqlite database. Reads are served from a
// cache loaded at open; Flush upserts changed keys.
type SQLStore struct {
	db     *gorm.DB
	values map[string]float64
	dirty  map[string]bool
}

// OpenSQLStore opens (or creates) the sqlite database at path.
func OpenSQLStore(path string) (*SQLStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("settings: open %s: %w", path, err)
	}
	return NewSQLStore(db)
}

// NewSQLStore migrates the settings table on db and loads its rows.
func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&Setting{}); err != nil {
		return nil, fmt.Errorf("settings: migrate: %w", err)
	}
	var rows []Setting
	if err := db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("settings: load: %w", err)
	}
	s := &SQLStore{
		db:     db,
		values: make(map[string]float64, len(rows)),
		dirty:  make(map[string]bool),
	}
	for _, row := range rows {
		s.values[row.Key] = row.Value
	}
	return s, nil
}

func (s *SQLStore) Float(key string) (float64, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *SQLStore) SetFloat(key string, value float64) error {
	if old, ok := s.values[key]; ok && old == value {
		return nil
	}
	s.values[key] = value
	s.dirty[key] = true
	return nil
}

func (s *SQLStore) Flush() error {
	for key := range s.dirty {
		row := Setting{Key: key, Value: s.values[key]}
		if err := s.db.Save(&row).Error; err != nil {
			return fmt.Errorf("settings: save %q: %w", key, err)
		}
		delete(s.dirty, key)
	}
	return nil
}

// Close flushes and releases the database handle.
func (s *SQLStore) Close() error {
	if err := s.Flush(); err != nil {
		return err
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
