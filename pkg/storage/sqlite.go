package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// SQLiteFileName is the database file created inside the data directory.
const SQLiteFileName = "database.db"

type SQLiteLinkStorage struct {
	db *gorm.DB
}

// OpenSQLite opens (creating if needed) the SQLite database at path.
func OpenSQLite(path string) (*SQLiteLinkStorage, error) {
	gdb, err := gorm.Open(sqlite.Open(sqliteDSN(path)), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return &SQLiteLinkStorage{db: gdb}, nil
}

// sqliteDSN builds a file: URI for path. The path is percent-escaped so '?',
// '#' and '%' in directory names survive SQLite's URI parsing. busy_timeout
// makes concurrent writers wait on the database lock instead of failing with
// SQLITE_BUSY.
func sqliteDSN(path string) string {
	escaped := (&url.URL{Path: path}).EscapedPath()
	return fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", escaped)
}

func (s *SQLiteLinkStorage) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&LinkRecord{})
}

func (s *SQLiteLinkStorage) Upsert(ctx context.Context, shortCode, originalIdentifier, targetURL string) error {
	link := &LinkRecord{
		ShortCode:          shortCode,
		OriginalIdentifier: originalIdentifier,
		TargetURL:          targetURL,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "short_code"}},
		DoUpdates: clause.AssignmentColumns([]string{"original_identifier", "target_url", "updated_at"}),
	}).Create(link).Error
}

func (s *SQLiteLinkStorage) Lookup(ctx context.Context, shortCode string) (*LinkRecord, error) {
	var link LinkRecord
	err := s.db.WithContext(ctx).Where("short_code = ?", shortCode).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (s *SQLiteLinkStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
