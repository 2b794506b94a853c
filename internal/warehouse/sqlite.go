//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/pgEdge/pgedge-retailwh/internal/db"
	"github.com/pgEdge/pgedge-retailwh/internal/logging"
)

// sqliteMaxParams is the default SQLITE_MAX_VARIABLE_NUMBER.
const sqliteMaxParams = 32766

func init() {
	Register("sqlite", func(_ context.Context, conn string) (Store, error) {
		return OpenSQLite(strings.TrimPrefix(conn, "sqlite://"))
	})
}

type metadataEntry struct {
	Key   string `gorm:"primaryKey"`
	Value string `gorm:"not null"`
}

func (metadataEntry) TableName() string {
	return db.MetadataTable
}

// SQLiteStore loads the warehouse into a SQLite file through gorm.
type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLite opens or creates the database at path. ":memory:" gives a
// private in-memory database. Foreign keys are enforced.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := path
	if strings.Contains(dsn, "?") {
		dsn += "&_foreign_keys=on"
	} else {
		dsn += "?_foreign_keys=on"
	}

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	// SQLite has a single writer, and each connection to :memory: is a
	// separate database.
	sqlDB.SetMaxOpenConns(1)

	logging.Info().Str("path", path).Msg("Opened sqlite warehouse")

	return &SQLiteStore{db: gdb}, nil
}

// CreateSchema implements Store.
func (s *SQLiteStore) CreateSchema(ctx context.Context) error {
	tx := s.db.WithContext(ctx)
	for _, stmt := range SchemaStatements() {
		if err := tx.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return tx.AutoMigrate(&metadataEntry{})
}

// DropSchema implements Store.
func (s *SQLiteStore) DropSchema(ctx context.Context) error {
	tx := s.db.WithContext(ctx)
	for _, stmt := range DropStatements(false) {
		if err := tx.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
	}
	return tx.Migrator().DropTable(&metadataEntry{})
}

// InsertIfAbsent implements Store.
func (s *SQLiteStore) InsertIfAbsent(ctx context.Context, batch Batch) (int64, error) {
	if batch.Len() == 0 {
		return 0, nil
	}

	var inserted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rows := range chunkRows(batch.Rows, len(batch.Columns), sqliteMaxParams) {
			values := make([]map[string]interface{}, len(rows))
			for i, row := range rows {
				m := make(map[string]interface{}, len(batch.Columns))
				for j, col := range batch.Columns {
					m[col] = row[j]
				}
				values[i] = m
			}

			res := tx.Table(batch.Table.Name).
				Clauses(clause.OnConflict{DoNothing: true}).
				Create(values)
			if res.Error != nil {
				return res.Error
			}
			inserted += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// Count implements Store.
func (s *SQLiteStore) Count(ctx context.Context, table string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Table(table).Count(&n).Error
	return n, err
}

// SaveMetadata implements Store.
func (s *SQLiteStore) SaveMetadata(ctx context.Context, entries map[string]string) error {
	tx := s.db.WithContext(ctx)
	if err := tx.AutoMigrate(&metadataEntry{}); err != nil {
		return fmt.Errorf("failed to create metadata table: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	rows := make([]metadataEntry, 0, len(entries))
	for k, v := range entries {
		rows = append(rows, metadataEntry{Key: k, Value: v})
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}
	return nil
}

// Metadata implements Store.
func (s *SQLiteStore) Metadata(ctx context.Context) (map[string]string, error) {
	tx := s.db.WithContext(ctx)
	out := make(map[string]string)
	if !tx.Migrator().HasTable(&metadataEntry{}) {
		return out, nil
	}

	var rows []metadataEntry
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.Key] = r.Value
	}
	return out, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
