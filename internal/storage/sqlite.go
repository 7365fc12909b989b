package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type kvEntry struct {
	Name  string `gorm:"primaryKey;column:name"`
	Value string `gorm:"column:value;not null"`
}

func (kvEntry) TableName() string {
	return "kv_entries"
}

type sqliteStorage struct {
	db *gorm.DB
}

func NewSQLite(dsn string) (Storage, error) {
	if dsn == "" {
		return nil, fmt.Errorf("sqlite dsn required")
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	return NewSQLiteWithDB(db)
}

// NewSQLiteWithDB uses an existing gorm handle and migrates the table.
func NewSQLiteWithDB(db *gorm.DB) (Storage, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlite storage requires database handle")
	}
	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, fmt.Errorf("migrate kv_entries: %w", err)
	}
	return &sqliteStorage{db: db}, nil
}

func (s *sqliteStorage) Get(ctx context.Context, key string) (string, error) {
	var e kvEntry
	err := s.db.WithContext(ctx).Where("name = ?", key).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return e.Value, nil
}

func (s *sqliteStorage) SetMany(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for k, v := range values {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{"value"}),
			}).Create(&kvEntry{Name: k, Value: v}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *sqliteStorage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Where("name IN ?", keys).Delete(&kvEntry{}).Error
}

func (s *sqliteStorage) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
