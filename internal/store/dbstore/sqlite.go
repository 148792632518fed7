package dbstore

import (
	"fmt"
	"strconv"

	"github.com/yiblet/clipkeep/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// DefaultFileName is the database file name inside the data directory.
const DefaultFileName = "history.db"

// insertBatchSize bounds the rows per INSERT statement on Save.
const insertBatchSize = 100

// versionRow is the primary key of the only VersionModel row.
const versionRow = 1

// SQLiteStore is a SQLite-backed implementation of store.HistoryStore
type SQLiteStore struct {
	db     *gorm.DB
	dbPath string
}

// NewSQLiteStore creates a new SQLite-backed store at the specified path
// and migrates the schema.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&ItemModel{}, &VersionModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// Load returns all items in list order.
func (s *SQLiteStore) Load() ([]*store.Item, error) {
	var models []*ItemModel
	if err := s.db.Order("position ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	items := make([]*store.Item, len(models))
	for i, model := range models {
		items[i] = model.ToItem()
	}
	return items, nil
}

// Save replaces the stored list in a single transaction.
func (s *SQLiteStore) Save(items []*store.Item) error {
	models := make([]*ItemModel, len(items))
	for i, it := range items {
		models[i] = fromItem(it, i)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&ItemModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		if len(models) > 0 {
			if err := tx.CreateInBatches(models, insertBatchSize).Error; err != nil {
				return fmt.Errorf("failed to insert items: %w", err)
			}
		}
		bump := clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{"version": gorm.Expr("version + 1")}),
		}
		if err := tx.Clauses(bump).Create(&VersionModel{ID: versionRow, Version: 1}).Error; err != nil {
			return fmt.Errorf("failed to bump version: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// Version implements store.Versioned with the counter Save increments.
// A database that was never saved to has version "0".
func (s *SQLiteStore) Version() (string, error) {
	var v VersionModel
	if err := s.db.Where("id = ?", versionRow).Limit(1).Find(&v).Error; err != nil {
		return "", fmt.Errorf("failed to read version: %w", err)
	}
	return strconv.FormatInt(v.Version, 10), nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
