package dbstore

import (
	"time"

	"github.com/yiblet/clipkeep/internal/store"
)

// ItemModel represents a history item in the database.
// Position preserves the list order owned by the history engine.
type ItemModel struct {
	ID                  string     `gorm:"primaryKey;size:64"`
	Position            int        `gorm:"not null;index"`
	Content             string     `gorm:"type:text;not null"`
	Timestamp           time.Time  `gorm:"not null;index"`
	Type                string     `gorm:"size:16;not null;index"`
	SourceApp           string     `gorm:"size:255"`
	SourceAppIdentifier string     `gorm:"size:255"`
	FileSize            string     `gorm:"size:32"`
	IsFavorite          bool       `gorm:"not null;default:false;index"`
	Tags                []string   `gorm:"serializer:json"`
	CustomTitle         string     `gorm:"size:255"`
	UsageCount          int        `gorm:"not null;default:0"`
	LastUsedDate        *time.Time // nil until first copy-back
}

// TableName returns the table name for ItemModel
func (ItemModel) TableName() string {
	return "history_items"
}

// VersionModel is a single-row counter bumped by every Save, so other
// processes holding the list can tell it was replaced.
type VersionModel struct {
	ID      uint  `gorm:"primaryKey"`
	Version int64 `gorm:"not null;default:0"`
}

// TableName returns the table name for VersionModel
func (VersionModel) TableName() string {
	return "history_version"
}

// ToItem converts the GORM model to a store.Item
func (m *ItemModel) ToItem() *store.Item {
	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}
	return &store.Item{
		ID:                  m.ID,
		Content:             m.Content,
		Timestamp:           m.Timestamp,
		Type:                store.ItemType(m.Type),
		SourceApp:           m.SourceApp,
		SourceAppIdentifier: m.SourceAppIdentifier,
		FileSize:            m.FileSize,
		IsFavorite:          m.IsFavorite,
		Tags:                tags,
		CustomTitle:         m.CustomTitle,
		UsageCount:          m.UsageCount,
		LastUsedDate:        m.LastUsedDate,
	}
}

// fromItem converts a store.Item at list position pos to its model.
func fromItem(it *store.Item, pos int) *ItemModel {
	return &ItemModel{
		ID:                  it.ID,
		Position:            pos,
		Content:             it.Content,
		Timestamp:           it.Timestamp,
		Type:                string(it.Type),
		SourceApp:           it.SourceApp,
		SourceAppIdentifier: it.SourceAppIdentifier,
		FileSize:            it.FileSize,
		IsFavorite:          it.IsFavorite,
		Tags:                it.Tags,
		CustomTitle:         it.CustomTitle,
		UsageCount:          it.UsageCount,
		LastUsedDate:        it.LastUsedDate,
	}
}
