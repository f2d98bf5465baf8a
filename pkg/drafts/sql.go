package drafts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// DraftModel is the row persisted by the SQL adapter.
type DraftModel struct {
	FormKey   string `gorm:"primaryKey;size:255"`
	Payload   string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// TableName specifies the table name for gorm.
func (DraftModel) TableName() string {
	return "form_drafts"
}

// SQL stores drafts in any gorm-supported database.
type SQL struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) a SQLite database using the pure-Go driver.
// Use "file::memory:?cache=shared" for an in-memory database.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("drafts: open sqlite: %w", err)
	}
	return db, nil
}

// NewSQL migrates the drafts table and returns the adapter.
func NewSQL(db *gorm.DB) (*SQL, error) {
	if db == nil {
		return nil, errors.New("drafts: gorm db is required")
	}
	if err := db.AutoMigrate(&DraftModel{}); err != nil {
		return nil, fmt.Errorf("drafts: migrate: %w", err)
	}
	return &SQL{db: db}, nil
}

// Load implements Store.
func (s *SQL) Load(ctx context.Context, formID string) (map[string]string, error) {
	id, err := checkFormID(formID)
	if err != nil {
		return nil, err
	}
	var row DraftModel
	result := s.db.WithContext(ctx).Where("form_key = ?", Key(id)).First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("drafts: load %s: %w", id, result.Error)
	}
	return decode([]byte(row.Payload))
}

// Save implements Store as an upsert.
func (s *SQL) Save(ctx context.Context, formID string, values map[string]string) error {
	id, err := checkFormID(formID)
	if err != nil {
		return err
	}
	compact := Compact(values)
	if compact == nil {
		return s.Clear(ctx, id)
	}
	raw, err := encode(compact)
	if err != nil {
		return err
	}
	row := DraftModel{
		FormKey:   Key(id),
		Payload:   string(raw),
		UpdatedAt: time.Now().UTC(),
	}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "form_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&row)
	if result.Error != nil {
		return fmt.Errorf("drafts: save %s: %w", id, result.Error)
	}
	return nil
}

// Clear implements Store.
func (s *SQL) Clear(ctx context.Context, formID string) error {
	id, err := checkFormID(formID)
	if err != nil {
		return err
	}
	result := s.db.WithContext(ctx).Where("form_key = ?", Key(id)).Delete(&DraftModel{})
	if result.Error != nil {
		return fmt.Errorf("drafts: clear %s: %w", id, result.Error)
	}
	return nil
}
