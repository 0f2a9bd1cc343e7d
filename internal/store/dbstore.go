package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"moneybook/internal/config"
	apperrors "moneybook/internal/errors"
	"moneybook/internal/models"
)

// LedgerDocument is the database row holding one user's serialized ledger.
type LedgerDocument struct {
	Username  string    `gorm:"primaryKey;size:64"`
	Document  string    `gorm:"type:text;not null"`
	Revision  int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

// DatabaseStore persists ledger documents through GORM, one row per user.
type DatabaseStore struct {
	db *gorm.DB
}

// OpenDatabase opens the configured database (sqlite or postgres).
func OpenDatabase(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// NewDatabaseStore migrates the document table and returns the store.
func NewDatabaseStore(db *gorm.DB) (*DatabaseStore, error) {
	if err := db.AutoMigrate(&LedgerDocument{}); err != nil {
		return nil, fmt.Errorf("migrate ledger documents: %w", err)
	}
	return &DatabaseStore{db: db}, nil
}

// Load parses the user's document row. A missing row yields an empty ledger.
func (ds *DatabaseStore) Load(username string) (*models.LedgerState, error) {
	var row LedgerDocument
	err := ds.db.Where("username = ?", username).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewLedgerState(), nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	state := &models.LedgerState{}
	if err := json.Unmarshal([]byte(row.Document), state); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	state.Revision = row.Revision
	state.EnsureCollections()
	return state, nil
}

// Save overwrites the user's row. The update is conditioned on the revision
// the state was loaded with; zero matched rows on an existing document
// means another session saved first.
func (ds *DatabaseStore) Save(username string, state *models.LedgerState) error {
	loadedRevision := state.Revision
	state.Revision++
	document, err := json.Marshal(state)
	if err != nil {
		state.Revision--
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}

	err = ds.db.Transaction(func(tx *gorm.DB) error {
		if loadedRevision == 0 {
			var count int64
			if err := tx.Model(&LedgerDocument{}).Where("username = ?", username).Count(&count).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrStorage, err)
			}
			if count > 0 {
				return apperrors.ErrRevisionConflict
			}
			row := LedgerDocument{Username: username, Document: string(document), Revision: state.Revision}
			if err := tx.Create(&row).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrStorage, err)
			}
			return nil
		}

		result := tx.Model(&LedgerDocument{}).
			Where("username = ? AND revision = ?", username, loadedRevision).
			Updates(map[string]interface{}{"document": string(document), "revision": state.Revision})
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrStorage, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrRevisionConflict
		}
		return nil
	})
	if err != nil {
		state.Revision--
		return err
	}
	return nil
}
