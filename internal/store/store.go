// Package store persists each user's ledger as a single document. A load
// returns the whole aggregate; a save overwrites it in full, guarded by an
// optimistic revision check so two sessions of the same user cannot
// silently clobber each other's writes.
package store

import "moneybook/internal/models"

// Store is the persistence contract for ledger documents, keyed per user.
type Store interface {
	// Load returns the user's ledger, or an empty initialized ledger when
	// none has been saved yet. Missing top-level collections default to
	// empty.
	Load(username string) (*models.LedgerState, error)

	// Save overwrites the user's document. It fails with ErrRevisionConflict
	// when the stored revision no longer matches the one the state was
	// loaded with; on success the state's revision is advanced.
	Save(username string, state *models.LedgerState) error
}
