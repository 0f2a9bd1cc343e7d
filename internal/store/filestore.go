package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	apperrors "moneybook/internal/errors"
	"moneybook/internal/models"
)

// usernamePattern limits usernames to path-safe names.
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)

// FileStore keeps one JSON document per user under a data directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the data directory if needed and returns a store
// rooted at it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (fs *FileStore) path(username string) (string, error) {
	if !usernamePattern.MatchString(username) {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid username")
	}
	return filepath.Join(fs.dir, username+".json"), nil
}

// Load parses the user's document. A missing file yields an empty ledger.
func (fs *FileStore) Load(username string) (*models.LedgerState, error) {
	path, err := fs.path(username)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return models.NewLedgerState(), nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	state := &models.LedgerState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	state.EnsureCollections()
	return state, nil
}

// Save serializes the whole document and replaces the prior file
// atomically via a temp file and rename. The revision stored on disk must
// still match the state's loaded revision.
func (fs *FileStore) Save(username string, state *models.LedgerState) error {
	path, err := fs.path(username)
	if err != nil {
		return err
	}

	current, err := fs.storedRevision(path)
	if err != nil {
		return err
	}
	if current != state.Revision {
		return apperrors.ErrRevisionConflict
	}

	state.Revision++
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		state.Revision--
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}

	tmp, err := os.CreateTemp(fs.dir, username+".*.tmp")
	if err != nil {
		state.Revision--
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		state.Revision--
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		state.Revision--
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		state.Revision--
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return nil
}

// storedRevision reads only the revision field of the on-disk document.
func (fs *FileStore) storedRevision(path string) (int64, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	var header struct {
		Revision int64 `json:"revision"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return 0, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return header.Revision, nil
}
