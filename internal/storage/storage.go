package storage

import (
	"cashback/internal/domain/models"
)

//go:generate mockgen -destination=../mocks/mock_storage.go -package=mocks cashback/internal/storage StorageService

// StorageService persists a whole cashback document as one unit.
type StorageService interface {
	// Load returns the persisted document, or an empty one when nothing is persisted yet.
	Load() (*models.Document, error)
	// Save replaces the persisted document with doc.
	Save(doc *models.Document) error
	// Delete removes the persisted document. Removing a missing one is not an error.
	Delete() error
	// Path returns the name of the persisted resource.
	Path() string
}
