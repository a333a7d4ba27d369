package storage

import (
	"bytes"

	"cashback/internal/domain/models"
	"cashback/internal/repository"
)

// memoryName names the in-process resource in errors.
const memoryName = "memory"

// StorageMemory keeps the encoded document in process memory.
type StorageMemory struct {
	data []byte
}

// NewStorageMemory returns an empty StorageMemory.
func NewStorageMemory() *StorageMemory {
	return &StorageMemory{}
}

// Load decodes the last saved document, or returns an empty one.
func (s *StorageMemory) Load() (*models.Document, error) {
	if s.data == nil {
		return models.NewDocument(), nil
	}
	doc, err := models.Decode(bytes.NewReader(s.data))
	if err != nil {
		return nil, repository.Malformed(memoryName, err)
	}
	return doc, nil
}

// Save keeps an encoded copy of doc.
func (s *StorageMemory) Save(doc *models.Document) error {
	var buf bytes.Buffer
	if err := doc.Encode(&buf); err != nil {
		return repository.NewStorageError("save", memoryName, err)
	}
	s.data = buf.Bytes()
	return nil
}

// Delete drops the saved copy.
func (s *StorageMemory) Delete() error {
	s.data = nil
	return nil
}

// Path returns an empty string: nothing is written to disk.
func (s *StorageMemory) Path() string {
	return ""
}

// Exists reports whether a document is currently saved.
func (s *StorageMemory) Exists() bool {
	return s.data != nil
}
