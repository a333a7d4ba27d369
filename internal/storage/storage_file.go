package storage

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"cashback/internal/config"
	"cashback/internal/domain/models"
	"cashback/internal/repository"

	"go.uber.org/zap"
)

const filePerm = 0o644

// Policy - how StorageFile reacts to I/O and parse failures.
type Policy struct {
	// FailOnLoad: Load returns read and parse failures instead of an empty document.
	FailOnLoad bool
	// Lenient: Save and Delete log failures and report success.
	Lenient bool
	// Fallback: file Save switches to when writing the main file fails in lenient mode.
	Fallback string
}

// PolicyFromConfig builds the storage policy from the application config.
func PolicyFromConfig(c *config.Config) Policy {
	return Policy{
		FailOnLoad: c.StrictLoad,
		Lenient:    c.Lenient,
		Fallback:   config.FileName(c.FallbackFile),
	}
}

// StorageFile - structure for storing the cashback document in a JSON file.
type StorageFile struct {
	path   string
	policy Policy
	sugar  *zap.SugaredLogger
}

// NewStorageFile creates and returns a new instance of StorageFile for the configured data file.
func NewStorageFile(c *config.Config, sugar *zap.SugaredLogger) *StorageFile {
	return &StorageFile{
		path:   c.StoragePath(),
		policy: PolicyFromConfig(c),
		sugar:  sugar,
	}
}

// Path returns the file currently used for the document.
func (s *StorageFile) Path() string {
	return s.path
}

// Load reads the document from the file. A missing or blank file yields an empty document.
func (s *StorageFile) Load() (*models.Document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.NewDocument(), nil
	}
	if err != nil {
		return s.loadFailed(repository.NewStorageError("load", s.path, err))
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return models.NewDocument(), nil
	}

	doc, err := models.Decode(bytes.NewReader(data))
	if err != nil {
		return s.loadFailed(repository.Malformed(s.path, err))
	}
	return doc, nil
}

func (s *StorageFile) loadFailed(err error) (*models.Document, error) {
	if s.policy.FailOnLoad {
		return nil, err
	}
	s.sugar.Warnw("starting with an empty document", "file", s.path, "error", err)
	return models.NewDocument(), nil
}

// Save writes the whole document to the file.
func (s *StorageFile) Save(doc *models.Document) error {
	err := writeFile(s.path, doc)
	if err == nil {
		return nil
	}
	if !s.policy.Lenient {
		return err
	}

	s.sugar.Errorw("saving cashbacks failed", "file", s.path, "error", err)
	if s.policy.Fallback == "" || s.policy.Fallback == s.path {
		return nil
	}
	if ferr := writeFile(s.policy.Fallback, doc); ferr != nil {
		s.sugar.Errorw("saving cashbacks to fallback file failed", "file", s.policy.Fallback, "error", ferr)
		return nil
	}
	s.sugar.Warnw("data file changed to fallback", "from", s.path, "to", s.policy.Fallback)
	s.path = s.policy.Fallback
	return nil
}

// Delete removes the file. A missing file is not an error.
func (s *StorageFile) Delete() error {
	err := os.Remove(s.path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	serr := repository.NewStorageError("delete", s.path, err)
	if s.policy.Lenient {
		s.sugar.Errorw("removing cashbacks file failed", "file", s.path, "error", serr)
		return nil
	}
	return serr
}

// writeFile replaces path with the encoded document via a temporary sibling file,
// so a failed write never leaves a truncated document behind.
// A symlinked path is written through to its target, and an existing file keeps its mode.
func writeFile(path string, doc *models.Document) error {
	var buf bytes.Buffer
	if err := doc.Encode(&buf); err != nil {
		return repository.NewStorageError("save", path, err)
	}

	target, perm := resolveTarget(path)
	tmp, err := os.CreateTemp(filepath.Dir(target), filepath.Base(target)+".*.tmp")
	if err != nil {
		return repository.NewStorageError("save", path, err)
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(buf.Bytes())
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmpName, perm)
	}
	if err == nil {
		err = os.Rename(tmpName, target)
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return repository.NewStorageError("save", path, err)
	}
	return nil
}

// resolveTarget returns the file a write to path should replace and the mode it should get.
func resolveTarget(path string) (string, fs.FileMode) {
	target := path
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		target = resolved
	}
	if info, err := os.Stat(target); err == nil && info.Mode().IsRegular() {
		return target, info.Mode().Perm()
	}
	return target, filePerm
}
