// Package app wires configuration, storage and the cashback service together.
package app

import (
	"cashback/internal/config"
	"cashback/internal/services"
	"cashback/internal/storage"

	"go.uber.org/zap"
)

// SelectStorage - selects the storage for the cashback document: memory or file.
func SelectStorage(c *config.Config, sugar *zap.SugaredLogger) storage.StorageService {
	if c.Memory {
		sugar.Infow("using memory")
		return storage.NewStorageMemory()
	}

	s := storage.NewStorageFile(c, sugar)
	sugar.Infow("using file", "file", s.Path(), "strict_load", c.StrictLoad, "lenient", c.Lenient)
	return s
}

// NeedsFileName reports whether the data file name still has to be asked for.
func NeedsFileName(c *config.Config) bool {
	return !c.Memory && c.StoragePath() == ""
}

// NewService selects the storage and loads the document into a new CashbackService.
// With StrictLoad an unreadable or malformed data file is returned as an error.
func NewService(c *config.Config, sugar *zap.SugaredLogger) (services.CashbackService, error) {
	return services.NewCashbackService(SelectStorage(c, sugar), sugar)
}
