// Package services contains the implementation of CashbackServ.
package services

import (
	"fmt"
	"sort"
	"strings"

	"cashback/internal/domain/models"
	"cashback/internal/repository"
	"cashback/internal/storage"

	"go.uber.org/zap"
)

// CashbackServ owns the live document and keeps it in sync with storage.
// It is not safe for concurrent use.
type CashbackServ struct {
	storageService storage.StorageService
	doc            *models.Document
	sugar          *zap.SugaredLogger
}

// CashbackService is the set of operations offered to the menu.
type CashbackService interface {
	Add(group string, e models.Entry) error
	Find(name string) []models.Match
	Edit(group, name string, percent float64) error
	DeleteEntry(group, name string) error
	DeleteGroup(group string) error
	ClearAll() error
	Document() *models.Document
	Lookup(group, name string) (models.Entry, bool)
	Total() int
	StoragePath() string
}

// NewCashbackService loads the document from storageService and returns a service over it.
func NewCashbackService(storageService storage.StorageService, sugar *zap.SugaredLogger) (CashbackService, error) {
	doc, err := storageService.Load()
	if err != nil {
		return nil, err
	}
	sugar.Debugw("cashbacks loaded", "file", storageService.Path(), "banks", doc.Len(), "cashbacks", doc.Total())
	return &CashbackServ{
		storageService: storageService,
		doc:            doc,
		sugar:          sugar,
	}, nil
}

// Add inserts e into group, creating the group if needed.
// An entry with the same name in any letter case is overwritten.
func (s *CashbackServ) Add(group string, e models.Entry) error {
	if err := models.ValidateGroupName(group); err != nil {
		return err
	}
	if err := e.Validate(); err != nil {
		return err
	}

	prev := s.doc.Clone()
	replaced := s.doc.Put(group, e)
	if err := s.persist(prev); err != nil {
		return err
	}
	s.sugar.Debugw("cashback added", "bank", group, "cashback", e.Name, "percent", e.Percent, "replaced", replaced)
	return nil
}

// Find returns every entry named name (case-insensitive), highest percent first.
// Entries with equal percent keep document order.
func (s *CashbackServ) Find(name string) []models.Match {
	var matches []models.Match
	for _, g := range s.doc.Groups() {
		for _, e := range g.Entries {
			if strings.EqualFold(e.Name, name) {
				matches = append(matches, models.Match{Group: g.Name, Name: e.Name, Percent: e.Percent})
			}
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Percent > matches[j].Percent
	})
	return matches
}

// Edit sets a new percent for an existing entry.
func (s *CashbackServ) Edit(group, name string, percent float64) error {
	if err := models.ValidatePercent(percent); err != nil {
		return err
	}
	e, err := s.lookup(group, name)
	if err != nil {
		return err
	}

	prev := s.doc.Clone()
	s.doc.Put(group, models.Entry{Name: e.Name, Percent: percent})
	if err := s.persist(prev); err != nil {
		return err
	}
	s.sugar.Debugw("cashback edited", "bank", group, "cashback", e.Name, "from", e.Percent, "to", percent)
	return nil
}

// DeleteEntry removes one entry; an emptied group goes with it.
func (s *CashbackServ) DeleteEntry(group, name string) error {
	if _, err := s.lookup(group, name); err != nil {
		return err
	}

	prev := s.doc.Clone()
	s.doc.RemoveEntry(group, name)
	if err := s.persist(prev); err != nil {
		return err
	}
	s.sugar.Debugw("cashback deleted", "bank", group, "cashback", name, "banks_left", s.doc.Len())
	return nil
}

// DeleteGroup removes a group with all its entries.
func (s *CashbackServ) DeleteGroup(group string) error {
	if _, ok := s.doc.Group(group); !ok {
		return fmt.Errorf("%w: %q", repository.ErrGroupNotFound, group)
	}

	prev := s.doc.Clone()
	s.doc.RemoveGroup(group)
	if err := s.persist(prev); err != nil {
		return err
	}
	s.sugar.Debugw("bank deleted", "bank", group, "banks_left", s.doc.Len())
	return nil
}

// ClearAll empties the document and removes the persisted resource.
func (s *CashbackServ) ClearAll() error {
	prev := s.doc.Clone()
	s.doc.Clear()
	if err := s.persist(prev); err != nil {
		return err
	}
	s.sugar.Debugw("all cashbacks cleared", "file", s.storageService.Path())
	return nil
}

// Document returns a copy of the current document.
func (s *CashbackServ) Document() *models.Document {
	return s.doc.Clone()
}

// Lookup returns the entry name in group.
func (s *CashbackServ) Lookup(group, name string) (models.Entry, bool) {
	return s.doc.Lookup(group, name)
}

// Total returns the number of entries in the document.
func (s *CashbackServ) Total() int {
	return s.doc.Total()
}

// StoragePath returns the name of the persisted resource.
func (s *CashbackServ) StoragePath() string {
	return s.storageService.Path()
}

func (s *CashbackServ) lookup(group, name string) (models.Entry, error) {
	g, ok := s.doc.Group(group)
	if !ok {
		return models.Entry{}, fmt.Errorf("%w: %q", repository.ErrGroupNotFound, group)
	}
	e, ok := g.Lookup(name)
	if !ok {
		return models.Entry{}, fmt.Errorf("%w: %q in %q", repository.ErrEntryNotFound, name, group)
	}
	return e, nil
}

// persist writes the document, or removes the resource once the document is empty.
// On failure the document is rolled back to prev.
func (s *CashbackServ) persist(prev *models.Document) error {
	var err error
	if s.doc.IsEmpty() {
		err = s.storageService.Delete()
	} else {
		err = s.storageService.Save(s.doc)
	}
	if err != nil {
		s.doc = prev
		return err
	}
	return nil
}
