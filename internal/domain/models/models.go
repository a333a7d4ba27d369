// Package models provides the cashback entry, group and document types.
package models

import (
	"fmt"
	"math"
	"strings"

	"cashback/internal/repository"
)

// Entry - a named cashback percent within a group.
type Entry struct {
	// Name: cashback category, case preserved.
	Name string
	// Percent: cashback rate, always a finite number above zero.
	Percent float64
}

// Validate checks that the entry has a non-blank name and a positive percent.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: empty entry name", repository.ErrInvalidArgument)
	}
	return ValidatePercent(e.Percent)
}

// ValidatePercent checks that p is a finite number above zero.
func ValidatePercent(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
		return fmt.Errorf("%w: percent must be a positive number, got %v", repository.ErrInvalidArgument, p)
	}
	return nil
}

// ValidateGroupName checks that the group name is not blank.
func ValidateGroupName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty group name", repository.ErrInvalidArgument)
	}
	return nil
}

// Match - one result of a search by entry name.
type Match struct {
	Group   string
	Name    string
	Percent float64
}
