package storage

import (
	"errors"

	"github.com/julianstephens/remindue/internal/models"
)

// ErrNotFound is returned when an obligation id has no stored record.
var ErrNotFound = errors.New("obligation not found")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Obligations
	UpsertObligation(models.Obligation) error
	GetObligation(id string) (models.Obligation, error)
	// ListObligations returns all obligations ordered by due date ascending.
	ListObligations() ([]models.Obligation, error)
	// DeleteObligation removes the record; returns ErrNotFound when the id
	// is unknown.
	DeleteObligation(id string) error

	// Utils
	GetConfigPath() string
}
