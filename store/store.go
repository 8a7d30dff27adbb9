// Package store holds the persistence layer behind the API. Handlers and
// services depend on the interfaces here, never on a concrete driver; the
// postgres and in-memory implementations are selected by configuration.
package store

import (
	"context"
	"errors"

	"drought-watch-api/models"
)

// ErrNotFound is returned when an id does not resolve to a record.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateEmail is returned when a user registration reuses an email.
var ErrDuplicateEmail = errors.New("email already registered")

type SortField string

const (
	SortCreatedAt      SortField = "created_at"
	SortPredictionDate SortField = "prediction_date"
	SortSeverity       SortField = "severity_level"
	SortTitle          SortField = "title"
)

func (f SortField) Valid() bool {
	switch f {
	case SortCreatedAt, SortPredictionDate, SortSeverity, SortTitle:
		return true
	}
	return false
}

type Sort struct {
	Field SortField
	Desc  bool
}

// ListQuery describes one page of a filtered listing. Offset/Limit are
// already resolved from page arithmetic by the caller.
type ListQuery struct {
	Severity *models.Severity
	Sort     Sort
	Offset   int
	Limit    int
}

// PredictionStore persists Prediction records. List returns the requested
// page together with the total number of matching records before pagination.
type PredictionStore interface {
	List(ctx context.Context, q ListQuery) ([]models.Prediction, int64, error)
	GetByID(ctx context.Context, id uint) (*models.Prediction, error)
	Create(ctx context.Context, p *models.Prediction) error
	Update(ctx context.Context, p *models.Prediction) error
	Delete(ctx context.Context, id uint) error
}

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
}
