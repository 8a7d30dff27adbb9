package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"drought-watch-api/models"
)

// MemoryStore keeps predictions in process memory. It backs the service
// tests and the STORE_DRIVER=memory mode, and mirrors the ordering and
// timestamp semantics of the postgres store.
type MemoryStore struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]models.Prediction
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1, rows: make(map[uint]models.Prediction)}
}

func clonePrediction(p models.Prediction) models.Prediction {
	c := p
	if p.Attachments != nil {
		c.Attachments = append(c.Attachments[0:0:0], p.Attachments...)
	}
	if p.GeospatialData != nil {
		c.GeospatialData = append(c.GeospatialData[0:0:0], p.GeospatialData...)
	}
	return c
}

func (s *MemoryStore) List(ctx context.Context, q ListQuery) ([]models.Prediction, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]models.Prediction, 0, len(s.rows))
	for _, p := range s.rows {
		if q.Severity != nil && p.SeverityLevel != *q.Severity {
			continue
		}
		matched = append(matched, clonePrediction(p))
	}

	sortPredictions(matched, q.Sort)

	total := int64(len(matched))
	if q.Offset >= len(matched) {
		return []models.Prediction{}, total, nil
	}
	end := q.Offset + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[q.Offset:end], total, nil
}

func sortPredictions(rows []models.Prediction, s Sort) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		var less, equal bool
		switch s.Field {
		case SortPredictionDate:
			less = a.PredictionDate.Before(b.PredictionDate)
			equal = a.PredictionDate.Equal(b.PredictionDate)
		case SortSeverity:
			less = a.SeverityLevel.Ordinal() < b.SeverityLevel.Ordinal()
			equal = a.SeverityLevel.Ordinal() == b.SeverityLevel.Ordinal()
		case SortTitle:
			cmp := strings.Compare(a.Title, b.Title)
			less = cmp < 0
			equal = cmp == 0
		default:
			less = a.CreatedAt.Before(b.CreatedAt)
			equal = a.CreatedAt.Equal(b.CreatedAt)
		}
		if equal {
			// Ties break by newest first regardless of direction.
			return a.CreatedAt.After(b.CreatedAt)
		}
		if s.Desc {
			return !less
		}
		return less
	})
}

func (s *MemoryStore) GetByID(ctx context.Context, id uint) (*models.Prediction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := clonePrediction(p)
	return &c, nil
}

func (s *MemoryStore) Create(ctx context.Context, p *models.Prediction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	p.ID = s.nextID
	s.nextID++
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Attachments == nil {
		p.Attachments = []string{}
	}
	s.rows[p.ID] = clonePrediction(*p)
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, p *models.Prediction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.rows[p.ID]
	if !ok {
		return ErrNotFound
	}
	now := time.Now().UTC()
	if !now.After(prev.UpdatedAt) {
		// Coarse clocks must not stall updated_at.
		now = prev.UpdatedAt.Add(time.Nanosecond)
	}
	p.CreatedAt = prev.CreatedAt
	p.UpdatedAt = now
	s.rows[p.ID] = clonePrediction(*p)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

// MemoryUserStore is the in-memory counterpart of GormUserStore, used in
// memory mode and in handler tests.
type MemoryUserStore struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{nextID: 1, byID: make(map[uint]models.User)}
}

func (s *MemoryUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.Email == email {
			c := u
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) GetByID(ctx context.Context, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := u
	return &c, nil
}

func (s *MemoryUserStore) Create(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	now := time.Now().UTC()
	u.ID = s.nextID
	s.nextID++
	u.CreatedAt = now
	u.UpdatedAt = now
	s.byID[u.ID] = *u
	return nil
}
