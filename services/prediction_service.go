package services

import (
	"context"
	"strings"
	"time"

	"drought-watch-api/models"
	"drought-watch-api/store"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Identity is the resolved caller of a request.
type Identity struct {
	UserID uint
	Email  string
	Role   models.Role
}

// ListParams carries the raw listing inputs; sort and severity arrive as
// strings straight from the query and are validated here.
type ListParams struct {
	Page     int
	Limit    int
	Sort     string
	Severity string
}

type PredictionPage struct {
	Predictions []models.Prediction
	TotalCount  int64
	TotalPages  int
	CurrentPage int
}

type CreatePredictionInput struct {
	Title          string       `json:"title"`
	Content        string       `json:"content"`
	PredictionDate string       `json:"prediction_date"`
	SeverityLevel  string       `json:"severity_level"`
	GeospatialData models.JSONB `json:"geospatial_data"`
	Attachments    []string     `json:"attachments"`
}

// UpdatePredictionInput is a partial payload: nil fields keep the stored
// value.
type UpdatePredictionInput struct {
	Title          *string      `json:"title"`
	Content        *string      `json:"content"`
	PredictionDate *string      `json:"prediction_date"`
	SeverityLevel  *string      `json:"severity_level"`
	GeospatialData models.JSONB `json:"geospatial_data"`
	Attachments    *[]string    `json:"attachments"`
}

// PredictionService implements listing and mutation over prediction records,
// independent of the HTTP transport. Mutations run the admin gate before any
// store access.
type PredictionService struct {
	store store.PredictionStore
}

func NewPredictionService(st store.PredictionStore) *PredictionService {
	return &PredictionService{store: st}
}

func (s *PredictionService) List(ctx context.Context, p ListParams) (*PredictionPage, error) {
	errs := fieldErrors{}
	if p.Page < 1 {
		errs.add("page", "must be a positive integer")
	}
	if p.Limit < 1 {
		errs.add("limit", "must be a positive integer")
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	var severity *models.Severity
	if p.Severity != "" {
		sev := models.Severity(p.Severity)
		if !sev.Valid() {
			errs.add("severity", "must be one of low, moderate, high, extreme")
		} else {
			severity = &sev
		}
	}

	sortSpec, err := parseSort(p.Sort)
	if err != nil {
		errs.add("sort", err.Error())
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	rows, total, err := s.store.List(ctx, store.ListQuery{
		Severity: severity,
		Sort:     sortSpec,
		Offset:   (p.Page - 1) * p.Limit,
		Limit:    p.Limit,
	})
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return &PredictionPage{
		Predictions: rows,
		TotalCount:  total,
		TotalPages:  totalPages,
		CurrentPage: p.Page,
	}, nil
}

func (s *PredictionService) Get(ctx context.Context, id uint) (*models.Prediction, error) {
	return s.store.GetByID(ctx, id)
}

func (s *PredictionService) Create(ctx context.Context, caller Identity, in CreatePredictionInput) (*models.Prediction, error) {
	if err := RequireRole(caller, models.RoleAdmin); err != nil {
		return nil, err
	}

	errs := fieldErrors{}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		errs.add("title", "required")
	}
	if in.Content == "" {
		errs.add("content", "required")
	}
	date, err := parseDate(in.PredictionDate)
	if err != nil {
		errs.add("prediction_date", err.Error())
	}
	sev := models.Severity(in.SeverityLevel)
	if !sev.Valid() {
		errs.add("severity_level", "must be one of low, moderate, high, extreme")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	p := models.Prediction{
		Title:          title,
		Content:        in.Content,
		PredictionDate: date,
		SeverityLevel:  sev,
		GeospatialData: in.GeospatialData,
		Attachments:    in.Attachments,
	}
	if p.Attachments == nil {
		p.Attachments = []string{}
	}
	if err := s.store.Create(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PredictionService) Update(ctx context.Context, caller Identity, id uint, in UpdatePredictionInput) (*models.Prediction, error) {
	if err := RequireRole(caller, models.RoleAdmin); err != nil {
		return nil, err
	}

	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	errs := fieldErrors{}
	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		p.Content = *in.Content
	}
	if in.PredictionDate != nil {
		date, err := parseDate(*in.PredictionDate)
		if err != nil {
			errs.add("prediction_date", err.Error())
		} else {
			p.PredictionDate = date
		}
	}
	if in.SeverityLevel != nil {
		p.SeverityLevel = models.Severity(*in.SeverityLevel)
	}
	if in.GeospatialData != nil {
		p.GeospatialData = in.GeospatialData
	}
	if in.Attachments != nil {
		p.Attachments = *in.Attachments
	}

	// The merged record obeys the same rules as a fresh one.
	if p.Title == "" {
		errs.add("title", "required")
	}
	if p.Content == "" {
		errs.add("content", "required")
	}
	if !p.SeverityLevel.Valid() {
		errs.add("severity_level", "must be one of low, moderate, high, extreme")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PredictionService) Delete(ctx context.Context, caller Identity, id uint) error {
	if err := RequireRole(caller, models.RoleAdmin); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// parseSort accepts a field name with an optional leading "-" for descending,
// e.g. "-created_at". The original web client sent mongoose-style
// "-createdAt"; that spelling is still accepted.
func parseSort(raw string) (store.Sort, error) {
	if raw == "" {
		return store.Sort{Field: store.SortCreatedAt, Desc: true}, nil
	}
	desc := strings.HasPrefix(raw, "-")
	field := strings.TrimPrefix(raw, "-")
	switch field {
	case "createdAt":
		field = string(store.SortCreatedAt)
	case "date":
		field = string(store.SortPredictionDate)
	case "severity":
		field = string(store.SortSeverity)
	}
	f := store.SortField(field)
	if !f.Valid() {
		return store.Sort{}, &sortFieldError{field}
	}
	return store.Sort{Field: f, Desc: desc}, nil
}

type sortFieldError struct {
	field string
}

func (e *sortFieldError) Error() string {
	return "unknown sort field " + e.field
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, &dateError{}
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, &dateError{}
}

type dateError struct{}

func (e *dateError) Error() string {
	return "must be a date in YYYY-MM-DD or RFC 3339 form"
}
