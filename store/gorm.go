package store

import (
	"context"
	"errors"
	"fmt"

	"drought-watch-api/models"

	"gorm.io/gorm"
)

// severityRank maps the enum onto its ordinal so postgres sorts
// low < moderate < high < extreme instead of alphabetically.
const severityRank = "CASE severity_level" +
	" WHEN 'low' THEN 1 WHEN 'moderate' THEN 2" +
	" WHEN 'high' THEN 3 WHEN 'extreme' THEN 4 ELSE 0 END"

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) List(ctx context.Context, q ListQuery) ([]models.Prediction, int64, error) {
	filtered := func() *gorm.DB {
		db := s.db.WithContext(ctx).Model(&models.Prediction{})
		if q.Severity != nil {
			db = db.Where("severity_level = ?", *q.Severity)
		}
		return db
	}

	// Count before pagination so total_pages reflects the whole result set.
	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Prediction
	err := filtered().
		Order(orderClause(q.Sort)).
		Order("created_at DESC").
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func orderClause(s Sort) string {
	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}
	if s.Field == SortSeverity {
		return fmt.Sprintf("%s %s", severityRank, dir)
	}
	return fmt.Sprintf("%s %s", s.Field, dir)
}

func (s *GormStore) GetByID(ctx context.Context, id uint) (*models.Prediction, error) {
	var p models.Prediction
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *GormStore) Create(ctx context.Context, p *models.Prediction) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *GormStore) Update(ctx context.Context, p *models.Prediction) error {
	res := s.db.WithContext(ctx).Save(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Prediction{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type GormUserStore struct {
	db *gorm.DB
}

func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *GormUserStore) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *GormUserStore) Create(ctx context.Context, u *models.User) error {
	return s.db.WithContext(ctx).Create(u).Error
}
