package models

import (
	"time"

	"github.com/lib/pq"
)

type Researcher struct {
	ID           uint           `gorm:"column:id;primaryKey" json:"id"`
	Name         string         `gorm:"column:name" json:"name"`
	Title        string         `gorm:"column:title" json:"title"`
	Bio          string         `gorm:"column:bio" json:"bio"`
	Expertise    pq.StringArray `gorm:"column:expertise;type:text[]" json:"expertise"`
	Institution  string         `gorm:"column:institution" json:"institution"`
	ProfileImage string         `gorm:"column:profile_image" json:"profile_image"`
	Publications int            `gorm:"column:publications;default:0" json:"publications"`
	Email        string         `gorm:"column:email" json:"email,omitempty"`
	CreatedAt    time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at" json:"updated_at"`
}

func (Researcher) TableName() string { return "researchers" }
