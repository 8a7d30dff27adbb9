package models

import "time"

type News struct {
	ID            uint      `gorm:"column:id;primaryKey" json:"id"`
	Headline      string    `gorm:"column:headline" json:"headline"`
	Excerpt       string    `gorm:"column:excerpt" json:"excerpt"`
	Content       string    `gorm:"column:content" json:"content"`
	PublishDate   time.Time `gorm:"column:publish_date" json:"publish_date"`
	FeaturedImage string    `gorm:"column:featured_image" json:"featured_image"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (News) TableName() string { return "news" }
