package models

import "time"

type Event struct {
	ID               uint      `gorm:"column:id;primaryKey" json:"id"`
	Title            string    `gorm:"column:title" json:"title"`
	Description      string    `gorm:"column:description" json:"description"`
	Datetime         time.Time `gorm:"column:datetime" json:"datetime"`
	Location         string    `gorm:"column:location" json:"location"`
	RegistrationLink string    `gorm:"column:registration_link" json:"registration_link,omitempty"`
	CreatedAt        time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Event) TableName() string { return "events" }
