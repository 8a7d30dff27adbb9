package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Severity classifies drought prediction intensity. The four values are
// ordinal: low < moderate < high < extreme.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
	SeverityExtreme  Severity = "extreme"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityModerate, SeverityHigh, SeverityExtreme:
		return true
	}
	return false
}

// Ordinal returns the sort rank of the severity. Unknown values rank below
// low so they never outrank a valid record.
func (s Severity) Ordinal() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityModerate:
		return 2
	case SeverityHigh:
		return 3
	case SeverityExtreme:
		return 4
	}
	return 0
}

// JSONB stores an uninterpreted JSON document in a postgres jsonb column.
type JSONB json.RawMessage

func (j JSONB) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSONB) Scan(src interface{}) error {
	if src == nil {
		*j = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		*j = append((*j)[0:0], v...)
	case string:
		*j = JSONB(v)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
	return nil
}

func (j JSONB) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSONB) UnmarshalJSON(data []byte) error {
	*j = append((*j)[0:0], data...)
	return nil
}

type Prediction struct {
	ID             uint           `gorm:"column:id;primaryKey" json:"id"`
	Title          string         `gorm:"column:title" json:"title"`
	Content        string         `gorm:"column:content" json:"content"`
	PredictionDate time.Time      `gorm:"column:prediction_date" json:"prediction_date"`
	SeverityLevel  Severity       `gorm:"column:severity_level" json:"severity_level"`
	GeospatialData JSONB          `gorm:"column:geospatial_data;type:jsonb" json:"geospatial_data,omitempty"`
	Attachments    pq.StringArray `gorm:"column:attachments;type:text[]" json:"attachments"`
	CreatedAt      time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at" json:"updated_at"`
}

func (Prediction) TableName() string { return "predictions" }
