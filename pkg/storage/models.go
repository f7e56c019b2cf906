package storage

import (
	"time"
)

// LinkRecord maps a short code to the URL it redirects to.
type LinkRecord struct {
	ShortCode          string    `json:"short_code" db:"short_code" gorm:"column:short_code;primaryKey"`
	OriginalIdentifier string    `json:"original_identifier" db:"original_identifier" gorm:"column:original_identifier"`
	TargetURL          string    `json:"target_url" db:"target_url" gorm:"column:target_url;not null"`
	CreatedAt          time.Time `json:"created_at" db:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (LinkRecord) TableName() string {
	return "links"
}
