package models

import (
	"time"

	"gorm.io/datatypes"
)

// ImportLog is an audit record of one CSV import attempt, committed after the
// import transaction finishes (successfully or not).
type ImportLog struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Dealer          string         `gorm:"size:100" json:"dealer"`
	Filename        string         `gorm:"size:255" json:"filename"`
	Encoding        string         `gorm:"size:32" json:"encoding"`
	ResolvedColumns datatypes.JSON `json:"resolved_columns"`
	RowsProcessed   int            `json:"rows_processed"`
	RowsAdded       int            `json:"rows_added"`
	RowsUpdated     int            `json:"rows_updated"`
	Success         bool           `json:"success"`
	Message         string         `gorm:"type:text" json:"message"`
	CreatedAt       time.Time      `json:"created_at"`
}

func (ImportLog) TableName() string { return "import_logs" }
