package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// PointsMetadata is a small key-value bag stored as JSONB on a points transaction.
type PointsMetadata map[string]string

// Value implements driver.Valuer for JSONB storage
func (p PointsMetadata) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSONB reads
func (p *PointsMetadata) Scan(value interface{}) error {
	if value == nil {
		*p = PointsMetadata{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan PointsMetadata: unsupported type")
	}

	if len(bytes) == 0 {
		*p = PointsMetadata{}
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// PointsTransactionModel is the persistence model for the append-only points ledger.
type PointsTransactionModel struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;index"`
	Points     int64          `gorm:"not null"`
	ReasonCode string         `gorm:"type:varchar(50);not null;index"`
	Metadata   PointsMetadata `gorm:"type:jsonb;default:'{}'"`
	CreatedAt  time.Time      `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PointsTransactionModel) TableName() string {
	return "points_transactions"
}
