package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/markethub/backend/internal/domain/loyalty"
	"github.com/markethub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPointsLedger implements loyalty.PointsLedger as an append-only
// transaction log. Balances are derived, never stored.
type GormPointsLedger struct {
	db *gorm.DB
}

// NewGormPointsLedger creates a new GORM-based points ledger
func NewGormPointsLedger(db *gorm.DB) *GormPointsLedger {
	return &GormPointsLedger{db: db}
}

// Award appends a points transaction for a user
func (l *GormPointsLedger) Award(ctx context.Context, userID uuid.UUID, points int64, reasonCode string, metadata map[string]string) error {
	row := models.PointsTransactionModel{
		ID:         uuid.New(),
		UserID:     userID,
		Points:     points,
		ReasonCode: reasonCode,
		Metadata:   models.PointsMetadata(metadata),
		CreatedAt:  time.Now(),
	}
	return l.db.WithContext(ctx).Create(&row).Error
}

// Balance sums the ledger for a user
func (l *GormPointsLedger) Balance(ctx context.Context, userID uuid.UUID) (int64, error) {
	var balance int64
	err := l.db.WithContext(ctx).
		Model(&models.PointsTransactionModel{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&balance).Error
	return balance, err
}

// Ensure GormPointsLedger implements PointsLedger
var _ loyalty.PointsLedger = (*GormPointsLedger)(nil)
