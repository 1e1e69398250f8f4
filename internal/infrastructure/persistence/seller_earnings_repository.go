package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/markethub/backend/internal/domain/earnings"
	"github.com/markethub/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSellerEarningsRepository implements earnings.SellerEarningsRepository using GORM
type GormSellerEarningsRepository struct {
	db *gorm.DB
}

// NewGormSellerEarningsRepository creates a new GORM-based seller earnings repository
func NewGormSellerEarningsRepository(db *gorm.DB) *GormSellerEarningsRepository {
	return &GormSellerEarningsRepository{db: db}
}

// Accrue atomically increments both earnings balances for a seller.
// The upsert keeps the increment atomic under concurrent settlements for
// the same seller.
func (r *GormSellerEarningsRepository) Accrue(ctx context.Context, sellerID uuid.UUID, amount decimal.Decimal) error {
	now := time.Now()
	row := models.SellerEarningsModel{
		SellerID:       sellerID,
		TotalEarnings:  amount,
		UnpaidEarnings: amount,
		UpdatedAt:      now,
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "seller_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_earnings":  gorm.Expr("seller_earnings.total_earnings + ?", amount),
				"unpaid_earnings": gorm.Expr("seller_earnings.unpaid_earnings + ?", amount),
				"updated_at":      now,
			}),
		}).
		Create(&row).Error
}

// FindBySellerID retrieves the earnings row, nil if none accrued yet
func (r *GormSellerEarningsRepository) FindBySellerID(ctx context.Context, sellerID uuid.UUID) (*earnings.SellerEarnings, error) {
	var model models.SellerEarningsModel
	err := r.db.WithContext(ctx).Where("seller_id = ?", sellerID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Ensure GormSellerEarningsRepository implements SellerEarningsRepository
var _ earnings.SellerEarningsRepository = (*GormSellerEarningsRepository)(nil)
