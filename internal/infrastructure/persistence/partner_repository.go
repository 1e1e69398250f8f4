package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/markethub/backend/internal/domain/earnings"
	"github.com/markethub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPartnerRepository implements earnings.PartnerRepository using GORM
type GormPartnerRepository struct {
	db *gorm.DB
}

// NewGormPartnerRepository creates a new GORM-based partner repository
func NewGormPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

// FindByShortCode resolves a referral code to a partner, nil if unknown
func (r *GormPartnerRepository) FindByShortCode(ctx context.Context, shortCode string) (*earnings.Partner, error) {
	var model models.PartnerModel
	err := r.db.WithContext(ctx).Where("short_code = ?", shortCode).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// RecordAttributedSale persists the attribution and increments the partner's
// earnings balances in one transaction.
func (r *GormPartnerRepository) RecordAttributedSale(ctx context.Context, sale *earnings.AttributedSale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		saleModel := models.AttributedSaleModelFromDomain(sale)
		if err := tx.Create(saleModel).Error; err != nil {
			return err
		}

		now := time.Now()
		row := models.PartnerEarningsModel{
			PartnerID:      sale.PartnerID,
			TotalEarnings:  sale.CommissionAmount,
			UnpaidEarnings: sale.CommissionAmount,
			UpdatedAt:      now,
		}

		return tx.
			Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "partner_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"total_earnings":  gorm.Expr("partner_earnings.total_earnings + ?", sale.CommissionAmount),
					"unpaid_earnings": gorm.Expr("partner_earnings.unpaid_earnings + ?", sale.CommissionAmount),
					"updated_at":      now,
				}),
			}).
			Create(&row).Error
	})
}

// Ensure GormPartnerRepository implements PartnerRepository
var _ earnings.PartnerRepository = (*GormPartnerRepository)(nil)
