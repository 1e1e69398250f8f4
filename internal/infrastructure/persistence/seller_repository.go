package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/markethub/backend/internal/domain/seller"
	"github.com/markethub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSellerRepository implements seller.SellerRepository using GORM
type GormSellerRepository struct {
	db *gorm.DB
}

// NewGormSellerRepository creates a new GORM-based seller repository
func NewGormSellerRepository(db *gorm.DB) *GormSellerRepository {
	return &GormSellerRepository{db: db}
}

// FindByID retrieves a seller by ID, nil if not found
func (r *GormSellerRepository) FindByID(ctx context.Context, id uuid.UUID) (*seller.Seller, error) {
	var model models.SellerModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save persists seller changes
func (r *GormSellerRepository) Save(ctx context.Context, s *seller.Seller) error {
	model := models.SellerModelFromDomain(s)
	return r.db.WithContext(ctx).Save(model).Error
}

// IsVerified reports whether the seller is verified, false for unknown sellers
func (r *GormSellerRepository) IsVerified(ctx context.Context, id uuid.UUID) (bool, error) {
	var verified bool
	err := r.db.WithContext(ctx).
		Model(&models.SellerModel{}).
		Where("id = ?", id).
		Select("verified").
		Scan(&verified).Error
	if err != nil {
		return false, err
	}
	return verified, nil
}

// Ensure GormSellerRepository implements SellerRepository
var _ seller.SellerRepository = (*GormSellerRepository)(nil)
