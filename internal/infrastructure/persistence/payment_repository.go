package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/markethub/backend/internal/domain/settlement"
	"github.com/markethub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPaymentRepository implements settlement.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GORM-based payment repository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// ExistsByReference reports whether a payment with the gateway reference exists
func (r *GormPaymentRepository) ExistsByReference(ctx context.Context, reference string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Where("reference = ?", reference).
		Count(&count).Error
	return count > 0, err
}

// FindByReference retrieves a payment by gateway reference, nil if not found
func (r *GormPaymentRepository) FindByReference(ctx context.Context, reference string) (*settlement.Payment, error) {
	var model models.PaymentModel
	err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrderID retrieves all payments recorded for an order
func (r *GormPaymentRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]*settlement.Payment, error) {
	var rows []models.PaymentModel
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("payment_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	payments := make([]*settlement.Payment, len(rows))
	for i := range rows {
		payments[i] = rows[i].ToDomain()
	}
	return payments, nil
}

// Save persists a payment record
func (r *GormPaymentRepository) Save(ctx context.Context, payment *settlement.Payment) error {
	model := models.PaymentModelFromDomain(payment)
	err := r.db.WithContext(ctx).Create(model).Error
	if isDuplicateKey(err) {
		return settlement.ErrDuplicateReference
	}
	return err
}

// Ensure GormPaymentRepository implements PaymentRepository
var _ settlement.PaymentRepository = (*GormPaymentRepository)(nil)
