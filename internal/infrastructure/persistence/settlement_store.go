package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/markethub/backend/internal/domain/ordering"
	"github.com/markethub/backend/internal/domain/settlement"
	"github.com/markethub/backend/internal/domain/shared"
	"github.com/markethub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSettlementStore implements settlement.SettlementStore. It commits a
// settlement atomically: the payment insert, the order update and the outbox
// entries for downstream effects all land in one transaction, or none do.
//
// The payment is inserted first so the unique index on payments.reference
// rejects a duplicate before the order is touched.
type GormSettlementStore struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormSettlementStore creates a new settlement store
func NewGormSettlementStore(db *gorm.DB, outboxSaver shared.OutboxEventSaver) *GormSettlementStore {
	return &GormSettlementStore{db: db, outboxSaver: outboxSaver}
}

// Settle persists a settled payment together with the updated order state.
// Returns settlement.ErrDuplicateReference when the gateway reference was
// already settled, shared.ErrConcurrencyConflict when the order row changed
// underneath the caller.
func (s *GormSettlementStore) Settle(ctx context.Context, order *ordering.Order, payment *settlement.Payment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		paymentModel := models.PaymentModelFromDomain(payment)
		if err := tx.Create(paymentModel).Error; err != nil {
			if isDuplicateKey(err) {
				return settlement.ErrDuplicateReference
			}
			return fmt.Errorf("failed to insert payment: %w", err)
		}

		// ApplyPayment already bumped the in-memory version, so the row
		// must still carry the previous one.
		previousVersion := order.Version - 1
		result := tx.Model(&models.OrderModel{}).
			Where("id = ? AND version = ?", order.ID, previousVersion).
			Updates(map[string]interface{}{
				"amount_paid": order.AmountPaid,
				"balance_due": order.BalanceDue,
				"status":      order.Status,
				"version":     order.Version,
				"updated_at":  order.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		if s.outboxSaver != nil {
			events := order.GetDomainEvents()
			if len(events) > 0 {
				if err := s.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
					return fmt.Errorf("failed to save events to outbox: %w", err)
				}
			}
		}

		return nil
	})
}

// isDuplicateKey reports whether err is a unique constraint violation.
// GORM translates these to ErrDuplicatedKey when TranslateError is on;
// the pq check covers raw driver errors from paths that bypass GORM.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// Ensure GormSettlementStore implements SettlementStore
var _ settlement.SettlementStore = (*GormSettlementStore)(nil)
