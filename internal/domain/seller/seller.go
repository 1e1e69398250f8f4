package seller

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/markethub/backend/internal/domain/shared"
)

// Seller is the platform's record of a selling account. The settlement
// pipeline touches it in two places: subscription-renewal callbacks move
// PlanExpiresAt forward, and the verified flag gates the seller points
// multiplier.
type Seller struct {
	shared.BaseEntity
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Verified      bool       `json:"verified"`
	PlanCode      string     `json:"plan_code"`
	PlanExpiresAt *time.Time `json:"plan_expires_at,omitempty"`
}

// RenewPlan extends the seller's plan expiry by the given number of months.
// An expired or absent plan renews from now, an active one from its current
// expiry.
func (s *Seller) RenewPlan(planCode string, months int) error {
	if planCode == "" {
		return shared.NewDomainError("INVALID_PLAN", "Plan code cannot be empty")
	}
	if months <= 0 {
		return shared.NewDomainError("INVALID_PLAN", "Renewal months must be positive")
	}

	base := time.Now()
	if s.PlanExpiresAt != nil && s.PlanExpiresAt.After(base) {
		base = *s.PlanExpiresAt
	}
	expires := base.AddDate(0, months, 0)

	s.PlanCode = planCode
	s.PlanExpiresAt = &expires
	s.UpdatedAt = time.Now()
	return nil
}

// SellerRepository defines persistence operations for sellers
type SellerRepository interface {
	// FindByID retrieves a seller, nil if not found
	FindByID(ctx context.Context, id uuid.UUID) (*Seller, error)
	// Save persists seller changes
	Save(ctx context.Context, s *Seller) error
	// IsVerified reports whether the seller is verified, false for unknown sellers
	IsVerified(ctx context.Context, id uuid.UUID) (bool, error)
}
