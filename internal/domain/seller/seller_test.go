package seller

import (
	"testing"
	"time"

	"github.com/markethub/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeller_RenewPlan_FromNow(t *testing.T) {
	s := &Seller{BaseEntity: shared.NewBaseEntity(), Name: "Acme", Email: "acme@example.com"}

	require.NoError(t, s.RenewPlan("pro", 1))

	require.NotNil(t, s.PlanExpiresAt)
	assert.Equal(t, "pro", s.PlanCode)
	assert.WithinDuration(t, time.Now().AddDate(0, 1, 0), *s.PlanExpiresAt, time.Minute)
}

func TestSeller_RenewPlan_ExtendsActivePlan(t *testing.T) {
	current := time.Now().AddDate(0, 2, 0)
	s := &Seller{BaseEntity: shared.NewBaseEntity(), PlanCode: "pro", PlanExpiresAt: &current}

	require.NoError(t, s.RenewPlan("pro", 3))

	assert.WithinDuration(t, current.AddDate(0, 3, 0), *s.PlanExpiresAt, time.Minute)
}

func TestSeller_RenewPlan_ExpiredPlanRenewsFromNow(t *testing.T) {
	expired := time.Now().AddDate(0, -1, 0)
	s := &Seller{BaseEntity: shared.NewBaseEntity(), PlanCode: "basic", PlanExpiresAt: &expired}

	require.NoError(t, s.RenewPlan("pro", 1))

	assert.WithinDuration(t, time.Now().AddDate(0, 1, 0), *s.PlanExpiresAt, time.Minute)
}

func TestSeller_RenewPlan_Validation(t *testing.T) {
	s := &Seller{BaseEntity: shared.NewBaseEntity()}

	assert.Error(t, s.RenewPlan("", 1))
	assert.Error(t, s.RenewPlan("pro", 0))
	assert.Error(t, s.RenewPlan("pro", -2))
}
