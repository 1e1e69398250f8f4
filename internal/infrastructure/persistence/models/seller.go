package models

import (
	"time"

	"github.com/markethub/backend/internal/domain/seller"
)

// SellerModel is the persistence model for selling accounts.
type SellerModel struct {
	BaseModel
	Name          string `gorm:"type:varchar(200);not null"`
	Email         string `gorm:"type:varchar(320);not null"`
	Verified      bool   `gorm:"not null;default:false"`
	PlanCode      string `gorm:"type:varchar(50)"`
	PlanExpiresAt *time.Time
}

// TableName returns the table name for GORM
func (SellerModel) TableName() string {
	return "sellers"
}

// ToDomain converts the persistence model to a domain Seller entity.
func (m *SellerModel) ToDomain() *seller.Seller {
	return &seller.Seller{
		BaseEntity:    m.BaseModel.ToDomain(),
		Name:          m.Name,
		Email:         m.Email,
		Verified:      m.Verified,
		PlanCode:      m.PlanCode,
		PlanExpiresAt: m.PlanExpiresAt,
	}
}

// FromDomain populates the persistence model from a domain Seller entity.
func (m *SellerModel) FromDomain(s *seller.Seller) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.Name = s.Name
	m.Email = s.Email
	m.Verified = s.Verified
	m.PlanCode = s.PlanCode
	m.PlanExpiresAt = s.PlanExpiresAt
}

// SellerModelFromDomain creates a new persistence model from a domain Seller.
func SellerModelFromDomain(s *seller.Seller) *SellerModel {
	m := &SellerModel{}
	m.FromDomain(s)
	return m
}
