package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/markethub/backend/internal/domain/earnings"
	"github.com/shopspring/decimal"
)

// SellerEarningsModel is the persistence model for accumulated seller proceeds.
// Balances are only ever incremented by the settlement pipeline.
type SellerEarningsModel struct {
	SellerID       uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TotalEarnings  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnpaidEarnings decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SellerEarningsModel) TableName() string {
	return "seller_earnings"
}

// ToDomain converts the persistence model to a domain SellerEarnings entity.
func (m *SellerEarningsModel) ToDomain() *earnings.SellerEarnings {
	return &earnings.SellerEarnings{
		SellerID:       m.SellerID,
		TotalEarnings:  m.TotalEarnings,
		UnpaidEarnings: m.UnpaidEarnings,
		UpdatedAt:      m.UpdatedAt,
	}
}

// PartnerModel is the persistence model for referring partners.
type PartnerModel struct {
	BaseModel
	ShortCode string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name      string `gorm:"type:varchar(200);not null"`
	Email     string `gorm:"type:varchar(320);not null"`
}

// TableName returns the table name for GORM
func (PartnerModel) TableName() string {
	return "partners"
}

// ToDomain converts the persistence model to a domain Partner entity.
func (m *PartnerModel) ToDomain() *earnings.Partner {
	return &earnings.Partner{
		BaseEntity: m.BaseModel.ToDomain(),
		ShortCode:  m.ShortCode,
		Name:       m.Name,
		Email:      m.Email,
	}
}

// FromDomain populates the persistence model from a domain Partner entity.
func (m *PartnerModel) FromDomain(p *earnings.Partner) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.ShortCode = p.ShortCode
	m.Name = p.Name
	m.Email = p.Email
}

// AttributedSaleModel is the persistence model for referral attributions.
type AttributedSaleModel struct {
	BaseModel
	PartnerID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleAmount       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CommissionRate   decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	CommissionAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (AttributedSaleModel) TableName() string {
	return "attributed_sales"
}

// ToDomain converts the persistence model to a domain AttributedSale entity.
func (m *AttributedSaleModel) ToDomain() *earnings.AttributedSale {
	return &earnings.AttributedSale{
		BaseEntity:       m.BaseModel.ToDomain(),
		PartnerID:        m.PartnerID,
		OrderID:          m.OrderID,
		SaleAmount:       m.SaleAmount,
		CommissionRate:   m.CommissionRate,
		CommissionAmount: m.CommissionAmount,
	}
}

// FromDomain populates the persistence model from a domain AttributedSale entity.
func (m *AttributedSaleModel) FromDomain(s *earnings.AttributedSale) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.PartnerID = s.PartnerID
	m.OrderID = s.OrderID
	m.SaleAmount = s.SaleAmount
	m.CommissionRate = s.CommissionRate
	m.CommissionAmount = s.CommissionAmount
}

// AttributedSaleModelFromDomain creates a new persistence model from a domain AttributedSale.
func AttributedSaleModelFromDomain(s *earnings.AttributedSale) *AttributedSaleModel {
	m := &AttributedSaleModel{}
	m.FromDomain(s)
	return m
}

// PartnerEarningsModel accumulates commission balances per partner.
type PartnerEarningsModel struct {
	PartnerID      uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TotalEarnings  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnpaidEarnings decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PartnerEarningsModel) TableName() string {
	return "partner_earnings"
}
