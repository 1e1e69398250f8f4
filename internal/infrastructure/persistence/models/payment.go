package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/markethub/backend/internal/domain/settlement"
	"github.com/shopspring/decimal"
)

// PaymentModel is the persistence model for settled payments.
// The unique index on Reference is what makes settlement idempotent:
// inserting a second payment with the same gateway reference fails at
// the database level no matter how the duplicate arrived.
type PaymentModel struct {
	BaseModel
	OrderID         *uuid.UUID               `gorm:"type:uuid;index"`
	Reference       string                   `gorm:"type:varchar(100);not null;uniqueIndex"`
	Amount          decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	Channel         string                   `gorm:"type:varchar(50)"`
	Status          settlement.PaymentStatus `gorm:"type:varchar(20);not null;default:'COMPLETED'"`
	GatewayResponse string                   `gorm:"type:text"`
	PaymentDate     time.Time                `gorm:"not null"`
	Partial         bool                     `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment entity.
func (m *PaymentModel) ToDomain() *settlement.Payment {
	return &settlement.Payment{
		BaseEntity:      m.BaseModel.ToDomain(),
		OrderID:         m.OrderID,
		Reference:       m.Reference,
		Amount:          m.Amount,
		Channel:         m.Channel,
		Status:          m.Status,
		GatewayResponse: m.GatewayResponse,
		PaymentDate:     m.PaymentDate,
		Partial:         m.Partial,
	}
}

// FromDomain populates the persistence model from a domain Payment entity.
func (m *PaymentModel) FromDomain(p *settlement.Payment) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.OrderID = p.OrderID
	m.Reference = p.Reference
	m.Amount = p.Amount
	m.Channel = p.Channel
	m.Status = p.Status
	m.GatewayResponse = p.GatewayResponse
	m.PaymentDate = p.PaymentDate
	m.Partial = p.Partial
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment.
func PaymentModelFromDomain(p *settlement.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}
