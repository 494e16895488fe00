package models

import "time"

// Transaction is the payment record behind an order. The unique index on
// OrderID keeps it one-to-one.
type Transaction struct {
	ID         uint              `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID    uint              `json:"orderId" gorm:"not null;uniqueIndex"`
	ExternalID string            `json:"externalId" gorm:"type:text"`
	CreatedAt  time.Time         `json:"createdAt"`
	Method     PaymentMethod     `json:"method" gorm:"type:text;not null"`
	Amount     float64           `json:"amount" gorm:"not null"`
	Status     TransactionStatus `json:"status" gorm:"type:text;not null;default:'pending'"`

	Order *Order `json:"order,omitempty" gorm:"foreignKey:OrderID"`
}
