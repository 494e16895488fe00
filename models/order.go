package models

import "time"

// Order records a purchase of a project by a user. Amount is the price at
// the time the order row was written.
type Order struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint      `json:"userId" gorm:"not null;index"`
	ProjectID uint      `json:"projectId" gorm:"not null;index"`
	Amount    float64   `json:"amount" gorm:"not null"`
	OrderedAt time.Time `json:"orderedAt" gorm:"not null"`
	Completed bool      `json:"completed" gorm:"not null;default:false"`

	User        *User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Project     *Project     `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	Transaction *Transaction `json:"transaction,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}
