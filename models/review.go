package models

import "time"

// Review is a buyer's rating of a project. Ratings are clamped to [0,5] by a
// check constraint; uniqueness per (user, project) is enforced at the service
// layer, not the schema.
type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	ProjectID uint      `json:"projectId" gorm:"not null;index"`
	UserID    uint      `json:"userId" gorm:"not null;index"`
	Comment   string    `json:"comment" gorm:"type:text"`
	Rating    int       `json:"rating" gorm:"not null;check:rating >= 0 AND rating <= 5"`
	CreatedAt time.Time `json:"createdAt"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
