package models

import "time"

// Project is a listing of source code for sale.
type Project struct {
	ID          uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string     `json:"name" gorm:"type:text;not null"`
	Category    Category   `json:"category" gorm:"type:text;not null"`
	Description string     `json:"description" gorm:"type:text"`
	Price       float64    `json:"price" gorm:"not null"`
	FileURL     string     `json:"fileUrl" gorm:"type:text"`
	VideoURL    *string    `json:"videoUrl,omitempty" gorm:"type:text"`
	UploadedAt  time.Time  `json:"uploadedAt" gorm:"not null"`
	Permission  Permission `json:"permission" gorm:"type:text;not null;default:'pending'"`
	Images      []string   `json:"images" gorm:"type:jsonb;serializer:json"`
	Languages   []string   `json:"languages" gorm:"type:jsonb;serializer:json"`
	Features    []string   `json:"features" gorm:"type:jsonb;serializer:json"`

	OwnerID uint  `json:"ownerId" gorm:"not null;index"`
	Owner   *User `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`

	Reviews []Review `json:"reviews,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Orders  []Order  `json:"orders,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`

	Buyers       []User `json:"buyers,omitempty" gorm:"many2many:bought_projects"`
	WishlistedBy []User `json:"-" gorm:"many2many:wishlist_projects"`
	CartedBy     []User `json:"-" gorm:"many2many:cart_projects"`
}

// Rating is the mean of the loaded reviews rounded to one decimal, 0 when
// the project has none. Callers must have preloaded Reviews.
func (p Project) Rating() float64 {
	return AverageRating(p.Reviews)
}
