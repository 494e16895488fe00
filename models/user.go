package models

import "strings"

// User is a marketplace account. A nil PasswordHash marks an
// OAuth-provisioned account for which password login is impossible.
type User struct {
	ID             uint    `json:"id" gorm:"primaryKey;autoIncrement"`
	FirstName      string  `json:"firstName" gorm:"type:text;not null"`
	LastName       string  `json:"lastName" gorm:"type:text;not null"`
	Email          string  `json:"email" gorm:"type:text;not null;uniqueIndex"`
	PasswordHash   *string `json:"-" gorm:"type:text"`
	IsAdmin        bool    `json:"isAdmin" gorm:"not null;default:false"`
	Occupation     string  `json:"occupation" gorm:"type:text"`
	Company        string  `json:"company" gorm:"type:text"`
	ProfilePicture string  `json:"profilePicture" gorm:"type:text"`

	OwnedProjects []Project `json:"ownedProjects,omitempty" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Reviews       []Review  `json:"reviews,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Orders        []Order   `json:"orders,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	BoughtProjects     []Project `json:"boughtProjects,omitempty" gorm:"many2many:bought_projects"`
	WishlistedProjects []Project `json:"wishlistedProjects,omitempty" gorm:"many2many:wishlist_projects"`
	CartedProjects     []Project `json:"cartedProjects,omitempty" gorm:"many2many:cart_projects"`
}

// FullName joins the name parts, tolerating either being empty.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
