package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type User struct {
	BaseUUIDModel
	Username     string     `gorm:"type:text;not null;uniqueIndex" json:"username"`
	DisplayName  string     `gorm:"type:text"                      json:"displayName"`
	IsSuperAdmin bool       `gorm:"type:bool;default:false;index"  json:"isSuperAdmin"`
	IsActive     bool       `gorm:"type:bool;default:true"         json:"isActive"`
	LastLoginAt  *time.Time `gorm:"type:timestamp"                 json:"lastLoginAt,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.Username = strings.TrimSpace(u.Username)
	if u.Username == "" {
		return gorm.ErrInvalidValue
	}

	if u.DisplayName == "" {
		u.DisplayName = u.Username
	}

	return u.BaseUUIDModel.BeforeCreate(tx)
}

type CreateUserRequest struct {
	Username     string `json:"username"`
	DisplayName  string `json:"displayName"`
	IsSuperAdmin bool   `json:"isSuperAdmin"`
}

// UserProfile represents public user profile information
type UserProfile struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	DisplayName  string     `json:"displayName"`
	IsSuperAdmin bool       `json:"isSuperAdmin"`
	IsActive     bool       `json:"isActive"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

func (u *User) ToProfile() UserProfile {
	return UserProfile{
		ID:           u.ID.String(),
		Username:     u.Username,
		DisplayName:  u.DisplayName,
		IsSuperAdmin: u.IsSuperAdmin,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		LastLoginAt:  u.LastLoginAt,
	}
}
