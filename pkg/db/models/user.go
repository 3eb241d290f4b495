package models

import (
	"time"

	"github.com/dmwangi/sokoni-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the canonical account entity. Vendors and admins are users with an
// elevated role; ban fields move together (banned=false means both are null).
type User struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	FirebaseUID string         `gorm:"column:firebase_uid;type:text;not null;uniqueIndex:users_firebase_uid_key"`
	Email       string         `gorm:"column:email;type:text;not null;uniqueIndex:users_email_key"`
	DisplayName string         `gorm:"column:display_name;not null"`
	PhotoURL    *string        `gorm:"column:photo_url"`
	Role        enums.UserRole `gorm:"column:role;type:text;not null;default:user"`
	Banned      bool           `gorm:"column:banned;not null;default:false"`
	BanReason   *string        `gorm:"column:ban_reason"`
	BanDate     *time.Time     `gorm:"column:ban_date"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
