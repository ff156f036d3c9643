package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// KYC statuses. Trading requires "verified".
const (
	KycPending  = "pending"
	KycVerified = "verified"
	KycRejected = "rejected"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User belongs to exactly one tenant. Authentication happens upstream;
// this service only reads identity rows.
type User struct {
	UserID    uuid.UUID      `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	TenantID  uuid.UUID      `gorm:"column:tenant_id;type:uuid;not null;index;uniqueIndex:idx_users_tenant_email" json:"tenant_id"`
	Email     string         `gorm:"column:email;not null;uniqueIndex:idx_users_tenant_email" json:"email"`
	Phone     *string        `gorm:"column:phone" json:"phone"`
	FirstName string         `gorm:"column:first_name" json:"first_name"`
	LastName  string         `gorm:"column:last_name" json:"last_name"`
	Role      string         `gorm:"column:role;type:varchar(20);not null;default:user" json:"role"`
	KycStatus string         `gorm:"column:kyc_status;type:varchar(20);not null;default:pending" json:"kyc_status"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "Users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}
