package models

import (
	"time"
)

// Role is the closed set of actor roles known to the workflow.
type Role string

const (
	RoleStudent             Role = "student"
	RoleReviewer            Role = "reviewer"
	RoleFundsOfficer        Role = "funds-officer"
	RoleDisbursementOfficer Role = "disbursement-officer"
	RoleSuperAdmin          Role = "super-admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleReviewer, RoleFundsOfficer, RoleDisbursementOfficer, RoleSuperAdmin:
		return true
	}
	return false
}

type User struct {
	UserID      int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	FirstName   string     `gorm:"column:first_name" json:"first_name"`
	LastName    string     `gorm:"column:last_name" json:"last_name"`
	Email       string     `gorm:"column:email;unique" json:"email"`
	Password    string     `gorm:"column:password" json:"-"`
	Role        Role       `gorm:"column:role" json:"role"`
	Institution *string    `gorm:"column:institution" json:"institution,omitempty"`
	Tel         *string    `gorm:"column:tel" json:"tel,omitempty"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}
