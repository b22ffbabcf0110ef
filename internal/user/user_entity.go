package user

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	UUID      uuid.UUID `gorm:"type:uuid;uniqueIndex;default:gen_random_uuid()"`
	Name      string
	Email     string `gorm:"uniqueIndex:uq_users_email"`
	Password  string
	Role      string `gorm:"default:USER"`
	Address   string
	Phone     string
	Image     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
