package leave

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

const (
	DefaultApproveComment = "Leave Granted"
	DefaultRejectComment  = "Leave Rejected"
)

type LeaveRequest struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	UUID         uuid.UUID `gorm:"type:uuid;uniqueIndex;default:gen_random_uuid()"`
	UserID       int64     `gorm:"index"`
	Date         time.Time `gorm:"type:date"`
	Reason       string
	Status       string `gorm:"default:PENDING"`
	AdminComment string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}
