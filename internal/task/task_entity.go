package task

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

type Task struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	UUID          uuid.UUID `gorm:"type:uuid;uniqueIndex;default:gen_random_uuid()"`
	Code          string    `gorm:"uniqueIndex:uq_tasks_code"`
	Title         string
	Description   string
	DueDate       time.Time `gorm:"type:date"`
	Status        string    `gorm:"default:PENDING"`
	AdminComment  string
	SubmitComment string
	SubmittedAt   *time.Time
	UserID        int64 `gorm:"index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
