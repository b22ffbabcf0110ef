package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPresent = "PRESENT"
	StatusAbsent  = "ABSENT" // hanya untuk data lama, tidak pernah ditulis lagi
	StatusLeave   = "LEAVE"
)

type Attendance struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	UUID      uuid.UUID `gorm:"type:uuid;uniqueIndex;default:gen_random_uuid()"`
	UserID    int64     `gorm:"uniqueIndex:uq_attendances_user_date"`
	Date      time.Time `gorm:"type:date;uniqueIndex:uq_attendances_user_date"`
	Status    string    `gorm:"default:PRESENT"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
