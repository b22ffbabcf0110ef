package events

import "time"

const LeaveDecidedTopic = "attend.leave.decided.v1"

type LeaveDecidedEvent struct {
	EventType    string    `json:"event_type"`
	RequestID    string    `json:"request_id,omitempty"`
	LeaveID      int64     `json:"leave_id"`
	UserID       int64     `json:"user_id"`
	Date         string    `json:"date"`
	Status       string    `json:"status"`
	AdminComment string    `json:"admin_comment,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
