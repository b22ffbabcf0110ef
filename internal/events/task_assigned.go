package events

import "time"

const TaskAssignedTopic = "attend.task.assigned.v1"

type TaskAssignedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	TaskID     int64     `json:"task_id"`
	TaskCode   string    `json:"task_code"`
	UserID     int64     `json:"user_id"`
	Title      string    `json:"title"`
	DueDate    string    `json:"due_date"`
	OccurredAt time.Time `json:"occurred_at"`
}
