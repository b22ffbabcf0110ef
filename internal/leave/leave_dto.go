package leave

type CreateLeaveRequest struct {
	Date   string `json:"date" binding:"required"`
	Reason string `json:"reason" binding:"required,min=3"`
}

type DecideLeaveRequest struct {
	AdminComment string `json:"adminComment"`
}

type LeaveResponse struct {
	ID           int64  `json:"id"`
	UUID         string `json:"uuid"`
	UserID       int64  `json:"userId"`
	Date         string `json:"date"`
	Reason       string `json:"reason"`
	Status       string `json:"status"`
	AdminComment string `json:"adminComment,omitempty"`
	CreatedAt    string `json:"createdAt"`
}

// DecisionResult membawa pesan keputusan karena reject pada leave yang sudah
// diputuskan bukan error, melainkan no-op yang tetap sukses.
type DecisionResult struct {
	Leave   LeaveResponse
	Message string
}
