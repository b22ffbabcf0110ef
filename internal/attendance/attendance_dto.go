package attendance

type AttendanceResponse struct {
	ID        int64  `json:"id"`
	UUID      string `json:"uuid"`
	UserID    int64  `json:"userId"`
	Date      string `json:"date"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

type AbsenteeResponse struct {
	UserID int64  `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

type GradeResponse struct {
	UserID      int64   `json:"userId"`
	TotalDays   int     `json:"totalDays"`
	PresentDays int     `json:"presentDays"`
	Percentage  float64 `json:"percentage"`
	Grade       string  `json:"grade"`
}
