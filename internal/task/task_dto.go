package task

type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required,min=3"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate" binding:"required"`
	UserID      int64  `json:"userId" binding:"required,gt=0"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=3"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
	UserID      *int64  `json:"userId" binding:"omitempty,gt=0"`
}

type SubmitTaskRequest struct {
	SubmitComment string `json:"submitComment" binding:"required,min=1"`
}

type DecideTaskRequest struct {
	AdminComment string `json:"adminComment"`
}

type TaskResponse struct {
	ID            int64  `json:"id"`
	UUID          string `json:"uuid"`
	Code          string `json:"code"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	DueDate       string `json:"dueDate"`
	Status        string `json:"status"`
	AdminComment  string `json:"adminComment,omitempty"`
	SubmitComment string `json:"submitComment,omitempty"`
	SubmittedAt   string `json:"submittedAt,omitempty"`
	UserID        int64  `json:"userId"`
	CreatedAt     string `json:"createdAt"`
}
