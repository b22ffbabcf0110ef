package user

type UpdateProfileRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=2"`
	Address *string `json:"address"`
	Phone   *string `json:"phone" binding:"omitempty,min=6"`
	Image   *string `json:"image" binding:"omitempty,url"`
}

type UserResponse struct {
	ID        int64  `json:"id"`
	UUID      string `json:"uuid"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Image     string `json:"image,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// UserOption dipakai untuk dropdown penugasan task di sisi admin
type UserOption struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
