package dto

type SearchEmailRequest struct {
	Email string `json:"email"`
}

type UpdateProfileRequest struct {
	Username string `json:"username" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Location string `json:"location" binding:"required"`
}

// AdminUserRequest creates or edits a user from the admin area. Password
// is optional on edit; an empty value keeps the current one.
type AdminUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Level    int    `json:"level" binding:"omitempty,oneof=1 2"`
}
