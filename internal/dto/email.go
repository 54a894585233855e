package dto

type RequestEmail struct {
	Email string `json:"email"`
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

type PasswordReset struct {
	NewPassword string `json:"new_password"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
