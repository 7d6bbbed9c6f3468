package dto

type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest fields are checked by the service so that missing fields
// get the app's own message.
type SignupRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Username        string `json:"username"`
	Phone           string `json:"phone"`
	Location        string `json:"location"`
}

type CaptchaRequest struct {
	Token  string `json:"token" binding:"required"`
	Action string `json:"action" binding:"required"`
}

type AssessmentResult struct {
	Score   float32  `json:"score"`
	Action  string   `json:"action"`
	Reasons []string `json:"reasons"`
}

type Navigation struct {
	Route string `json:"route"` // "Admin" or "Main"
	Menu  Menu   `json:"menu"`
}

type Menu struct {
	Service       bool `json:"service"`
	UpdateAccount bool `json:"updateAccount"`
}

type SigninResponse struct {
	Message      string     `json:"message"`
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	User         any        `json:"user"`
	Navigation   Navigation `json:"navigation"`
}
