package model

import "time"

type User struct {
	UserID    string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Phone     string    `json:"phone"`
	Location  string    `json:"location"`
	AvatarURL string    `json:"avatarUrl"`
	Role      string    `json:"role"`  // "user" or "admin"
	Level     int       `json:"level"` // 1 = basic, 2 = verified host
	CreatedAt time.Time `json:"createdAt"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u User) ToData() map[string]interface{} {
	return map[string]interface{}{
		"userid":    u.UserID,
		"username":  u.Username,
		"email":     u.Email,
		"password":  u.Password,
		"phone":     u.Phone,
		"location":  u.Location,
		"avatarUrl": u.AvatarURL,
		"role":      u.Role,
		"level":     u.Level,
		"createdAt": u.CreatedAt,
	}
}

func UserFromData(id string, data map[string]interface{}) User {
	return User{
		UserID:    id,
		Username:  getString(data, "username"),
		Email:     getString(data, "email"),
		Password:  getString(data, "password"),
		Phone:     getString(data, "phone"),
		Location:  getString(data, "location"),
		AvatarURL: getString(data, "avatarUrl"),
		Role:      getString(data, "role"),
		Level:     getInt(data, "level"),
		CreatedAt: getTime(data, "createdAt"),
	}
}
