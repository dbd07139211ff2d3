package model

type Role string

const (
	RoleFarmer Role = "farmer"
	RoleBuyer  Role = "buyer"
)

func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleFarmer:
		return RoleFarmer, true
	case RoleBuyer:
		return RoleBuyer, true
	default:
		return "", false
	}
}

type User struct {
	ID          int     `json:"id"`
	Username    string  `json:"username"`
	Password    string  `json:"-"` // bcrypt hash, never serialized
	Role        Role    `json:"role"`
	FullName    string  `json:"fullName"`
	Email       string  `json:"email"`
	PhoneNumber *string `json:"phoneNumber"`
}
