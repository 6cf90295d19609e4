package auth

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     string
}

type UserDTO struct {
	ID       uint64 `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type AuthDTO struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}
