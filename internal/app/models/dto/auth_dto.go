package dto

// RegisterRequest is the body of an account registration call
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	RoleType  string `json:"roleType" binding:"omitempty,oneof=STUDENT INSTRUCTOR"`
}

// LoginRequest is the body of a login call
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is the serialized view of an account
type UserResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	RoleType  string `json:"roleType"`
}

// AuthResponse carries the signed access token and its account
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
