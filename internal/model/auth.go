package model

// SigninRequest is shared by both account kinds.
type SigninRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResult is the canonical signup response shape for both kinds.
type AuthResult struct {
	Account interface{} `json:"account"`
	Token   string      `json:"token"`
}

// SigninResult is the canonical signin response shape for both kinds.
type SigninResult struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	Profile interface{} `json:"profile"`
}
