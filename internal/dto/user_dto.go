package dto

// CreateUserInput carries the sign-up form fields into the user controller.
type CreateUserInput struct {
	Username       string `validate:"required,max=64"`
	Password       string `validate:"required"`
	SecretQuestion string `validate:"required"`
	SecretAnswer   string `validate:"required"`
}

// UserIdentity is the minimal identity handed to the GUI after sign-in for
// session bootstrap and audit attribution.
type UserIdentity struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}
