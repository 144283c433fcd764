package model

import "io"

// SignUpParams is the registration payload.
type SignUpParams struct {
	Email                string `json:"email" validate:"required,max=254,email"`
	Username             string `json:"username" validate:"required,min=4,max=20"`
	PhoneNumber          string `json:"phone_number" validate:"omitempty,max=17,phone"`
	Password             string `json:"password" validate:"required,min=8,max=64"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,min=8,max=64"`
	FirstName            string `json:"first_name" validate:"required,min=2,max=40"`
	LastName             string `json:"last_name" validate:"required,min=2,max=40"`
}

// LoginParams is the login payload.
type LoginParams struct {
	Email    string `json:"email" validate:"required,max=254,email"`
	Password string `json:"password" validate:"required,min=8,max=64"`
}

// VerifyParams is the email verification payload.
type VerifyParams struct {
	Token string `json:"token" validate:"required"`
}

// Upload is a client supplied file.
type Upload struct {
	ContentType string
	Size        int64
	Body        io.Reader
}
