package dto

// Field names follow the wire contract the mobile clients already speak.

type RegisterRequestDTO struct {
	Name     string `json:"nom" validate:"required,min=2,max=100"`
	Phone    string `json:"telephone" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Country  string `json:"pays" validate:"required"`
	Password string `json:"mot_de_passe" validate:"required,min=8"`
}

type LoginRequestDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"mot_de_passe" validate:"required"`
}

type AuthResponseDTO struct {
	AccessToken string  `json:"access_token"`
	User        UserDTO `json:"user"`
}
