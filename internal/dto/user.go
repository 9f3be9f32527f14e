package dto

import "github.com/tkamdem/stablex/internal/domain"

type UserDTO struct {
	ID        int    `json:"id"`
	UID       string `json:"identifiant_unique"`
	Name      string `json:"nom"`
	Phone     string `json:"telephone"`
	Email     string `json:"email"`
	Country   string `json:"pays"`
	IsAdmin   bool   `json:"est_admin"`
	IsActive  bool   `json:"est_actif"`
	CreatedAt string `json:"date_inscription"`
}

func NewUserDTO(user *domain.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		UID:       user.UID,
		Name:      user.Name,
		Phone:     user.Phone,
		Email:     user.Email,
		Country:   user.Country,
		IsAdmin:   user.IsAdmin,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func NewUserListDTO(users []domain.User) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, NewUserDTO(&users[i]))
	}
	return out
}

type ToggleAdminResponseDTO struct {
	Message string `json:"msg"`
	IsAdmin bool   `json:"est_admin"`
}

type BalanceResponseDTO struct {
	BalanceUSDT string `json:"balance_usdt"`
}
