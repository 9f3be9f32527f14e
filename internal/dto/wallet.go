package dto

import (
	"time"

	"github.com/tkamdem/stablex/internal/domain"
)

type WalletDTO struct {
	ID         int    `json:"id"`
	Network    string `json:"reseau"`
	Address    string `json:"adresse"`
	Country    string `json:"pays"`
	WalletType string `json:"type"`
	IsActive   bool   `json:"est_actif"`
	CreatedAt  string `json:"date_ajout"`
}

func NewWalletDTO(w *domain.AdminWallet) WalletDTO {
	return WalletDTO{
		ID:         w.ID,
		Network:    w.Network,
		Address:    w.Address,
		Country:    w.Country,
		WalletType: w.WalletType,
		IsActive:   w.IsActive,
		CreatedAt:  w.CreatedAt.Format(time.RFC3339),
	}
}

func NewWalletListDTO(wallets []domain.AdminWallet) []WalletDTO {
	out := make([]WalletDTO, 0, len(wallets))
	for i := range wallets {
		out = append(out, NewWalletDTO(&wallets[i]))
	}
	return out
}

type AddWalletRequestDTO struct {
	Network    string `json:"reseau" validate:"required"`
	Address    string `json:"adresse" validate:"required"`
	Country    string `json:"pays"`
	WalletType string `json:"type_portefeuille" validate:"required"`
}
