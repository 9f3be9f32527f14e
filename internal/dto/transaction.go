package dto

import (
	"time"

	"github.com/tkamdem/stablex/internal/domain"
)

type BuyRequestDTO struct {
	FiatAmount    string `json:"montant_xaf" validate:"required"`
	Network       string `json:"reseau" validate:"required"`
	Operator      string `json:"operateur_mobile" validate:"required"`
	WalletAddress string `json:"adresse_wallet" validate:"required"`
}

type SellRequestDTO struct {
	StableAmount string `json:"montant_usdt" validate:"required"`
	Network      string `json:"reseau" validate:"required"`
	Operator     string `json:"operateur_mobile" validate:"required"`
	PayoutNumber string `json:"numero_mobile" validate:"required"`
}

type BuyResponseDTO struct {
	TransactionID  string `json:"transaction_id"`
	FiatAmount     string `json:"montant_xaf"`
	StableAmount   string `json:"montant_usdt"`
	MerchantNumber string `json:"numero_marchand"`
	USSDCode       string `json:"code_ussd"`
	Status         string `json:"statut"`
}

type SellResponseDTO struct {
	TransactionID string `json:"transaction_id"`
	StableAmount  string `json:"montant_usdt"`
	FiatAmount    string `json:"montant_xaf"`
	AdminAddress  string `json:"adresse_admin"`
	Status        string `json:"statut"`
}

type RejectRequestDTO struct {
	Reason string `json:"motif"`
}

type TransactionDTO struct {
	TransactionID  string `json:"transaction_id"`
	Direction      string `json:"type_transaction"`
	FiatAmount     string `json:"montant_xaf"`
	StableAmount   string `json:"montant_usdt"`
	AppliedRate    string `json:"taux_applique"`
	Network        string `json:"reseau"`
	Operator       string `json:"operateur_mobile"`
	WalletAddress  string `json:"adresse_wallet"`
	MerchantNumber string `json:"numero_marchand"`
	Status         string `json:"statut"`
	RejectReason   string `json:"motif_rejet,omitempty"`
	CreatedAt      string `json:"date_creation"`
	DecidedAt      string `json:"date_validation,omitempty"`
}

func NewTransactionDTO(tx *domain.Transaction) TransactionDTO {
	out := TransactionDTO{
		TransactionID:  tx.TxID,
		Direction:      tx.Direction,
		FiatAmount:     tx.FiatAmount.StringFixed(2),
		StableAmount:   tx.StableAmount.StringFixed(2),
		AppliedRate:    tx.AppliedRate.String(),
		Network:        tx.Network,
		Operator:       tx.Operator,
		WalletAddress:  tx.WalletAddress,
		MerchantNumber: tx.MerchantNumber,
		Status:         tx.Status,
		RejectReason:   tx.RejectReason,
		CreatedAt:      tx.CreatedAt.Format(time.RFC3339),
	}
	if tx.DecidedAt != nil {
		out.DecidedAt = tx.DecidedAt.Format(time.RFC3339)
	}
	return out
}

func NewTransactionListDTO(txs []domain.Transaction) []TransactionDTO {
	out := make([]TransactionDTO, 0, len(txs))
	for i := range txs {
		out = append(out, NewTransactionDTO(&txs[i]))
	}
	return out
}
