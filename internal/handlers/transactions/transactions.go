package transactions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/tkamdem/stablex/internal/domain"
	"github.com/tkamdem/stablex/internal/dto"
	"github.com/tkamdem/stablex/internal/service/rateservice"
	"github.com/tkamdem/stablex/internal/service/txservice"
	"github.com/tkamdem/stablex/pkg/auth"
	"github.com/tkamdem/stablex/pkg/utils"
)

//go:generate mockgen -source=transactions.go -destination=transactions_mock.go -package=transactions

type Service interface {
	CreateBuy(ctx context.Context, userID int, fiatAmount decimal.Decimal, network, operator, walletAddress string) (*domain.Transaction, string, error)
	CreateSell(ctx context.Context, userID int, stableAmount decimal.Decimal, network, operator, payoutNumber string) (*domain.Transaction, error)
	Decide(ctx context.Context, txID, outcome, reason string) (*domain.Transaction, error)
	ListByUser(ctx context.Context, userID int) ([]domain.Transaction, error)
	GetByTxID(ctx context.Context, txID string, requesterID int, isAdmin bool) (*domain.Transaction, error)
	ListAll(ctx context.Context, status string) ([]domain.Transaction, error)
}

type BalanceService interface {
	SettledBalance(ctx context.Context, userID int) (decimal.Decimal, error)
}

type TransactionsHandler struct {
	txService      Service
	balanceService BalanceService
}

func New(txService Service, balanceService BalanceService) *TransactionsHandler {
	return &TransactionsHandler{
		txService:      txService,
		balanceService: balanceService,
	}
}

func createErrStatus(err error) (int, string) {
	switch {
	case errors.Is(err, txservice.ErrInvalidAmount):
		return http.StatusBadRequest, "Montant invalide"
	case errors.Is(err, rateservice.ErrRateUnavailable):
		return http.StatusBadRequest, "Taux non définis pour aujourd'hui"
	case errors.Is(err, txservice.ErrDestinationUnavailable):
		return http.StatusBadRequest, "Destination non disponible"
	case errors.Is(err, txservice.ErrInsufficientBalance):
		return http.StatusPaymentRequired, "Solde USDT insuffisant"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// Buy godoc
//
//	@Summary		Buy stable asset with mobile money
//	@Description	Record a pending buy and return the payment instruction
//	@Tags			Transactions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.BuyRequestDTO	true	"Buy request"
//	@Success		201		{object}	dto.BuyResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid input or no rate/destination"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Security		BearerAuth
//	@Router			/api/buy [post]
func (h *TransactionsHandler) Buy(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.BuyRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Network == "" || req.Operator == "" || req.WalletAddress == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Champs manquants")
		return
	}
	fiatAmount, err := decimal.NewFromString(req.FiatAmount)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Montant invalide")
		return
	}

	tx, ussd, err := h.txService.CreateBuy(r.Context(), userID, fiatAmount, req.Network, req.Operator, req.WalletAddress)
	if err != nil {
		code, msg := createErrStatus(err)
		utils.RespondWithError(w, code, msg)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, dto.BuyResponseDTO{
		TransactionID:  tx.TxID,
		FiatAmount:     tx.FiatAmount.StringFixed(2),
		StableAmount:   tx.StableAmount.StringFixed(2),
		MerchantNumber: tx.MerchantNumber,
		USSDCode:       ussd,
		Status:         tx.Status,
	})
}

// Sell godoc
//
//	@Summary		Sell stable asset for mobile money
//	@Description	Record a pending sell against the settled balance
//	@Tags			Transactions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.SellRequestDTO	true	"Sell request"
//	@Success		201		{object}	dto.SellResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid input or no rate/destination"
//	@Failure		402		{object}	utils.Response	"Insufficient balance"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Security		BearerAuth
//	@Router			/api/sell [post]
func (h *TransactionsHandler) Sell(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.SellRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Network == "" || req.Operator == "" || req.PayoutNumber == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Champs manquants")
		return
	}
	stableAmount, err := decimal.NewFromString(req.StableAmount)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Montant invalide")
		return
	}

	tx, err := h.txService.CreateSell(r.Context(), userID, stableAmount, req.Network, req.Operator, req.PayoutNumber)
	if err != nil {
		code, msg := createErrStatus(err)
		utils.RespondWithError(w, code, msg)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, dto.SellResponseDTO{
		TransactionID: tx.TxID,
		StableAmount:  tx.StableAmount.StringFixed(2),
		FiatAmount:    tx.FiatAmount.StringFixed(2),
		AdminAddress:  tx.WalletAddress,
		Status:        tx.Status,
	})
}

// ListMine godoc
//
//	@Summary		List own transactions
//	@Tags			Transactions
//	@Produce		json
//	@Success		200	{array}		dto.TransactionDTO
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Security		BearerAuth
//	@Router			/api/user/transactions [get]
func (h *TransactionsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	txs, err := h.txService.ListByUser(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewTransactionListDTO(txs))
}

// GetOne godoc
//
//	@Summary		Get one transaction
//	@Description	Owner-scoped; administrators see every row
//	@Tags			Transactions
//	@Produce		json
//	@Param			txID	path		string	true	"Transaction identifier"
//	@Success		200		{object}	dto.TransactionDTO
//	@Failure		403		{object}	utils.Response	"Belongs to another user"
//	@Failure		404		{object}	utils.Response	"Not found"
//	@Security		BearerAuth
//	@Router			/api/user/transactions/{txID} [get]
func (h *TransactionsHandler) GetOne(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)
	isAdmin, _ := r.Context().Value(auth.IsAdminKey).(bool)
	txID := chi.URLParam(r, "txID")

	tx, err := h.txService.GetByTxID(r.Context(), txID, userID, isAdmin)
	if err != nil {
		switch {
		case errors.Is(err, txservice.ErrTxNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "Transaction introuvable")
		case errors.Is(err, txservice.ErrForbidden):
			utils.RespondWithError(w, http.StatusForbidden, "Accès refusé")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewTransactionDTO(tx))
}

// Balance godoc
//
//	@Summary		Get settled balance
//	@Description	Signed sum of completed transactions
//	@Tags			Transactions
//	@Produce		json
//	@Success		200	{object}	dto.BalanceResponseDTO
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Security		BearerAuth
//	@Router			/api/user/balance [get]
func (h *TransactionsHandler) Balance(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	balance, err := h.balanceService.SettledBalance(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.BalanceResponseDTO{BalanceUSDT: balance.StringFixed(2)})
}

// ListAll godoc
//
//	@Summary		List all transactions
//	@Description	Administrators, optionally filtered by status
//	@Tags			Admin
//	@Produce		json
//	@Param			statut	query		string	false	"pending, complete, rejected or tous"
//	@Success		200		{array}		dto.TransactionDTO
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Security		BearerAuth
//	@Router			/api/admin/transactions [get]
func (h *TransactionsHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	txs, err := h.txService.ListAll(r.Context(), r.URL.Query().Get("statut"))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewTransactionListDTO(txs))
}

// Validate godoc
//
//	@Summary		Validate a pending transaction
//	@Tags			Admin
//	@Produce		json
//	@Param			txID	path		string	true	"Transaction identifier"
//	@Success		200		{object}	utils.Response
//	@Failure		404		{object}	utils.Response	"Not found"
//	@Failure		409		{object}	utils.Response	"Already decided"
//	@Security		BearerAuth
//	@Router			/api/admin/transactions/{txID}/validate [post]
func (h *TransactionsHandler) Validate(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, domain.StatusComplete, "", "Transaction validée")
}

// Reject godoc
//
//	@Summary		Reject a pending transaction
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			txID	path		string				true	"Transaction identifier"
//	@Param			request	body		dto.RejectRequestDTO	false	"Rejection reason"
//	@Success		200		{object}	utils.Response
//	@Failure		404		{object}	utils.Response	"Not found"
//	@Failure		409		{object}	utils.Response	"Already decided"
//	@Security		BearerAuth
//	@Router			/api/admin/transactions/{txID}/reject [post]
func (h *TransactionsHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var req dto.RejectRequestDTO
	// body is optional, an empty reason is recorded as-is
	_ = json.NewDecoder(r.Body).Decode(&req)
	h.decide(w, r, domain.StatusRejected, req.Reason, "Transaction rejetée")
}

func (h *TransactionsHandler) decide(w http.ResponseWriter, r *http.Request, outcome, reason, okMessage string) {
	txID := chi.URLParam(r, "txID")

	if _, err := h.txService.Decide(r.Context(), txID, outcome, reason); err != nil {
		switch {
		case errors.Is(err, txservice.ErrTxNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "Transaction introuvable")
		case errors.Is(err, txservice.ErrInvalidState):
			utils.RespondWithError(w, http.StatusConflict, "Transaction déjà traitée")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: okMessage})
}
