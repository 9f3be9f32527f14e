// Package txservice runs the exchange flows: buy and sell creation with the
// applied-rate snapshot, and the administrator decision that settles or
// rejects a pending transaction.
package txservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tkamdem/stablex/internal/domain"
	"github.com/tkamdem/stablex/internal/pg"
	"github.com/tkamdem/stablex/internal/service/notifyservice"
)

//go:generate mockgen -source=txservice.go -destination=txservice_mock.go -package=txservice

type Repo interface {
	Save(ctx context.Context, tx *domain.Transaction) error
	FindByTxID(ctx context.Context, txID string) (*domain.Transaction, error)
	FindByUserID(ctx context.Context, userID int) ([]domain.Transaction, error)
	FindAll(ctx context.Context, status string) ([]domain.Transaction, error)
	Decide(ctx context.Context, txID, status, reason string, decidedAt time.Time) (*domain.Transaction, error)
}

type RateService interface {
	GetActive(ctx context.Context) (*domain.DailyRate, error)
}

type BalanceService interface {
	SettledBalance(ctx context.Context, userID int) (decimal.Decimal, error)
}

type WalletRepo interface {
	FindDepositDestination(ctx context.Context, operator string) (*domain.AdminWallet, error)
	FindPayoutSource(ctx context.Context, network string) (*domain.AdminWallet, error)
}

type UserRepo interface {
	FindActiveAdmins(ctx context.Context) ([]domain.User, error)
}

type Dispatcher interface {
	Notify(ctx context.Context, targets []notifyservice.Target, notifType, message string) error
	Push(ctx context.Context, userIDs []int, title, body string, data map[string]string)
}

var (
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrInsufficientBalance    = errors.New("insufficient settled balance")
	ErrDestinationUnavailable = errors.New("no destination configured")
	ErrTxNotFound             = errors.New("transaction not found")
	ErrInvalidState           = errors.New("transaction is not pending")
	ErrInvalidOutcome         = errors.New("outcome must be complete or rejected")
	ErrForbidden              = errors.New("transaction belongs to another user")
)

type Service struct {
	repo           Repo
	rateService    RateService
	balanceService BalanceService
	walletRepo     WalletRepo
	userRepo       UserRepo
	dispatcher     Dispatcher
	txManager      pg.TXManager
}

func New(
	repo Repo,
	rateService RateService,
	balanceService BalanceService,
	walletRepo WalletRepo,
	userRepo UserRepo,
	dispatcher Dispatcher,
	txManager pg.TXManager,
) *Service {
	return &Service{
		repo:           repo,
		rateService:    rateService,
		balanceService: balanceService,
		walletRepo:     walletRepo,
		userRepo:       userRepo,
		dispatcher:     dispatcher,
		txManager:      txManager,
	}
}

func newTxID() string {
	return "TX-" + uuid.NewString()
}

// paymentInstruction builds the operator dial string the client shows after
// a buy. It embeds the same merchant number and amount the transaction
// recorded, so the instruction can never drift from the stored row.
func paymentInstruction(operator, merchantNumber string, fiatAmount decimal.Decimal) string {
	if operator == "MTN" {
		return fmt.Sprintf("*126*14*%s*%s#", merchantNumber, fiatAmount.String())
	}
	return fmt.Sprintf("#150*14*505874*%s*%s", merchantNumber, fiatAmount.String())
}

// CreateBuy records a pending purchase of the stable asset. The applied rate
// is today's sell leg, snapshotted on the row; later rate updates never
// change it. Returns the transaction together with the payment instruction.
func (s *Service) CreateBuy(ctx context.Context, userID int, fiatAmount decimal.Decimal, network, operator, walletAddress string) (*domain.Transaction, string, error) {
	if !fiatAmount.IsPositive() {
		return nil, "", ErrInvalidAmount
	}

	rate, err := s.rateService.GetActive(ctx)
	if err != nil {
		return nil, "", err
	}

	stableAmount := fiatAmount.Div(rate.SellRate).Round(2)

	destination, err := s.walletRepo.FindDepositDestination(ctx, operator)
	if err != nil {
		return nil, "", err
	}
	if destination == nil {
		return nil, "", ErrDestinationUnavailable
	}

	tx := &domain.Transaction{
		TxID:           newTxID(),
		UserID:         userID,
		Direction:      domain.DirectionBuy,
		FiatAmount:     fiatAmount,
		StableAmount:   stableAmount,
		AppliedRate:    rate.SellRate,
		Network:        network,
		Operator:       operator,
		WalletAddress:  walletAddress,
		MerchantNumber: destination.Address,
		Status:         domain.StatusPending,
	}
	if err := s.repo.Save(ctx, tx); err != nil {
		return nil, "", err
	}

	s.fanOutCreated(ctx, tx,
		fmt.Sprintf("Votre achat est enregistré et en attente (%s).", tx.TxID),
		fmt.Sprintf("Nouvel achat en attente: %s XAF (%s)", fiatAmount.String(), tx.TxID),
		"Achat en attente",
		fmt.Sprintf("Votre achat %s est en attente de validation.", tx.TxID),
		fmt.Sprintf("Nouvel achat en attente: %s XAF", fiatAmount.String()),
	)

	return tx, paymentInstruction(operator, destination.Address, fiatAmount), nil
}

// CreateSell records a pending sale of the stable asset. The settled-balance
// check and the insert run inside one DB transaction holding a per-user
// advisory lock, so two concurrent sells cannot both pass the check against
// a stale balance.
func (s *Service) CreateSell(ctx context.Context, userID int, stableAmount decimal.Decimal, network, operator, payoutNumber string) (*domain.Transaction, error) {
	if !stableAmount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var tx *domain.Transaction
	err := s.txManager.WithUserLock(ctx, userID, func(ctx context.Context) error {
		balance, err := s.balanceService.SettledBalance(ctx, userID)
		if err != nil {
			return err
		}
		if stableAmount.GreaterThan(balance) {
			return ErrInsufficientBalance
		}

		rate, err := s.rateService.GetActive(ctx)
		if err != nil {
			return err
		}

		source, err := s.walletRepo.FindPayoutSource(ctx, network)
		if err != nil {
			return err
		}
		if source == nil {
			return ErrDestinationUnavailable
		}

		tx = &domain.Transaction{
			TxID:           newTxID(),
			UserID:         userID,
			Direction:      domain.DirectionSell,
			FiatAmount:     stableAmount.Mul(rate.BuyRate).Round(2),
			StableAmount:   stableAmount,
			AppliedRate:    rate.BuyRate,
			Network:        network,
			Operator:       operator,
			WalletAddress:  source.Address,
			MerchantNumber: payoutNumber,
			Status:         domain.StatusPending,
		}
		return s.repo.Save(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.fanOutCreated(ctx, tx,
		fmt.Sprintf("Votre vente est enregistrée et en attente (%s).", tx.TxID),
		fmt.Sprintf("Nouvelle vente en attente: %s USDT (%s)", stableAmount.String(), tx.TxID),
		"Vente en attente",
		fmt.Sprintf("Votre vente %s est en attente de validation.", tx.TxID),
		fmt.Sprintf("Nouvelle vente en attente: %s USDT", stableAmount.String()),
	)

	return tx, nil
}

// fanOutCreated runs after the row is committed: the requester and every
// active administrator get a durable notification, then two push batches.
// Failures are logged and never surface to the caller.
func (s *Service) fanOutCreated(ctx context.Context, tx *domain.Transaction, userMsg, adminMsg, pushTitle, pushBody, adminPushBody string) {
	if err := s.dispatcher.Notify(ctx, []notifyservice.Target{notifyservice.ToUser(tx.UserID)}, domain.NotifTxCreated, userMsg); err != nil {
		zap.L().Error("can't notify requester", zap.Error(err), zap.String("txID", tx.TxID))
	}

	admins, err := s.userRepo.FindActiveAdmins(ctx)
	if err != nil {
		zap.L().Error("can't resolve active admins", zap.Error(err), zap.String("txID", tx.TxID))
		admins = nil
	}
	if len(admins) > 0 {
		targets := make([]notifyservice.Target, 0, len(admins))
		adminIDs := make([]int, 0, len(admins))
		for _, admin := range admins {
			targets = append(targets, notifyservice.ToAdmin(admin.ID))
			adminIDs = append(adminIDs, admin.ID)
		}
		if err := s.dispatcher.Notify(ctx, targets, domain.NotifTxCreated, adminMsg); err != nil {
			zap.L().Error("can't notify admins", zap.Error(err), zap.String("txID", tx.TxID))
		}
		s.dispatcher.Push(ctx, adminIDs, "Nouvelle transaction", adminPushBody, map[string]string{
			"type":           "admin_notification",
			"transaction_id": tx.TxID,
		})
	}

	s.dispatcher.Push(ctx, []int{tx.UserID}, pushTitle, pushBody, map[string]string{
		"type":           domain.NotifTxCreated,
		"transaction_id": tx.TxID,
	})
}

// Decide settles a pending transaction. The status transition is a guarded
// compare-and-set in SQL, so two administrators deciding concurrently cannot
// both win: the loser observes a terminal row and gets ErrInvalidState with
// no second notification.
func (s *Service) Decide(ctx context.Context, txID, outcome, reason string) (*domain.Transaction, error) {
	if outcome != domain.StatusComplete && outcome != domain.StatusRejected {
		return nil, ErrInvalidOutcome
	}
	if outcome == domain.StatusComplete {
		reason = ""
	}

	updated, err := s.repo.Decide(ctx, txID, outcome, reason, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if updated == nil {
		existing, err := s.repo.FindByTxID(ctx, txID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, ErrTxNotFound
		}
		return nil, ErrInvalidState
	}

	var notifType, message, pushTitle, pushBody string
	if outcome == domain.StatusComplete {
		notifType = domain.NotifTxApproved
		message = fmt.Sprintf("Votre transaction %s USDT a été validée.", updated.StableAmount.String())
		pushTitle = "Transaction validée"
		pushBody = fmt.Sprintf("Votre transaction %s a été validée.", updated.TxID)
	} else {
		notifType = domain.NotifTxRejected
		message = fmt.Sprintf("Transaction rejetée. Motif: %s", reason)
		pushTitle = "Transaction rejetée"
		pushBody = fmt.Sprintf("Votre transaction %s a été rejetée.", updated.TxID)
	}

	if err := s.dispatcher.Notify(ctx, []notifyservice.Target{notifyservice.ToUser(updated.UserID)}, notifType, message); err != nil {
		zap.L().Error("can't notify decision", zap.Error(err), zap.String("txID", txID))
	}
	s.dispatcher.Push(ctx, []int{updated.UserID}, pushTitle, pushBody, map[string]string{
		"type":           notifType,
		"transaction_id": updated.TxID,
	})

	return updated, nil
}

// ListByUser returns the caller's own history, most recent first.
func (s *Service) ListByUser(ctx context.Context, userID int) ([]domain.Transaction, error) {
	return s.repo.FindByUserID(ctx, userID)
}

// GetByTxID is owner-scoped: a standard user only sees their own rows,
// administrators see everything.
func (s *Service) GetByTxID(ctx context.Context, txID string, requesterID int, isAdmin bool) (*domain.Transaction, error) {
	tx, err := s.repo.FindByTxID(ctx, txID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, ErrTxNotFound
	}
	if !isAdmin && tx.UserID != requesterID {
		return nil, ErrForbidden
	}
	return tx, nil
}

// ListAll lists transactions for administrators, optionally filtered by
// status. An empty or "tous" filter returns everything.
func (s *Service) ListAll(ctx context.Context, status string) ([]domain.Transaction, error) {
	if status == "tous" {
		status = ""
	}
	return s.repo.FindAll(ctx, status)
}
