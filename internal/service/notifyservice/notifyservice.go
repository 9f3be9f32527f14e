package notifyservice

import (
	"context"
	"errors"

	"github.com/tkamdem/stablex/internal/domain"
	"github.com/tkamdem/stablex/internal/push"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -source=notifyservice.go -destination=notifyservice_mock.go -package=notifyservice

type NotificationRepo interface {
	Create(ctx context.Context, notification *domain.Notification) error
	ListForOwner(ctx context.Context, ownerID int, isAdmin bool, limit int) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, ownerID int, isAdmin bool) (int, error)
	MarkRead(ctx context.Context, id, ownerID int, isAdmin bool) (bool, error)
	MarkAllRead(ctx context.Context, ownerID int, isAdmin bool) error
	Delete(ctx context.Context, id, ownerID int, isAdmin bool) (bool, error)
}

type TokenRepo interface {
	Upsert(ctx context.Context, token *domain.PushToken) error
	FindActiveByUserIDs(ctx context.Context, userIDs []int) ([]domain.PushToken, error)
	DeactivateTokens(ctx context.Context, tokens []string) error
	DeactivateForUser(ctx context.Context, userID int, token string) error
	DeactivateAllForUser(ctx context.Context, userID int) error
}

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrEmptyToken           = errors.New("delivery token is empty")
)

// Target addresses a notification to exactly one recipient mailbox.
type Target struct {
	userID  int
	adminID int
}

func ToUser(id int) Target {
	return Target{userID: id}
}

func ToAdmin(id int) Target {
	return Target{adminID: id}
}

const fanOutConcurrency = 8

type Service struct {
	notificationRepo NotificationRepo
	tokenRepo        TokenRepo
	pushClient       push.Client
}

func New(notificationRepo NotificationRepo, tokenRepo TokenRepo, pushClient push.Client) *Service {
	return &Service{
		notificationRepo: notificationRepo,
		tokenRepo:        tokenRepo,
		pushClient:       pushClient,
	}
}

// Notify persists one independent notification row per target (fan-out by
// copy: every recipient owns its read state). Targets are written
// concurrently; a single failed insert fails the call.
func (s *Service) Notify(ctx context.Context, targets []Target, notifType, message string) error {
	var g errgroup.Group
	g.SetLimit(fanOutConcurrency)

	for _, target := range targets {
		target := target
		g.Go(func() error {
			notification := &domain.Notification{
				Type:    notifType,
				Message: message,
			}
			switch {
			case target.userID != 0:
				notification.UserID = &target.userID
			case target.adminID != 0:
				notification.AdminID = &target.adminID
			default:
				return errors.New("notification target has no recipient")
			}
			return s.notificationRepo.Create(ctx, notification)
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("notification fan-out failed", zap.Error(err))
		return err
	}
	return nil
}

// Push resolves the active delivery tokens for the given users and hands the
// whole batch to the delivery capability once. It is fire-and-forget: the
// durable notification rows are already committed by the time it runs, so
// every failure here is logged and swallowed. Destinations the backend
// reports as permanently invalid are deactivated.
func (s *Service) Push(ctx context.Context, userIDs []int, title, body string, data map[string]string) {
	if len(userIDs) == 0 {
		return
	}

	rows, err := s.tokenRepo.FindActiveByUserIDs(ctx, dedupeInts(userIDs))
	if err != nil {
		zap.L().Error("can't resolve push destinations", zap.Error(err))
		return
	}

	tokens := make([]string, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if row.Token == "" {
			continue
		}
		if _, ok := seen[row.Token]; ok {
			continue
		}
		seen[row.Token] = struct{}{}
		tokens = append(tokens, row.Token)
	}
	if len(tokens) == 0 {
		zap.L().Debug("no active push destinations", zap.Int("users", len(userIDs)))
		return
	}

	report, err := s.pushClient.Deliver(ctx, tokens, title, body, data)
	if err != nil {
		zap.L().Error("push delivery failed", zap.Error(err))
	}
	if report == nil {
		return
	}
	if !report.Enabled {
		zap.L().Debug("push delivery disabled, notification rows remain the durable record")
		return
	}
	if len(report.InvalidTokens) > 0 {
		if err := s.tokenRepo.DeactivateTokens(ctx, report.InvalidTokens); err != nil {
			zap.L().Error("can't deactivate dead push tokens", zap.Error(err))
		}
	}
	zap.L().Info("push delivered",
		zap.Int("delivered", report.Delivered),
		zap.Int("failed", report.Failed),
		zap.Int("invalidated", len(report.InvalidTokens)),
	)
}

func (s *Service) List(ctx context.Context, ownerID int, isAdmin bool, limit int) ([]domain.Notification, int, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	notifications, err := s.notificationRepo.ListForOwner(ctx, ownerID, isAdmin, limit)
	if err != nil {
		zap.L().Error("can't list notifications", zap.Error(err))
		return nil, 0, err
	}
	unread, err := s.notificationRepo.UnreadCount(ctx, ownerID, isAdmin)
	if err != nil {
		zap.L().Error("can't count unread notifications", zap.Error(err))
		return nil, 0, err
	}
	return notifications, unread, nil
}

func (s *Service) MarkRead(ctx context.Context, id, ownerID int, isAdmin bool) error {
	ok, err := s.notificationRepo.MarkRead(ctx, id, ownerID, isAdmin)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, ownerID int, isAdmin bool) error {
	return s.notificationRepo.MarkAllRead(ctx, ownerID, isAdmin)
}

func (s *Service) Delete(ctx context.Context, id, ownerID int, isAdmin bool) error {
	ok, err := s.notificationRepo.Delete(ctx, id, ownerID, isAdmin)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *Service) RegisterToken(ctx context.Context, userID int, token, platform string) error {
	if token == "" {
		return ErrEmptyToken
	}
	if platform == "" {
		platform = "unknown"
	}
	return s.tokenRepo.Upsert(ctx, &domain.PushToken{
		UserID:   userID,
		Token:    token,
		Platform: platform,
	})
}

// UnregisterToken deactivates one destination, or every destination the
// user owns when token is empty.
func (s *Service) UnregisterToken(ctx context.Context, userID int, token string) error {
	if token == "" {
		return s.tokenRepo.DeactivateAllForUser(ctx, userID)
	}
	return s.tokenRepo.DeactivateForUser(ctx, userID, token)
}

func dedupeInts(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
