package service

import (
	"github.com/tkamdem/stablex/internal/handlers/admin"
	"github.com/tkamdem/stablex/internal/handlers/auth"
	"github.com/tkamdem/stablex/internal/handlers/notifications"
	"github.com/tkamdem/stablex/internal/handlers/rates"
	"github.com/tkamdem/stablex/internal/handlers/transactions"

	pkgauth "github.com/tkamdem/stablex/pkg/auth"

	"github.com/tkamdem/stablex/internal/pg"
	"github.com/tkamdem/stablex/internal/push"
	"github.com/tkamdem/stablex/internal/repo"
	ratecache "github.com/tkamdem/stablex/internal/repo/rate-cache"
	authservice "github.com/tkamdem/stablex/internal/service/authservice"
	balanceservice "github.com/tkamdem/stablex/internal/service/balanceservice"
	notifyservice "github.com/tkamdem/stablex/internal/service/notifyservice"
	rateservice "github.com/tkamdem/stablex/internal/service/rateservice"
	txservice "github.com/tkamdem/stablex/internal/service/txservice"
	userservice "github.com/tkamdem/stablex/internal/service/userservice"
	walletservice "github.com/tkamdem/stablex/internal/service/walletservice"
)

type Services struct {
	AuthService         auth.Service
	RateService         rates.Service
	TransactionService  transactions.Service
	BalanceService      transactions.BalanceService
	NotificationService notifications.Service
	UserService         admin.UserService
	WalletService       admin.WalletService

	// AuthSvc keeps the concrete type for startup tasks such as admin
	// bootstrap, which the HTTP surface never calls.
	AuthSvc *authservice.Service
}

func New(repos *repo.Repositories, txManager pg.TXManager, pushClient push.Client, cache *ratecache.Cache) *Services {
	notificationService := notifyservice.New(repos.NotificationRepo, repos.PushTokenRepo, pushClient)
	balanceService := balanceservice.New(repos.TransactionRepo)
	rateService := rateservice.New(repos.RateRepo, repos.UserRepo, notificationService, cache)
	transactionService := txservice.New(
		repos.TransactionRepo,
		rateService,
		balanceService,
		repos.WalletRepo,
		repos.UserRepo,
		notificationService,
		txManager,
	)
	authService := authservice.New(repos.UserRepo, &pkgauth.BcryptHasher{}, &pkgauth.JWTService{})
	userService := userservice.New(repos.UserRepo)
	walletService := walletservice.New(repos.WalletRepo)

	return &Services{
		AuthService:         authService,
		RateService:         rateService,
		TransactionService:  transactionService,
		BalanceService:      balanceService,
		NotificationService: notificationService,
		UserService:         userService,
		WalletService:       walletService,
		AuthSvc:             authService,
	}
}
