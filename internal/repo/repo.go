package repo

import (
	"github.com/tkamdem/stablex/internal/pg"
	notificationrepo "github.com/tkamdem/stablex/internal/repo/notification-repo"
	pushtokenrepo "github.com/tkamdem/stablex/internal/repo/pushtoken-repo"
	raterepo "github.com/tkamdem/stablex/internal/repo/rate-repo"
	transactionrepo "github.com/tkamdem/stablex/internal/repo/transaction-repo"
	userrepo "github.com/tkamdem/stablex/internal/repo/user-repo"
	walletrepo "github.com/tkamdem/stablex/internal/repo/wallet-repo"
)

// Repositories keeps the concrete types: most repos back more than one
// service-side interface.
type Repositories struct {
	UserRepo         *userrepo.Repository
	RateRepo         *raterepo.Repository
	TransactionRepo  *transactionrepo.Repository
	NotificationRepo *notificationrepo.Repository
	PushTokenRepo    *pushtokenrepo.Repository
	WalletRepo       *walletrepo.Repository
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	return &Repositories{
		UserRepo:         userrepo.New(conn),
		RateRepo:         raterepo.New(conn),
		TransactionRepo:  transactionrepo.New(conn, txManager),
		NotificationRepo: notificationrepo.New(conn),
		PushTokenRepo:    pushtokenrepo.New(conn),
		WalletRepo:       walletrepo.New(conn),
	}
}
