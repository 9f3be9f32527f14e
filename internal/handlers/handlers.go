package handlers

import (
	"net/http"

	_ "github.com/tkamdem/stablex/docs"
	adminhandlers "github.com/tkamdem/stablex/internal/handlers/admin"
	authhandlers "github.com/tkamdem/stablex/internal/handlers/auth"
	notificationhandlers "github.com/tkamdem/stablex/internal/handlers/notifications"
	ratehandlers "github.com/tkamdem/stablex/internal/handlers/rates"
	transactionhandlers "github.com/tkamdem/stablex/internal/handlers/transactions"
	"github.com/tkamdem/stablex/internal/service"
	"github.com/tkamdem/stablex/pkg/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type RateHandler interface {
	GetCurrent(w http.ResponseWriter, r *http.Request)
	Calculate(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	Upsert(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type TransactionHandler interface {
	Buy(w http.ResponseWriter, r *http.Request)
	Sell(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	GetOne(w http.ResponseWriter, r *http.Request)
	Balance(w http.ResponseWriter, r *http.Request)
	ListAll(w http.ResponseWriter, r *http.Request)
	Validate(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type NotificationHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	MarkRead(w http.ResponseWriter, r *http.Request)
	MarkAllRead(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	RegisterToken(w http.ResponseWriter, r *http.Request)
	UnregisterToken(w http.ResponseWriter, r *http.Request)
}

type AdminHandler interface {
	Profile(w http.ResponseWriter, r *http.Request)
	ListUsers(w http.ResponseWriter, r *http.Request)
	ToggleAdmin(w http.ResponseWriter, r *http.Request)
	DeleteUser(w http.ResponseWriter, r *http.Request)
	ListWallets(w http.ResponseWriter, r *http.Request)
	AddWallet(w http.ResponseWriter, r *http.Request)
	DeleteWallet(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler         AuthHandler
	RateHandler         RateHandler
	TransactionHandler  TransactionHandler
	NotificationHandler NotificationHandler
	AdminHandler        AdminHandler
}

func New(s *service.Services) *Handlers {
	return &Handlers{
		AuthHandler:         authhandlers.New(s.AuthService),
		RateHandler:         ratehandlers.New(s.RateService),
		TransactionHandler:  transactionhandlers.New(s.TransactionService, s.BalanceService),
		NotificationHandler: notificationhandlers.New(s.NotificationService),
		AdminHandler:        adminhandlers.New(s.UserService, s.WalletService),
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.AuthHandler.Register)
			r.Post("/login", h.AuthHandler.Login)
		})
		r.Route("/rates", func(r chi.Router) {
			r.Get("/current", h.RateHandler.GetCurrent)
			r.Post("/calculate", h.RateHandler.Calculate)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware)

			r.Post("/buy", h.TransactionHandler.Buy)
			r.Post("/sell", h.TransactionHandler.Sell)

			r.Route("/user", func(r chi.Router) {
				r.Get("/profile", h.AdminHandler.Profile)
				r.Get("/balance", h.TransactionHandler.Balance)
				r.Get("/transactions", h.TransactionHandler.ListMine)
				r.Get("/transactions/{txID}", h.TransactionHandler.GetOne)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.NotificationHandler.List)
				r.Post("/read-all", h.NotificationHandler.MarkAllRead)
				r.Post("/{id}/read", h.NotificationHandler.MarkRead)
				r.Delete("/{id}", h.NotificationHandler.Delete)
				r.Post("/device-token", h.NotificationHandler.RegisterToken)
				r.Delete("/device-token", h.NotificationHandler.UnregisterToken)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(auth.AdminMiddleware)

				r.Route("/users", func(r chi.Router) {
					r.Get("/", h.AdminHandler.ListUsers)
					r.Post("/{uid}/toggle-admin", h.AdminHandler.ToggleAdmin)
					r.Delete("/{uid}", h.AdminHandler.DeleteUser)
				})
				r.Route("/transactions", func(r chi.Router) {
					r.Get("/", h.TransactionHandler.ListAll)
					r.Post("/{txID}/validate", h.TransactionHandler.Validate)
					r.Post("/{txID}/reject", h.TransactionHandler.Reject)
				})
				r.Route("/rates", func(r chi.Router) {
					r.Get("/", h.RateHandler.History)
					r.Post("/", h.RateHandler.Upsert)
					r.Delete("/{id}", h.RateHandler.Delete)
				})
				r.Route("/wallets", func(r chi.Router) {
					r.Get("/", h.AdminHandler.ListWallets)
					r.Post("/", h.AdminHandler.AddWallet)
					r.Delete("/{id}", h.AdminHandler.DeleteWallet)
				})
			})
		})
	})

	return r
}
