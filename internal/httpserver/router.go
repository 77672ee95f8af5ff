package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"salesadmin/internal/auth"
	"salesadmin/internal/httpserver/handlers"
)

// NewRouter wires the REST surface. Everything except registration, login,
// refresh and the health probe sits behind the bearer-token middleware.
func NewRouter(db *gorm.DB, issuer *auth.Issuer, registry *auth.Registry, lg *zap.SugaredLogger) http.Handler {
	flow := auth.NewFlow(db, issuer, registry)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.Logger)

	r.Post("/auth/register", handlers.Register(db, lg))
	r.Post("/auth/login", handlers.Login(db, flow, lg))
	r.Post("/auth/refresh", handlers.Refresh(db, flow, lg))

	r.Group(func(protected chi.Router) {
		protected.Use(auth.JWTAuth(issuer))

		protected.Get("/sales", handlers.ListSales(db, lg))
		protected.Post("/sales", handlers.CreateSale(db, lg))
		protected.Get("/sales/{id}", handlers.GetSale(db, lg))
		protected.Put("/sales/{id}", handlers.UpdateSale(db, lg))
		protected.Delete("/sales/{id}", handlers.DeleteSale(db, lg))

		protected.Get("/products", handlers.ListProducts(db, lg))
		protected.Post("/products", handlers.CreateProduct(db, lg))
		protected.Get("/products/{id}", handlers.GetProduct(db, lg))
		protected.Put("/products/{id}", handlers.UpdateProduct(db, lg))
		protected.Delete("/products/{id}", handlers.DeleteProduct(db, lg))

		protected.Get("/clients", handlers.ListClients(db, lg))
		protected.Post("/clients", handlers.CreateClient(db, lg))
		protected.Get("/clients/{id}", handlers.GetClient(db, lg))
		protected.Put("/clients/{id}", handlers.UpdateClient(db, lg))
		protected.Delete("/clients/{id}", handlers.DeleteClient(db, lg))

		protected.Get("/saleStatus", handlers.ListSaleStatuses(db, lg))
		protected.Post("/saleStatus", handlers.CreateSaleStatus(db, lg))
		protected.Get("/saleStatus/{id}", handlers.GetSaleStatus(db, lg))
		protected.Put("/saleStatus/{id}", handlers.UpdateSaleStatus(db, lg))
		protected.Delete("/saleStatus/{id}", handlers.DeleteSaleStatus(db, lg))

		protected.Get("/saleDetails", handlers.ListSaleDetails(db, lg))
		protected.Post("/saleDetails", handlers.CreateSaleDetail(db, lg))
		protected.Get("/saleDetails/{id}", handlers.GetSaleDetail(db, lg))
		protected.Put("/saleDetails/{id}", handlers.UpdateSaleDetail(db, lg))
		protected.Delete("/saleDetails/{id}", handlers.DeleteSaleDetail(db, lg))

		protected.Get("/users", handlers.ListUsers(db, lg))
		protected.Post("/users", handlers.CreateUser(db, lg))
		protected.Get("/users/{id}", handlers.GetUser(db, lg))
		protected.Put("/users/{id}", handlers.UpdateUser(db, lg))
		protected.Delete("/users/{id}", handlers.DeleteUser(db, lg))

		protected.Get("/auditLogs", handlers.ListAuditLogs(db, lg))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	return r
}
