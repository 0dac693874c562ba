// Package api exposes the storefront over HTTP with JSON bodies.
package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/safar/nava-store/internal/cart"
	"github.com/safar/nava-store/internal/catalog"
	"github.com/safar/nava-store/internal/identity"
	"github.com/safar/nava-store/internal/order"
)

type Server struct {
	catalog  *catalog.Service
	carts    *cart.Service
	orders   *order.Manager
	counter  catalog.OrderCounter
	accounts *identity.Service
	sessions *identity.SessionCodec
	cookie   string
	logger   *zap.Logger
}

// Deps collects what the HTTP layer is built from.
type Deps struct {
	Catalog      *catalog.Service
	Carts        *cart.Service
	Orders       *order.Manager
	OrderCounter catalog.OrderCounter
	Accounts     *identity.Service
	Sessions     *identity.SessionCodec
	CookieName   string
	Logger       *zap.Logger
}

func NewServer(d Deps) *Server {
	return &Server{
		catalog:  d.Catalog,
		carts:    d.Carts,
		orders:   d.Orders,
		counter:  d.OrderCounter,
		accounts: d.Accounts,
		sessions: d.Sessions,
		cookie:   d.CookieName,
		logger:   d.Logger,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /products", s.handleListProducts)
	mux.HandleFunc("GET /products/{id}", s.handleGetProduct)
	mux.HandleFunc("GET /orders/{id}", s.handleOrderStatus)
	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /admin/login", s.handleAdminLogin)
	mux.HandleFunc("POST /logout", s.handleLogout)

	loggedIn := identity.RequireLogin
	mux.Handle("GET /favourites", s.guard(loggedIn, s.handleFavourites))
	mux.Handle("POST /favourites/{productID}/toggle", s.guard(loggedIn, s.handleToggleFavourite))
	mux.Handle("GET /my-orders", s.guard(loggedIn, s.handleMyOrders))
	mux.Handle("POST /orders/{id}/payment", s.guard(loggedIn, s.handlePayment))
	mux.Handle("GET /orders/{id}/receipt", s.guard(loggedIn, s.handleReceipt))
	mux.Handle("POST /orders/{id}/reached", s.guard(loggedIn, s.handleReached))

	shopper := identity.RequireShopper
	mux.Handle("GET /cart", s.guard(shopper, s.handleGetCart))
	mux.Handle("POST /cart/items", s.guard(shopper, s.handleAddToCart))
	mux.Handle("DELETE /cart/items/{index}", s.guard(shopper, s.handleRemoveFromCart))
	mux.Handle("PATCH /cart/items/{index}", s.guard(shopper, s.handleUpdateCartItem))
	mux.Handle("POST /checkout", s.guard(shopper, s.handleCheckout))

	admin := identity.RequireAdmin
	mux.Handle("GET /admin", s.guard(admin, s.handleDashboard))
	mux.Handle("GET /admin/products", s.guard(admin, s.handleAdminProducts))
	mux.Handle("POST /admin/products", s.guard(admin, s.handleCreateProduct))
	mux.Handle("PUT /admin/products/{id}", s.guard(admin, s.handleUpdateProduct))
	mux.Handle("DELETE /admin/products/{id}", s.guard(admin, s.handleDeleteProduct))
	mux.Handle("GET /admin/offers", s.guard(admin, s.handleAdminOffers))
	mux.Handle("POST /admin/offers", s.guard(admin, s.handleCreateOffer))
	mux.Handle("POST /admin/offers/{id}/toggle", s.guard(admin, s.handleToggleOffer))
	mux.Handle("GET /admin/orders", s.guard(admin, s.handleAdminOrders))
	mux.Handle("POST /admin/orders/{id}/status", s.guard(admin, s.handleAdvanceStatus))

	return s.logRequests(s.withSession(mux))
}
