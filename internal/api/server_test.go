package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/safar/nava-store/internal/cart"
	"github.com/safar/nava-store/internal/catalog"
	"github.com/safar/nava-store/internal/identity"
	"github.com/safar/nava-store/internal/models"
	"github.com/safar/nava-store/internal/order"
)

const testCookie = "test_session"

type testEnv struct {
	handler  http.Handler
	accounts *identity.Service
	orders   *fakeOrders
	soapID   int64
	serumID  int64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()

	secondary := decimal.NewFromInt(1000)
	thirty := "30 ml"
	products := newFakeProducts(
		models.Product{Name: "Neem Soap", Category: models.CategorySoap, BasePrice: decimal.NewFromInt(200), BaseVolume: "Bar"},
		models.Product{Name: "Kumkumadi Serum", Category: models.CategorySerum, BasePrice: decimal.NewFromInt(500), BaseVolume: "15 ml",
			SecondaryPrice: &secondary, SecondaryVolume: &thirty},
	)
	orders := &fakeOrders{orders: map[int64]*models.Order{}}

	carts := cart.NewService(cart.NewMemoryStore(), products, logger)
	accounts := identity.NewService(&fakeUsers{byEmail: map[string]models.User{}}, identity.BcryptHasher{Cost: bcrypt.MinCost}, logger)

	srv := NewServer(Deps{
		Catalog:      catalog.NewService(products, &fakeOffers{}, &fakeFavourites{products: products, marks: map[[2]int64]bool{}}, logger),
		Carts:        carts,
		Orders:       order.NewManager(orders, carts, logger),
		OrderCounter: orders,
		Accounts:     accounts,
		Sessions:     identity.NewSessionCodec("test-secret"),
		CookieName:   testCookie,
		Logger:       logger,
	})

	return &testEnv{handler: srv.Handler(), accounts: accounts, orders: orders, soapID: 1, serumID: 2}
}

// client replays the session cookie the server last issued.
type client struct {
	t      *testing.T
	h      http.Handler
	cookie *http.Cookie
}

func (e *testEnv) client(t *testing.T) *client {
	return &client{t: t, h: e.handler}
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == testCookie {
			c.cookie = ck
		}
	}
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (e *testEnv) shopper(t *testing.T, email string) *client {
	t.Helper()
	c := e.client(t)
	rec := c.do(http.MethodPost, "/register", credentials{Name: "Asha", Email: email, Password: "s3cret"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = c.do(http.MethodPost, "/login", credentials{Email: email, Password: "s3cret"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return c
}

func (e *testEnv) admin(t *testing.T) *client {
	t.Helper()
	_, err := e.accounts.CreateAdmin(context.Background(), "Admin", "admin@example.com", "admin-pass")
	require.NoError(t, err)

	c := e.client(t)
	rec := c.do(http.MethodPost, "/admin/login", credentials{Email: "admin@example.com", Password: "admin-pass"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return c
}

func checkoutBody() map[string]string {
	return map[string]string{
		"name":     "Asha",
		"email":    "asha@example.com",
		"phone":    "9876543210",
		"address":  "12 MG Road",
		"location": "Indiranagar",
		"district": "Bengaluru Urban",
		"state":    "Karnataka",
		"pincode":  "560038",
	}
}

type statusChange struct {
	Order   models.Order `json:"order"`
	Applied bool         `json:"applied"`
}

func TestSessionCookieIssuedOnFirstVisit(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)

	rec := c.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, c.cookie)
	first := c.cookie.Value

	rec = c.do(http.MethodGet, "/products", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, first, c.cookie.Value, "valid cookie is not reissued")

	c.cookie = &http.Cookie{Name: testCookie, Value: "not-a-token"}
	c.do(http.MethodGet, "/products", nil)
	assert.NotEqual(t, "not-a-token", c.cookie.Value)
}

func TestCartGuards(t *testing.T) {
	env := newTestEnv(t)

	anon := env.client(t)
	rec := anon.do(http.MethodGet, "/cart", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, identity.ErrUnauthorized.Error(), decodeBody[map[string]string](t, rec)["error"])

	admin := env.admin(t)
	rec = admin.do(http.MethodPost, "/cart/items", map[string]any{"product_id": env.soapID})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = anon.do(http.MethodGet, "/admin", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	shopper := env.shopper(t, "asha@example.com")
	rec = shopper.do(http.MethodGet, "/admin/orders", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCartEndpoints(t *testing.T) {
	env := newTestEnv(t)
	c := env.shopper(t, "asha@example.com")

	rec := c.do(http.MethodPost, "/cart/items", map[string]any{"product_id": env.soapID, "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = c.do(http.MethodPost, "/cart/items", map[string]any{"product_id": env.serumID, "variant": "30ml"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	view := decodeBody[cartView](t, c.do(http.MethodGet, "/cart", nil))
	require.Len(t, view.Lines, 2)
	assert.Equal(t, "30 ml", view.Lines[1].VariantLabel)
	assert.True(t, decimal.NewFromInt(1400).Equal(view.Total), view.Total.String())

	rec = c.do(http.MethodPatch, "/cart/items/0", map[string]string{"action": "dec"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = c.do(http.MethodPatch, "/cart/items/0", map[string]string{"action": "dec"})
	view = decodeBody[cartView](t, rec)
	assert.Equal(t, 1, view.Lines[0].Quantity, "quantity floors at 1")

	rec = c.do(http.MethodPatch, "/cart/items/1", map[string]int{"quantity": 3})
	view = decodeBody[cartView](t, rec)
	assert.True(t, decimal.NewFromInt(3200).Equal(view.Total), view.Total.String())

	rec = c.do(http.MethodPatch, "/cart/items/1", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodDelete, "/cart/items/0", nil)
	view = decodeBody[cartView](t, rec)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, "Kumkumadi Serum", view.Lines[0].ProductName)

	rec = c.do(http.MethodDelete, "/cart/items/9", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "out of range index is ignored")

	rec = c.do(http.MethodPost, "/cart/items", map[string]any{"product_id": 99})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.do(http.MethodPost, "/cart/items", map[string]any{"product_id": env.soapID, "quantity": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCheckoutPaymentAndStatusFlow(t *testing.T) {
	env := newTestEnv(t)
	shopper := env.shopper(t, "asha@example.com")
	admin := env.admin(t)

	rec := shopper.do(http.MethodPost, "/checkout", checkoutBody())
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "empty cart")

	shopper.do(http.MethodPost, "/cart/items", map[string]any{"product_id": env.soapID, "quantity": 2})
	rec = shopper.do(http.MethodPost, "/checkout", checkoutBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	placed := decodeBody[models.Order](t, rec)
	assert.Equal(t, models.OrderStatusPlaced, placed.Status)
	assert.Equal(t, "12 MG Road, Indiranagar, Bengaluru Urban, Karnataka, PIN 560038", placed.CustomerAddress)
	assert.True(t, decimal.NewFromInt(400).Equal(placed.TotalAmount))

	view := decodeBody[cartView](t, shopper.do(http.MethodGet, "/cart", nil))
	assert.Empty(t, view.Lines)

	orderPath := fmt.Sprintf("/orders/%d", placed.ID)

	rec = shopper.do(http.MethodPost, orderPath+"/payment", map[string]string{"account_number": "1234", "pin": "1234"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = shopper.do(http.MethodPost, orderPath+"/payment", map[string]string{"account_number": "123456789012", "pin": "1234"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	paid := decodeBody[models.Order](t, rec)
	assert.Equal(t, models.PaymentStatusSuccessful, paid.PaymentStatus)
	assert.Equal(t, "********9012", *paid.AccountRef)

	advance := func(action string) *httptest.ResponseRecorder {
		return admin.do(http.MethodPost, "/admin"+orderPath+"/status", map[string]string{"action": action})
	}

	change := decodeBody[statusChange](t, advance("payment_received"))
	assert.True(t, change.Applied)
	assert.Equal(t, models.OrderStatusConfirmed, change.Order.Status)

	change = decodeBody[statusChange](t, advance("payment_received"))
	assert.False(t, change.Applied)
	assert.Equal(t, models.OrderStatusConfirmed, change.Order.Status)

	assert.Equal(t, http.StatusUnprocessableEntity, advance("teleport").Code)

	change = decodeBody[statusChange](t, shopper.do(http.MethodPost, orderPath+"/reached", nil))
	assert.False(t, change.Applied, "not dispatched yet")

	change = decodeBody[statusChange](t, advance("dispatched"))
	require.True(t, change.Applied)

	change = decodeBody[statusChange](t, shopper.do(http.MethodPost, orderPath+"/reached", nil))
	assert.True(t, change.Applied)
	assert.Equal(t, models.OrderStatusReached, change.Order.Status)

	status := decodeBody[struct {
		Progress order.Progress `json:"progress"`
	}](t, env.client(t).do(http.MethodGet, orderPath, nil))
	assert.Equal(t, 3, status.Progress.CurrentIndex)
	assert.Equal(t, "Order Delivered", status.Progress.DeliveredMessage)

	change = decodeBody[statusChange](t, advance("got"))
	assert.True(t, change.Applied)
	assert.Equal(t, models.OrderStatusPlaced, change.Order.Status)

	rec = admin.do(http.MethodPost, "/admin/orders/999/status", map[string]string{"action": "dispatched"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReceiptVisibility(t *testing.T) {
	env := newTestEnv(t)
	owner := env.shopper(t, "asha@example.com")
	other := env.shopper(t, "ravi@example.com")
	admin := env.admin(t)

	owner.do(http.MethodPost, "/cart/items", map[string]any{"product_id": env.serumID})
	placed := decodeBody[models.Order](t, owner.do(http.MethodPost, "/checkout", checkoutBody()))
	receipt := fmt.Sprintf("/orders/%d/receipt", placed.ID)

	assert.Equal(t, http.StatusOK, owner.do(http.MethodGet, receipt, nil).Code)
	assert.Equal(t, http.StatusOK, admin.do(http.MethodGet, receipt, nil).Code)
	assert.Equal(t, http.StatusForbidden, other.do(http.MethodGet, receipt, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, env.client(t).do(http.MethodGet, receipt, nil).Code)

	rec := other.do(http.MethodPost, fmt.Sprintf("/orders/%d/payment", placed.ID),
		map[string]string{"account_number": "123456789012", "pin": "1234"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, models.PaymentStatusPending, env.orders.orders[placed.ID].PaymentStatus)

	mine := decodeBody[[]models.Order](t, other.do(http.MethodGet, "/my-orders", nil))
	assert.Empty(t, mine)
}

func TestAccounts(t *testing.T) {
	env := newTestEnv(t)
	env.shopper(t, "asha@example.com")

	c := env.client(t)
	rec := c.do(http.MethodPost, "/register", credentials{Name: "Asha", Email: "asha@example.com", Password: "x"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = c.do(http.MethodPost, "/login", credentials{Email: "asha@example.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = c.do(http.MethodPost, "/admin/login", credentials{Email: "asha@example.com", Password: "s3cret"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "shoppers cannot use the admin login")

	rec = c.do(http.MethodPost, "/login", credentials{Email: "asha@example.com", Password: "s3cret"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/cart", nil).Code)

	rec = c.do(http.MethodPost, "/logout", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/cart", nil).Code)
}

func TestCatalogEndpoints(t *testing.T) {
	env := newTestEnv(t)
	anon := env.client(t)

	products := decodeBody[[]models.Product](t, anon.do(http.MethodGet, "/products?category=serum", nil))
	require.Len(t, products, 1)
	assert.Equal(t, "Kumkumadi Serum", products[0].Name)

	products = decodeBody[[]models.Product](t, anon.do(http.MethodGet, "/products?q=NEEM", nil))
	require.Len(t, products, 1)

	assert.Equal(t, http.StatusUnprocessableEntity, anon.do(http.MethodGet, "/products?category=candles", nil).Code)
	assert.Equal(t, http.StatusNotFound, anon.do(http.MethodGet, "/products/42", nil).Code)
	assert.Equal(t, http.StatusBadRequest, anon.do(http.MethodGet, "/products/abc", nil).Code)

	shopper := env.shopper(t, "asha@example.com")
	rec := shopper.do(http.MethodPost, fmt.Sprintf("/favourites/%d/toggle", env.soapID), nil)
	assert.True(t, decodeBody[map[string]any](t, rec)["favourite"].(bool))
	favs := decodeBody[[]models.Product](t, shopper.do(http.MethodGet, "/favourites", nil))
	require.Len(t, favs, 1)
	assert.Equal(t, env.soapID, favs[0].ID)
}

func TestAdminCatalogEndpoints(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)

	rec := admin.do(http.MethodPost, "/admin/products", map[string]any{
		"name": "Rosemary Hydrosol Spray", "category": "haircare", "base_price": "200", "base_volume": "100 ml",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[models.Product](t, rec)
	assert.Equal(t, models.DefaultProductDescription, created.Description)

	rec = admin.do(http.MethodPut, fmt.Sprintf("/admin/products/%d", created.ID), map[string]any{
		"name": "Rosemary Spray", "category": "haircare", "base_price": "250",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Rosemary Spray", decodeBody[models.Product](t, rec).Name)

	rec = admin.do(http.MethodPost, "/admin/products", map[string]any{"name": "Bad", "category": "soap", "base_price": "0"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	assert.Equal(t, http.StatusNoContent, admin.do(http.MethodDelete, fmt.Sprintf("/admin/products/%d", created.ID), nil).Code)
	assert.Equal(t, http.StatusNotFound, admin.do(http.MethodDelete, fmt.Sprintf("/admin/products/%d", created.ID), nil).Code)

	rec = admin.do(http.MethodPost, "/admin/offers", map[string]any{
		"title": "Festive Herbal Glow Offer", "description": "10% off", "discount_percent": 10, "is_active": false,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	offer := decodeBody[models.Offer](t, rec)

	home := decodeBody[catalog.Home](t, admin.do(http.MethodGet, "/", nil))
	assert.Empty(t, home.Offers)

	rec = admin.do(http.MethodPost, fmt.Sprintf("/admin/offers/%d/toggle", offer.ID), nil)
	assert.True(t, decodeBody[models.Offer](t, rec).IsActive)

	home = decodeBody[catalog.Home](t, admin.do(http.MethodGet, "/", nil))
	require.Len(t, home.Offers, 1)

	dash := decodeBody[catalog.Dashboard](t, admin.do(http.MethodGet, "/admin", nil))
	assert.Equal(t, int64(2), dash.ProductCount)
	assert.Equal(t, int64(1), dash.OfferCount)
	assert.Equal(t, int64(0), dash.OrderCount)
}

func TestUpdateCartItemAdjustsGivenQuantity(t *testing.T) {
	env := newTestEnv(t)
	c := env.shopper(t, "asha@example.com")

	rec := c.do(http.MethodPost, "/cart/items", map[string]any{"product_id": env.soapID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	tests := []struct {
		body map[string]any
		want int
	}{
		{map[string]any{"action": "inc", "quantity": 5}, 6},
		{map[string]any{"action": "dec", "quantity": 4}, 3},
		{map[string]any{"action": "dec", "quantity": 1}, 1},
		{map[string]any{"action": "inc", "quantity": 0}, 2},
	}
	for _, tt := range tests {
		rec := c.do(http.MethodPatch, "/cart/items/0", tt.body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		view := decodeBody[cartView](t, rec)
		assert.Equal(t, tt.want, view.Lines[0].Quantity, "%v", tt.body)
		assert.True(t, decimal.NewFromInt(int64(200*tt.want)).Equal(view.Total), view.Total.String())
	}
}

func TestAdminProductsBoundsPage(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)

	type page struct {
		Page     int `json:"page"`
		PageSize int `json:"page_size"`
	}

	rec := admin.do(http.MethodGet, "/admin/products?page=9223372036854775807&page_size=100", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, page{Page: 1, PageSize: 100}, decodeBody[page](t, rec))

	rec = admin.do(http.MethodGet, "/admin/products?page=3&page_size=500", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, page{Page: 3, PageSize: 20}, decodeBody[page](t, rec))
}
