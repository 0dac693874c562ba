package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/safar/nava-store/internal/cart"
	"github.com/safar/nava-store/internal/catalog"
	"github.com/safar/nava-store/internal/database"
	"github.com/safar/nava-store/internal/identity"
	"github.com/safar/nava-store/internal/order"
	"github.com/safar/nava-store/internal/store"
)

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("encode JSON response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// respondErr maps a service error onto a status code. Unexpected errors are
// logged and hidden from the client.
func (s *Server) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		s.respondError(w, status, "Internal server error")
		return
	}
	s.respondError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, database.ErrProductNotFound),
		errors.Is(err, database.ErrOrderNotFound),
		errors.Is(err, database.ErrOfferNotFound),
		errors.Is(err, database.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, identity.ErrUnauthorized),
		errors.Is(err, identity.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, identity.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, identity.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, store.ErrInvalidCursor):
		return http.StatusBadRequest
	case errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrInvalidPaymentDetails),
		errors.Is(err, order.ErrInvalidCustomer),
		errors.Is(err, order.ErrUnknownAction),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, catalog.ErrInvalidCategory),
		errors.Is(err, catalog.ErrInvalidProduct),
		errors.Is(err, catalog.ErrInvalidOffer),
		errors.Is(err, identity.ErrInvalidInput),
		errors.Is(err, identity.ErrPasswordTooLong):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil && id > 0
}

// maxPage bounds offset pagination so page*page_size stays well inside int.
const maxPage = 1_000_000

// queryInt reads a positive integer query value, falling back to def when it
// is missing, malformed or above max.
func queryInt(r *http.Request, key string, def, max int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 1 || (max > 0 && v > max) {
		return def
	}
	return v
}
