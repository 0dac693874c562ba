package api

import (
	"net/http"

	"github.com/safar/nava-store/internal/models"
	"github.com/safar/nava-store/internal/order"
)

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
		order.AddressParts
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	o, err := s.orders.Checkout(r.Context(), sessionFrom(r.Context()), order.Customer{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: order.ComposeAddress(req.AddressParts),
	})
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, o)
}

// handleOrderStatus is the public tracking view: anyone holding the order
// number may follow its progress.
func (s *Server) handleOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.respondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	o, err := s.orders.Get(r.Context(), id)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, struct {
		Order    *models.Order  `json:"order"`
		Progress order.Progress `json:"progress"`
	}{o, order.ProgressOf(o)})
}

func (s *Server) handleMyOrders(w http.ResponseWriter, r *http.Request) {
	actor := sessionFrom(r.Context()).Actor
	orders, err := s.orders.OrdersForUser(r.Context(), actor.UserID)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	s.respondJSON(w, http.StatusOK, orders)
}

func (s *Server) handlePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.respondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var req struct {
		AccountNumber string `json:"account_number"`
		CardType      string `json:"card_type"`
		PIN           string `json:"pin"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := r.Context()
	if _, err := s.orders.GetFor(ctx, id, sessionFrom(ctx).Actor); err != nil {
		s.respondErr(w, r, err)
		return
	}

	o, err := s.orders.CapturePayment(ctx, id, order.PaymentDetails{
		AccountRef: req.AccountNumber,
		CardType:   req.CardType,
		PIN:        req.PIN,
	})
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, o)
}

func (s *Server) handleReceipt(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.respondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	o, err := s.orders.GetFor(r.Context(), id, sessionFrom(r.Context()).Actor)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, struct {
		Order *models.Order `json:"order"`
		Paid  bool          `json:"paid"`
	}{o, order.IsPaid(o)})
}

func (s *Server) handleReached(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.respondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	applied, err := s.orders.MarkReached(r.Context(), id, sessionFrom(r.Context()).Actor)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondStatusChange(w, r, id, applied)
}

// respondStatusChange reports the order after a status action along with
// whether the action moved it.
func (s *Server) respondStatusChange(w http.ResponseWriter, r *http.Request, id int64, applied bool) {
	o, err := s.orders.Get(r.Context(), id)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, struct {
		Order   *models.Order `json:"order"`
		Applied bool          `json:"applied"`
	}{o, applied})
}
