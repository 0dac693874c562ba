package api

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/safar/nava-store/internal/cart"
)

type cartView struct {
	Lines []cart.Line     `json:"lines"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

func newCartView(c cart.Cart) cartView {
	lines := c.Lines
	if lines == nil {
		lines = []cart.Line{}
	}
	return cartView{Lines: lines, Total: c.Total(), Count: len(lines)}
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	c, err := s.carts.Get(r.Context(), sessionFrom(r.Context()).ID)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, newCartView(c))
}

func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int64  `json:"product_id"`
		Quantity  *int   `json:"quantity"`
		Variant   string `json:"variant"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	c, err := s.carts.Add(r.Context(), sessionFrom(r.Context()).ID, req.ProductID, quantity, cart.ParseVariant(req.Variant))
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, newCartView(c))
}

func (s *Server) handleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid line index")
		return
	}

	c, err := s.carts.Remove(r.Context(), sessionFrom(r.Context()).ID, index)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, newCartView(c))
}

func (s *Server) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid line index")
		return
	}

	var req struct {
		Action   string `json:"action"`
		Quantity *int   `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// A quantity in the body is the starting point the action adjusts.
	var op cart.QuantityOp
	switch {
	case req.Quantity != nil && *req.Quantity != 0:
		q := *req.Quantity
		switch req.Action {
		case "inc":
			q++
		case "dec":
			q--
		}
		op = cart.SetQuantity(q)
	case req.Action == "inc":
		op = cart.Increment()
	case req.Action == "dec":
		op = cart.Decrement()
	default:
		s.respondError(w, http.StatusBadRequest, `Expected "action" of inc or dec, or a "quantity"`)
		return
	}

	c, err := s.carts.UpdateQuantity(r.Context(), sessionFrom(r.Context()).ID, index, op)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, newCartView(c))
}
