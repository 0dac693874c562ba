package api

import (
	"net/http"

	"github.com/safar/nava-store/internal/catalog"
	"github.com/safar/nava-store/internal/order"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.catalog.Dashboard(r.Context(), s.counter)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, d)
}

func (s *Server) handleAdminProducts(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1, maxPage)
	pageSize := queryInt(r, "page_size", 20, 100)

	result, err := s.catalog.ProductPage(r.Context(), page, pageSize)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req catalog.ProductInput
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := s.catalog.CreateProduct(r.Context(), req)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, product)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req catalog.ProductInput
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := s.catalog.UpdateProduct(r.Context(), id, req)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, product)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if err := s.catalog.DeleteProduct(r.Context(), id); err != nil {
		s.respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdminOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := s.catalog.Offers(r.Context())
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, offers)
}

func (s *Server) handleCreateOffer(w http.ResponseWriter, r *http.Request) {
	var req catalog.OfferInput
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	offer, err := s.catalog.CreateOffer(r.Context(), req)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, offer)
}

func (s *Server) handleToggleOffer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.respondError(w, http.StatusBadRequest, "Invalid offer ID")
		return
	}

	offer, err := s.catalog.ToggleOffer(r.Context(), id)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, offer)
}

func (s *Server) handleAdminOrders(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20, 100)

	result, err := s.orders.AllOrders(r.Context(), r.URL.Query().Get("cursor"), limit)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleAdvanceStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.respondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var req struct {
		Action string `json:"action"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	action, err := order.ParseAction(req.Action)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	applied, err := s.orders.AdvanceStatus(r.Context(), id, action)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondStatusChange(w, r, id, applied)
}
