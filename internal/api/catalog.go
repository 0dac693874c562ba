package api

import (
	"net/http"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	home, err := s.catalog.Home(r.Context())
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, home)
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := s.catalog.List(r.Context(), q.Get("category"), q.Get("q"))
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, products)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := s.catalog.Get(r.Context(), id)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, product)
}

func (s *Server) handleFavourites(w http.ResponseWriter, r *http.Request) {
	actor := sessionFrom(r.Context()).Actor
	products, err := s.catalog.Favourites(r.Context(), actor.UserID)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, products)
}

func (s *Server) handleToggleFavourite(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(r, "productID")
	if !ok {
		s.respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	actor := sessionFrom(r.Context()).Actor
	favourite, err := s.catalog.ToggleFavourite(r.Context(), actor.UserID, productID)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"product_id": productID, "favourite": favourite})
}
