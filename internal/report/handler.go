// internal/report/handler.go
package report

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"clubledger/internal/club"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/delinquents", h.handleDelinquents)
	r.Get("/eligible/{activity}", h.handleEligible)
	r.Get("/revenue", h.handleRevenue)
	return r
}

func (h *Handler) handleDelinquents(w http.ResponseWriter, r *http.Request) {
	ids, err := h.service.DelinquentMembers(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	json.NewEncoder(w).Encode(ids)
}

func (h *Handler) handleEligible(w http.ResponseWriter, r *http.Request) {
	ids, err := h.service.EligibleForActivity(r.Context(), chi.URLParam(r, "activity"))
	if err != nil {
		if errors.Is(err, club.ErrInvalidActivity) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	json.NewEncoder(w).Encode(ids)
}

func (h *Handler) handleRevenue(w http.ResponseWriter, r *http.Request) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		http.Error(w, "invalid month", http.StatusBadRequest)
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		http.Error(w, "invalid year", http.StatusBadRequest)
		return
	}

	rev, err := h.service.MonthlyRevenue(r.Context(), month, year)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	json.NewEncoder(w).Encode(rev)
}
