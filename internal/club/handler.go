// internal/club/handler.go
package club

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"clubledger/internal/auth"
)

type Handler struct {
	service Service
	keys    *auth.KeyRing
	admin   *auth.AllowList
}

// NewHandler wraps the service. keys may be nil, in which case callers
// identify themselves with the X-Principal header alone. admin may be nil,
// which hides the allow-list administration endpoints.
func NewHandler(service Service, keys *auth.KeyRing, admin *auth.AllowList) *Handler {
	return &Handler{service: service, keys: keys, admin: admin}
}

// Routes mounts the club API. Mutating endpoints share one rate limiter.
func (h *Handler) Routes(limiter *rate.Limiter) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(throttle(limiter))
		r.Post("/members", h.handleRegisterMember)
		r.Post("/members/{dni}/payments", h.handleIssuePayment)
		r.Post("/payments", h.handleRecordPayment)
		r.Put("/prices/{category}", h.handleSetPrice)
		r.Put("/settings/discount", h.handleSetDiscount)
		r.Put("/settings/qualifying-months", h.handleSetQualifyingMonths)
		if h.admin != nil {
			r.Put("/admin/owner", h.handleSetOwner)
			r.Post("/admin/grants", h.handleGrant)
			r.Delete("/admin/grants/{principal}", h.handleRevoke)
			r.Post("/admin/policy/toggle", h.handleTogglePolicy)
		}
	})

	r.Get("/members", h.handleListMembers)
	r.Get("/members/{dni}", h.handleGetMember)
	r.Get("/members/{dni}/payments", h.handleListPayments)
	r.Get("/prices/{category}", h.handleGetPrice)
	r.Get("/statement", h.handleStatement)

	return r
}

// throttle rejects mutations beyond the configured rate. A nil limiter
// disables throttling.
func throttle(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter != nil && !limiter.Allow() {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// principal resolves the caller identity: an API key when a ring is
// configured, the X-Principal header otherwise. Unresolvable callers get the
// empty principal and fail the capability check downstream.
func (h *Handler) principal(r *http.Request) string {
	if h.keys != nil {
		if key := r.Header.Get("X-API-Key"); key != "" {
			return h.keys.Lookup(key)
		}
	}
	return r.Header.Get("X-Principal")
}

func (h *Handler) handleRegisterMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DNI      uint64 `json:"dni"`
		Category string `json:"category"`
		Activity string `json:"activity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.RegisterMember(r.Context(), h.principal(r), req.DNI, req.Category, req.Activity); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DNI    uint64 `json:"dni"`
		Amount uint64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.RecordPayment(r.Context(), h.principal(r), req.DNI, req.Amount); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleIssuePayment(w http.ResponseWriter, r *http.Request) {
	dni, ok := dniParam(w, r)
	if !ok {
		return
	}
	if err := h.service.IssueNextPayment(r.Context(), h.principal(r), dni); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) handleListMembers(w http.ResponseWriter, r *http.Request) {
	ids := h.service.ListMemberIDs(r.Context(), h.principal(r))
	json.NewEncoder(w).Encode(ids)
}

func (h *Handler) handleGetMember(w http.ResponseWriter, r *http.Request) {
	dni, ok := dniParam(w, r)
	if !ok {
		return
	}
	member, err := h.service.GetMember(r.Context(), h.principal(r), dni)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(member)
}

func (h *Handler) handleListPayments(w http.ResponseWriter, r *http.Request) {
	dni, ok := dniParam(w, r)
	if !ok {
		return
	}
	payments, err := h.service.PaymentsFor(r.Context(), h.principal(r), dni)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(payments)
}

func (h *Handler) handleStatement(w http.ResponseWriter, r *http.Request) {
	var dni *uint64
	if raw := r.URL.Query().Get("dni"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			http.Error(w, "invalid dni", http.StatusBadRequest)
			return
		}
		dni = &v
	}
	st, err := h.service.PaymentAmounts(r.Context(), h.principal(r), dni)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(st)
}

func (h *Handler) handleSetPrice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount uint64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	category := Category(chi.URLParam(r, "category"))
	if err := h.service.SetPrice(r.Context(), h.principal(r), category, req.Amount); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleGetPrice(w http.ResponseWriter, r *http.Request) {
	category := Category(chi.URLParam(r, "category"))
	amount, err := h.service.Price(r.Context(), h.principal(r), category)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(map[string]uint64{"amount": amount})
}

func (h *Handler) handleSetDiscount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Percent uint64 `json:"percent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.service.SetDiscountPercent(r.Context(), h.principal(r), req.Percent); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleSetQualifyingMonths(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Months uint64 `json:"months"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.service.SetQualifyingMonths(r.Context(), h.principal(r), req.Months); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleGrant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Principal string `json:"principal"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.admin.Grant(h.principal(r), req.Principal); err != nil {
		adminError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.Revoke(h.principal(r), chi.URLParam(r, "principal")); err != nil {
		adminError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleSetOwner(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Owner string `json:"owner"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.admin.SetOwner(h.principal(r), req.Owner); err != nil {
		adminError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleTogglePolicy(w http.ResponseWriter, r *http.Request) {
	enforced, err := h.admin.TogglePolicy(h.principal(r))
	if err != nil {
		adminError(w, err)
		return
	}
	json.NewEncoder(w).Encode(map[string]bool{"enforced": enforced})
}

func dniParam(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	dni, err := strconv.ParseUint(chi.URLParam(r, "dni"), 10, 64)
	if err != nil {
		http.Error(w, "invalid dni", http.StatusBadRequest)
		return 0, false
	}
	return dni, true
}

// writeError maps the error taxonomy to HTTP statuses so clients can branch
// without parsing messages.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotAuthorized):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, ErrMemberNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrMemberExists), errors.Is(err, ErrNoPendingPayment):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrInvalidCategory), errors.Is(err, ErrInvalidActivity), errors.Is(err, ErrCategoryNotPriced):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrAmountMismatch):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// adminError maps allow-list administration failures. Non-owners get 403, not
// 401: the caller is identified, just not privileged.
func adminError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrNotOwner):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, auth.ErrAlreadyGranted):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, auth.ErrNotGranted):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
