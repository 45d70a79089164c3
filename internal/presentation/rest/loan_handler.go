package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/iprofitlabs/lending-service/internal/application/dto"
	"github.com/iprofitlabs/lending-service/internal/application/usecase"
	"github.com/iprofitlabs/lending-service/internal/domain/valueobject"
	"github.com/iprofitlabs/lending-service/pkg/auth"
)

// LoanHandler exposes the borrower-facing loan operations over HTTP. Admin
// operations (review, disbursal, default, penalties) are gRPC only.
type LoanHandler struct {
	apply   *usecase.ApplyForLoanUseCase
	payment *usecase.MakePaymentUseCase
	getLoan *usecase.GetLoanUseCase
	jwt     *auth.JWTService
	logger  *slog.Logger
}

// NewLoanHandler creates the REST handler.
func NewLoanHandler(
	apply *usecase.ApplyForLoanUseCase,
	payment *usecase.MakePaymentUseCase,
	getLoan *usecase.GetLoanUseCase,
	jwt *auth.JWTService,
	logger *slog.Logger,
) *LoanHandler {
	return &LoanHandler{
		apply:   apply,
		payment: payment,
		getLoan: getLoan,
		jwt:     jwt,
		logger:  logger,
	}
}

// RegisterRoutes attaches the loan routes to the given router.
func (h *LoanHandler) RegisterRoutes(r *mux.Router) {
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(h.authenticate)

	api.HandleFunc("/loans", h.applyLoan).Methods(http.MethodPost)
	api.HandleFunc("/loans", h.listLoans).Methods(http.MethodGet)
	api.HandleFunc("/loans/{id}", h.getOne).Methods(http.MethodGet)
	api.HandleFunc("/loans/{id}/payments", h.makePayment).Methods(http.MethodPost)
}

// authenticate validates the bearer token and stows the claims in the
// request context.
func (h *LoanHandler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := h.jwt.ValidateToken(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.ContextWithClaims(r.Context(), claims)))
	})
}

func (h *LoanHandler) applyLoan(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())

	var req dto.ApplyLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.UserID = claims.UserID

	resp, err := h.apply.Execute(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *LoanHandler) listLoans(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())

	loans, err := h.getLoan.ListByUser(r.Context(), dto.ListLoansRequest{UserID: claims.UserID})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"loans": loans})
}

func (h *LoanHandler) getOne(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	loanID := mux.Vars(r)["id"]

	resp, err := h.getLoan.Execute(r.Context(), dto.GetLoanRequest{LoanID: loanID})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	if resp.UserID != claims.UserID && !claims.HasRole(auth.RoleAdmin) && !claims.HasRole(auth.RoleSupport) {
		writeError(w, http.StatusForbidden, "not your loan")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *LoanHandler) makePayment(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	loanID := mux.Vars(r)["id"]

	var req dto.MakePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.LoanID = loanID
	req.UserID = claims.UserID
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = r.Header.Get("Idempotency-Key")
	}

	resp, err := h.payment.Execute(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeDomainError maps domain sentinels onto HTTP status codes.
func (h *LoanHandler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, valueobject.ErrLoanNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, valueobject.ErrValidation),
		errors.Is(err, valueobject.ErrInvalidPaymentAmount),
		errors.Is(err, valueobject.ErrPrepaymentUnsupported),
		errors.Is(err, valueobject.ErrPenaltyExceeded),
		errors.Is(err, valueobject.ErrNoPendingInstallments):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, valueobject.ErrKYCNotApproved),
		errors.Is(err, valueobject.ErrOpenLoanExists),
		errors.Is(err, valueobject.ErrScoreTooLow),
		errors.Is(err, valueobject.ErrDTITooHigh),
		errors.Is(err, valueobject.ErrLoanNotActive),
		errors.Is(err, valueobject.ErrInvalidStatusTransition),
		errors.Is(err, valueobject.ErrInsufficientBalance):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
