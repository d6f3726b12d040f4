package loan

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"libraryapi/internal/book"
	"libraryapi/internal/httpx"

	"github.com/go-playground/validator/v10"
)

type HTTPHandler struct {
	service  *Service
	validate *validator.Validate
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service, validate: validator.New()}
}

type createLoanRequest struct {
	ISBN     string `json:"isbn" validate:"required"`
	Customer string `json:"customer" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
}

type returnLoanRequest struct {
	Returned *bool `json:"returned" validate:"required"`
}

// Create handles POST /api/loans
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidationDetails(h.validate.Struct(req)); details != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", details)
		return
	}

	id, err := h.service.Create(r.Context(), req.ISBN, req.Customer, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, book.ErrNotFound):
			httpx.JSONError(r, w, http.StatusBadRequest, "BOOK_NOT_FOUND", "Book not found for passed isbn", nil)
		case errors.Is(err, ErrBookAlreadyLoaned):
			httpx.JSONError(r, w, http.StatusConflict, "BOOK_ALREADY_LOANED", "Book already loaned", nil)
		default:
			httpx.JSONError(r, w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		}
		return
	}
	httpx.JSONSuccessCreated(r, w, map[string]any{"id": id})
}

// Return handles PATCH /api/loans/{id}
func (h *HTTPHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.JSONError(r, w, http.StatusBadRequest, "INVALID_ID", "Invalid loan id", nil)
		return
	}

	var req returnLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidationDetails(h.validate.Struct(req)); details != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", details)
		return
	}

	if err := h.service.Return(r.Context(), id, *req.Returned); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpx.JSONError(r, w, http.StatusNotFound, "NOT_FOUND", "Loan not found", nil)
		case errors.Is(err, ErrAlreadyReturned):
			httpx.JSONError(r, w, http.StatusConflict, "ALREADY_RETURNED", "Loan already returned", nil)
		default:
			httpx.JSONError(r, w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		}
		return
	}
	httpx.JSONSuccessNoContent(w)
}

// List handles GET /api/loans
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params := Query{
		ISBN:     query.Get("isbn"),
		Customer: query.Get("customer"),
	}

	page, pageSize := httpx.PageParams(r)
	params.Limit = pageSize
	params.Offset = (page - 1) * pageSize

	loans, total, err := h.service.Find(r.Context(), params)
	if err != nil {
		httpx.JSONError(r, w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(r, w, loans, httpx.PageMeta(page, pageSize, total))
}
