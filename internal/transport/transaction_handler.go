package transport

import (
	"errors"
	"net/http"

	"stock-ledger/internal/middleware"
	"stock-ledger/internal/repository"
	"stock-ledger/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateTransactionRequest represents the purchase request payload
type CreateTransactionRequest struct {
	UserID    int64 `json:"user_id" validate:"required,gt=0"`
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

// TransactionHandler handles HTTP requests for transaction operations
type TransactionHandler struct {
	transactionService service.TransactionService
	logger             *zap.Logger
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService service.TransactionService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		logger:             logger,
	}
}

// RegisterRoutes registers all transaction routes. The optional commit
// middleware (rate limiting) wraps only the purchase endpoint.
func (h *TransactionHandler) RegisterRoutes(r chi.Router, commitMiddleware ...func(http.Handler) http.Handler) {
	r.Route("/api/transactions", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(commitMiddleware...)
			r.Post("/", h.Create)
		})
		r.Get("/", h.List)
		r.Get("/{id}", h.GetByID)
	})
}

// Create handles committing a purchase transaction
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Transaction validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	transaction, err := h.transactionService.Commit(r.Context(), req.UserID, req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound),
			errors.Is(err, repository.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrProductNotForSale),
			errors.Is(err, service.ErrInsufficientStock):
			middleware.RespondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrInvalidQuantity):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Transaction commit failed",
				zap.Error(err),
				zap.Int64("user_id", req.UserID),
				zap.Int64("product_id", req.ProductID),
				zap.Int("quantity", req.Quantity),
			)
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create transaction")
		}
		return
	}

	h.logger.Info("Transaction committed",
		zap.Int64("transaction_id", transaction.ID),
		zap.Int64("user_id", transaction.UserID),
		zap.Int64("product_id", transaction.ProductID),
		zap.Int("quantity", transaction.Quantity),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, transaction)
}

// List handles listing all transactions
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.transactionService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list transactions", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, transactions)
}

// GetByID handles retrieving a single transaction
func (h *TransactionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid transaction ID")
		return
	}

	transaction, err := h.transactionService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "transaction not found")
			return
		}

		h.logger.Error("Failed to get transaction", zap.Error(err), zap.Int64("transaction_id", id))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get transaction")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, transaction)
}
