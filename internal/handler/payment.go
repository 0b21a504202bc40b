package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"carpool/internal/domain"
	"carpool/internal/service"
)

// PaymentHandler handles HTTP requests for payments and payouts.
type PaymentHandler struct {
	paymentService *service.PaymentService
	payoutService  *service.PayoutService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService, payoutService *service.PayoutService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		payoutService:  payoutService,
	}
}

// CreateOrderRequest is the HTTP request body for opening a payment order.
type CreateOrderRequest struct {
	BookingID string `json:"booking_id"`
}

// VerifyPaymentRequest is the gateway callback body.
type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

// TransferRequest is the HTTP request body for a driver payout.
type TransferRequest struct {
	BookingID string `json:"booking_id"`
}

// PaymentResponse is the HTTP representation of a payment.
type PaymentResponse struct {
	ID                string  `json:"id"`
	BookingID         string  `json:"booking_id"`
	OrderID           string  `json:"order_id"`
	ExternalPaymentID string  `json:"external_payment_id,omitempty"`
	Amount            float64 `json:"amount"`
	Status            string  `json:"status"`
	Type              string  `json:"type"`
	PayoutStatus      string  `json:"payout_status,omitempty"`
	PayoutDate        string  `json:"payout_date,omitempty"`
}

// WalletResponse is the HTTP representation of a driver wallet summary.
type WalletResponse struct {
	DriverID      string  `json:"driver_id"`
	Balance       float64 `json:"balance"`
	PendingPayout float64 `json:"pending_payout"`
	SettledPayout float64 `json:"settled_payout"`
}

func toPaymentResponse(payment *domain.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:                payment.ID,
		BookingID:         payment.BookingID,
		OrderID:           payment.OrderID,
		ExternalPaymentID: payment.ExternalPaymentID,
		Amount:            payment.Amount,
		Status:            string(payment.Status),
		Type:              string(payment.Type),
		PayoutStatus:      string(payment.PayoutStatus),
	}
	if !payment.PayoutDate.IsZero() {
		resp.PayoutDate = payment.PayoutDate.Format(time.RFC3339)
	}
	return resp
}

func toPaymentResponses(payments []*domain.Payment) []PaymentResponse {
	resp := make([]PaymentResponse, 0, len(payments))
	for _, payment := range payments {
		resp = append(resp, toPaymentResponse(payment))
	}
	return resp
}

// CreateOrder handles POST /v1/payments/order
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	payment, err := h.paymentService.CreateOrder(c.Request.Context(), callerID(c), req.BookingID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toPaymentResponse(payment))
}

// VerifyPayment handles POST /v1/payments/verify
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	payment, err := h.paymentService.VerifyPayment(c.Request.Context(), service.VerifyPaymentRequest{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPaymentResponse(payment))
}

// ListMyPayments handles GET /v1/payments
func (h *PaymentHandler) ListMyPayments(c *gin.Context) {
	payments, err := h.paymentService.PassengerPayments(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPaymentResponses(payments))
}

// ListReceivedPayments handles GET /v1/payments/received
func (h *PaymentHandler) ListReceivedPayments(c *gin.Context) {
	payments, err := h.paymentService.DriverPayments(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPaymentResponses(payments))
}

// Transfer handles POST /v1/payouts
func (h *PaymentHandler) Transfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	payout, err := h.payoutService.TransferToDriver(c.Request.Context(), callerID(c), req.BookingID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toPaymentResponse(payout))
}

// GetWallet handles GET /v1/wallet
func (h *PaymentHandler) GetWallet(c *gin.Context) {
	wallet, err := h.payoutService.GetWallet(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, WalletResponse{
		DriverID:      wallet.DriverID,
		Balance:       wallet.Balance,
		PendingPayout: wallet.PendingPayout,
		SettledPayout: wallet.SettledPayout,
	})
}
