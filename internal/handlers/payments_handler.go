package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/go-storefront/internal/checkout"
	"github.com/imrishuroy/go-storefront/internal/notify"
	"github.com/imrishuroy/go-storefront/internal/payments"
	"github.com/imrishuroy/go-storefront/internal/validation"
)

// PaymentsConfig groups dependencies for the payment and email handlers.
type PaymentsConfig struct {
	Payments  *payments.Service
	Notifier  checkout.Notifier // nil when the email queue is not configured
	Validator *validatorv10.Validate
}

// RegisterPaymentRoutes registers the payment and email routes on authed.
func RegisterPaymentRoutes(authed gin.IRouter, cfg PaymentsConfig) {
	authed.POST("/payments/create-razorpay-order", func(c *gin.Context) {
		if cfg.Payments == nil || !cfg.Payments.Enabled() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "payments_not_configured"})
			return
		}
		var req validation.RazorpayOrderRequest
		if err := validation.BindAndValidate(c, &req, cfg.Validator); err != nil {
			return
		}
		created, err := cfg.Payments.CreateOrder(req.Amount, req.Receipt)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "payment_gateway_failed", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, created)
	})

	// re-enqueue a confirmation email, for clients retrying after a
	// delivery failure
	authed.POST("/send-order-email", func(c *gin.Context) {
		var req validation.SendEmailRequest
		if err := validation.BindAndValidate(c, &req, cfg.Validator); err != nil {
			return
		}
		if cfg.Notifier == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "email_not_configured"})
			return
		}
		email := notify.OrderEmail{
			OrderNumber:   req.OrderNumber,
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			Items:         toOrderItems(req.Items),
			Total:         req.Total,
			PointsEarned:  req.PointsEarned,
			PointsUsed:    req.PointsUsed,
		}
		if err := cfg.Notifier.OrderPlaced(c.Request.Context(), email); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "enqueue_failed", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"queued": true})
	})
}
