package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/go-storefront/internal/auth"
	"github.com/imrishuroy/go-storefront/internal/checkout"
	"github.com/imrishuroy/go-storefront/internal/fallback"
	"github.com/imrishuroy/go-storefront/internal/loyalty"
	"github.com/imrishuroy/go-storefront/internal/metrics"
	"github.com/imrishuroy/go-storefront/internal/orders"
	"github.com/imrishuroy/go-storefront/internal/validation"
)

// OrdersConfig groups dependencies for the order and loyalty handlers.
type OrdersConfig struct {
	Coordinator *checkout.Coordinator
	Orders      *orders.Store
	Profiles    *loyalty.Store
	Fallback    *fallback.Store // nil when no fallback is configured
	Validator   *validatorv10.Validate
}

const defaultAdminListLimit = 50

// RegisterOrderRoutes registers the customer routes on authed and the staff
// routes on admin.
func RegisterOrderRoutes(authed, admin gin.IRouter, cfg OrdersConfig) {
	authed.POST("/orders", func(c *gin.Context) {
		var req validation.CheckoutRequest
		if err := validation.BindAndValidate(c, &req, cfg.Validator); err != nil {
			return
		}

		res, err := cfg.Coordinator.PlaceOrder(c.Request.Context(), checkout.PlaceOrderInput{
			UserID:          auth.UserID(c),
			CustomerName:    req.CustomerName,
			CustomerPhone:   req.CustomerPhone,
			CustomerEmail:   req.CustomerEmail,
			Items:           toOrderItems(req.Items),
			Total:           req.Total,
			RequestedPoints: req.RedeemPoints,
		})
		metrics.RecordOrderOperation("place", err == nil)
		if err != nil {
			writeCheckoutError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"order": res.Order, "profile": res.Profile})
	})

	authed.GET("/orders", func(c *gin.Context) {
		list, err := cfg.Orders.ListByUser(c.Request.Context(), auth.UserID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list_failed", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": list})
	})

	authed.GET("/orders/:id", func(c *gin.Context) {
		order, err := cfg.Orders.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, orders.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "get_failed", "detail": err.Error()})
			return
		}
		// customers only see their own orders; a miss looks identical to a
		// missing order so ids can't be probed
		if order.UserID != auth.UserID(c) && !isStaff(c) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
			return
		}
		c.JSON(http.StatusOK, order)
	})

	authed.GET("/orders/number/:number", func(c *gin.Context) {
		number := c.Param("number")
		order, err := cfg.Orders.GetByNumber(c.Request.Context(), number)
		if err != nil && cfg.Fallback != nil {
			// the order may have been written locally while DynamoDB was down
			order, err = cfg.Fallback.GetByNumber(c.Request.Context(), number)
		}
		if err != nil {
			if errors.Is(err, orders.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "get_failed", "detail": err.Error()})
			return
		}
		if order.UserID != auth.UserID(c) && !isStaff(c) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
			return
		}
		c.JSON(http.StatusOK, order)
	})

	authed.GET("/loyalty/profile", func(c *gin.Context) {
		profile, err := cfg.Profiles.GetOrCreate(c.Request.Context(), auth.UserID(c), "", "")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "profile_failed", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, profile)
	})

	admin.GET("/orders", func(c *gin.Context) {
		limit := defaultAdminListLimit
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_limit"})
				return
			}
			limit = n
		}

		// store=local lists orders that landed on the fallback node
		if c.Query("store") == "local" {
			if cfg.Fallback == nil {
				c.JSON(http.StatusOK, gin.H{"orders": []*orders.Order{}})
				return
			}
			list, err := cfg.Fallback.ListRecent(c.Request.Context(), limit)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "list_failed", "detail": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"orders": list})
			return
		}

		list, err := cfg.Orders.ListRecent(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list_failed", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": list})
	})

	admin.GET("/orders/pending", func(c *gin.Context) {
		list, err := cfg.Orders.ListPending(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list_failed", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": list})
	})

	admin.PUT("/orders/:id/status", func(c *gin.Context) {
		var req validation.StatusUpdateRequest
		if err := validation.BindAndValidate(c, &req, cfg.Validator); err != nil {
			return
		}
		if !orders.KnownStatus(req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown_status"})
			return
		}
		order, err := cfg.Orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
		metrics.RecordOrderOperation("status_update", err == nil)
		if err != nil {
			switch {
			case errors.Is(err, orders.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
			case errors.Is(err, orders.ErrBadTransition):
				c.JSON(http.StatusConflict, gin.H{"error": "invalid_transition"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "update_failed", "detail": err.Error()})
			}
			return
		}
		c.JSON(http.StatusOK, order)
	})

	admin.POST("/orders/offline", func(c *gin.Context) {
		var req validation.OfflineOrderRequest
		if err := validation.BindAndValidate(c, &req, cfg.Validator); err != nil {
			return
		}
		res, err := cfg.Coordinator.PlaceOrder(c.Request.Context(), checkout.PlaceOrderInput{
			CustomerName:  req.CustomerName,
			CustomerPhone: req.CustomerPhone,
			Items:         toOrderItems(req.Items),
			Total:         req.Total,
			Offline:       true,
		})
		metrics.RecordOrderOperation("place_offline", err == nil)
		if err != nil {
			writeCheckoutError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"order": res.Order})
	})
}

func writeCheckoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, checkout.ErrInvalidOrder):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_order", "detail": err.Error()})
	case errors.Is(err, loyalty.ErrInsufficientPoints):
		c.JSON(http.StatusConflict, gin.H{"error": "insufficient_points"})
	default:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "order_failed", "detail": err.Error()})
	}
}

func isStaff(c *gin.Context) bool {
	role := c.GetString(auth.ContextRole)
	return role == auth.RoleStaff || role == "admin"
}

func toOrderItems(items []validation.Item) []orders.Item {
	out := make([]orders.Item, 0, len(items))
	for _, it := range items {
		out = append(out, orders.Item{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}
	return out
}
