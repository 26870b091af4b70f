package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/go-storefront/internal/catalog"
	"github.com/imrishuroy/go-storefront/internal/validation"
)

// ProductsConfig groups dependencies for the product handlers.
type ProductsConfig struct {
	Store     *catalog.Store
	Validator *validatorv10.Validate
}

// RegisterProductRoutes registers the public menu routes on public and the
// management routes on admin.
func RegisterProductRoutes(public, admin gin.IRouter, cfg ProductsConfig) {
	public.GET("/products", func(c *gin.Context) {
		category := c.Query("category")
		if category != "" && category != "all" && !catalog.ValidCategory(category) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown_category"})
			return
		}
		products, err := cfg.Store.List(c.Request.Context(), category)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list_failed", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": products})
	})

	public.GET("/products/:id", func(c *gin.Context) {
		product, err := cfg.Store.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product_not_found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "get_failed", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, product)
	})

	admin.POST("/products", func(c *gin.Context) {
		var req validation.ProductRequest
		if err := validation.BindAndValidate(c, &req, cfg.Validator); err != nil {
			return
		}
		if !catalog.ValidCategory(req.Category) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown_category"})
			return
		}
		np := catalog.NewProduct{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Category:    req.Category,
			ImageURL:    req.ImageURL,
		}
		product, err := cfg.Store.Create(c.Request.Context(), np)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create_failed", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, product)
	})

	admin.PUT("/products/:id", func(c *gin.Context) {
		var req validation.ProductPatchRequest
		if err := validation.BindAndValidate(c, &req, cfg.Validator); err != nil {
			return
		}
		if req.Category != nil && !catalog.ValidCategory(*req.Category) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown_category"})
			return
		}
		patch := catalog.ProductPatch{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Category:    req.Category,
			ImageURL:    req.ImageURL,
			Available:   req.Available,
		}
		product, err := cfg.Store.Update(c.Request.Context(), c.Param("id"), patch)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product_not_found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update_failed", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, product)
	})

	// delete is a soft delete: the product drops off the menu but stays in
	// the table so past order lines keep resolving.
	admin.DELETE("/products/:id", func(c *gin.Context) {
		err := cfg.Store.SoftDelete(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product_not_found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "delete_failed", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	})
}
