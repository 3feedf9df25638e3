package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minhtvo/storefront-gateway/internal/app/service"
	"github.com/minhtvo/storefront-gateway/internal/errors"
	"github.com/minhtvo/storefront-gateway/internal/middleware"
)

type WishlistController struct {
	wishlistService service.WishlistService
}

func NewWishlistController(wishlistService service.WishlistService) *WishlistController {
	return &WishlistController{
		wishlistService: wishlistService,
	}
}

type WishlistRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// GetWishlist returns the session's wishlist
// GET /api/v1/wishlist
func (ctrl *WishlistController) GetWishlist(c *gin.Context) {
	items, err := ctrl.wishlistService.Items(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// AddToWishlist inserts a product; already-wishlisted ids are left alone
// POST /api/v1/wishlist/items
func (ctrl *WishlistController) AddToWishlist(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req WishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid wishlist request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Mã sản phẩm là bắt buộc")
		return
	}

	items, err := ctrl.wishlistService.Add(c.Request.Context(), middleware.GetSessionID(c), req.ProductID)
	if err != nil {
		errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// RemoveFromWishlist drops a product; unknown ids are a no-op
// DELETE /api/v1/wishlist/items/:id
func (ctrl *WishlistController) RemoveFromWishlist(c *gin.Context) {
	items, err := ctrl.wishlistService.Remove(c.Request.Context(), middleware.GetSessionID(c), c.Param("id"))
	if err != nil {
		errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// Toggle flips a product's wishlisted state
// POST /api/v1/wishlist/toggle
func (ctrl *WishlistController) Toggle(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req WishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid wishlist toggle request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Mã sản phẩm là bắt buộc")
		return
	}

	wishlisted, items, err := ctrl.wishlistService.Toggle(c.Request.Context(), middleware.GetSessionID(c), req.ProductID)
	if err != nil {
		errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"wishlisted": wishlisted,
		"items":      items,
		"count":      len(items),
	})
}
