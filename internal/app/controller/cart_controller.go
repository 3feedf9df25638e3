package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minhtvo/storefront-gateway/internal/app/service"
	"github.com/minhtvo/storefront-gateway/internal/errors"
	"github.com/minhtvo/storefront-gateway/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
	Variant   string `json:"variant"`
}

type UpdateCartRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart returns the session's cart with derived totals
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	cart, err := ctrl.cartService.Get(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// AddToCart resolves the product and merges it into the cart
// POST /api/v1/cart/items
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add-to-cart request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Mã sản phẩm là bắt buộc")
		return
	}

	cart, err := ctrl.cartService.Add(c.Request.Context(), middleware.GetSessionID(c), req.ProductID, req.Quantity, req.Variant)
	if err != nil {
		errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// UpdateQuantity pins a line's quantity; zero or less removes the line
// PUT /api/v1/cart/items/:id
func (ctrl *CartController) UpdateQuantity(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid cart update request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Số lượng không hợp lệ")
		return
	}

	cart, err := ctrl.cartService.SetQuantity(c.Request.Context(), middleware.GetSessionID(c), c.Param("id"), req.Quantity)
	if err != nil {
		errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// RemoveItem drops a line from the cart
// DELETE /api/v1/cart/items/:id
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	cart, err := ctrl.cartService.Remove(c.Request.Context(), middleware.GetSessionID(c), c.Param("id"))
	if err != nil {
		errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// ClearCart empties the cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	if err := ctrl.cartService.Clear(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Đã xóa giỏ hàng",
	})
}
