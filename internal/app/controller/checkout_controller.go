package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minhtvo/storefront-gateway/internal/app/model"
	"github.com/minhtvo/storefront-gateway/internal/app/service"
	"github.com/minhtvo/storefront-gateway/internal/errors"
	"github.com/minhtvo/storefront-gateway/internal/middleware"
)

type CheckoutController struct {
	checkoutService service.CheckoutService
}

func NewCheckoutController(checkoutService service.CheckoutService) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
	}
}

type ShippingRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
}

type PaymentRequest struct {
	Method string `json:"method" binding:"required"`
}

// Start opens the checkout wizard at the shipping step
// POST /api/v1/checkout/start
func (ctrl *CheckoutController) Start(c *gin.Context) {
	state, err := ctrl.checkoutService.Start(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"checkout": state,
	})
}

// SubmitShipping stores the form and advances to the payment step
// POST /api/v1/checkout/shipping
func (ctrl *CheckoutController) SubmitShipping(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid shipping request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Thông tin giao hàng không hợp lệ")
		return
	}

	state, err := ctrl.checkoutService.SubmitShipping(c.Request.Context(), middleware.GetSessionID(c), model.ShippingInfo{
		Name:       req.Name,
		Email:      req.Email,
		Address:    req.Address,
		City:       req.City,
		Province:   req.Province,
		PostalCode: req.PostalCode,
		Phone:      req.Phone,
	})
	if err != nil {
		errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"checkout": state,
	})
}

// SubmitPayment places the order. COD finishes here; MoMo and VNPAY return
// a hosted-payment URL in the checkout state.
// POST /api/v1/checkout/payment
func (ctrl *CheckoutController) SubmitPayment(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid payment request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Phương thức thanh toán là bắt buộc")
		return
	}

	state, err := ctrl.checkoutService.SubmitPayment(c.Request.Context(), middleware.GetSessionID(c), model.PaymentMethod(req.Method))
	if err != nil {
		errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"checkout": state,
	})
}

// State returns the current wizard snapshot
// GET /api/v1/checkout
func (ctrl *CheckoutController) State(c *gin.Context) {
	state, err := ctrl.checkoutService.State(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"checkout": state,
	})
}

// Cancel abandons an unfinished wizard
// DELETE /api/v1/checkout
func (ctrl *CheckoutController) Cancel(c *gin.Context) {
	if err := ctrl.checkoutService.Cancel(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Đã hủy phiên thanh toán",
	})
}
