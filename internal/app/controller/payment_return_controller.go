package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minhtvo/storefront-gateway/internal/app/service"
	"github.com/minhtvo/storefront-gateway/internal/errors"
	"github.com/minhtvo/storefront-gateway/internal/middleware"
)

type PaymentReturnController struct {
	returnService service.PaymentReturnService
}

func NewPaymentReturnController(returnService service.PaymentReturnService) *PaymentReturnController {
	return &PaymentReturnController{
		returnService: returnService,
	}
}

// MomoReturn lands the shopper back from MoMo's hosted-payment page. Every
// query parameter is forwarded to the commerce API for verification.
// GET /api/v1/payment/momo/return
func (ctrl *PaymentReturnController) MomoReturn(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	outcome, err := ctrl.returnService.MomoReturn(c.Request.Context(), middleware.GetSessionID(c), c.Request.URL.Query())
	if err != nil {
		log.Error("MoMo return handling failed", err, nil)
		errors.Respond(c, err)
		return
	}

	ctrl.respond(c, outcome)
}

// VnpayReturn lands the shopper back from VNPAY's hosted-payment page
// GET /api/v1/payment/vnpay/return
func (ctrl *PaymentReturnController) VnpayReturn(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	outcome, err := ctrl.returnService.VnpayReturn(c.Request.Context(), middleware.GetSessionID(c), c.Request.URL.Query())
	if err != nil {
		log.Error("VNPAY return handling failed", err, nil)
		errors.Respond(c, err)
		return
	}

	ctrl.respond(c, outcome)
}

func (ctrl *PaymentReturnController) respond(c *gin.Context, outcome *service.PaymentOutcome) {
	if !outcome.Success {
		c.JSON(http.StatusOK, gin.H{
			"success":  false,
			"order_id": outcome.OrderID,
			"error":    errors.PaymentNotConfirmed,
			"message":  "Thanh toán không thành công hoặc đã bị hủy",
		})
		return
	}

	resp := gin.H{
		"success":  true,
		"order_id": outcome.OrderID,
	}
	if outcome.Message != "" {
		resp["message"] = outcome.Message
	}
	c.JSON(http.StatusOK, resp)
}
