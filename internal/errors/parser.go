package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/minhtvo/storefront-gateway/internal/app/service"
	"github.com/minhtvo/storefront-gateway/internal/app/store"
	"github.com/minhtvo/storefront-gateway/pkg/upstream"
)

// ErrorInfo is the parsed form of a service error
type ErrorInfo struct {
	Status  int    // HTTP status to respond with
	Code    string // error code (codes.go)
	Message string // user-facing message
}

// ParseError converts a service-layer error into a response the storefront
// can act on. Sensitive detail stays out of the message; the shopper gets
// enough to recover.
func ParseError(err error) ErrorInfo {
	if err == nil {
		return ErrorInfo{http.StatusInternalServerError, InternalServerError, "Đã xảy ra lỗi máy chủ"}
	}

	// Session / auth
	switch {
	case errors.Is(err, store.ErrSessionNotFound):
		return ErrorInfo{http.StatusUnauthorized, SessionNotFound, "Phiên làm việc đã hết hạn. Vui lòng tải lại trang"}
	case errors.Is(err, service.ErrNotSignedIn):
		return ErrorInfo{http.StatusUnauthorized, AuthUnauthorized, "Vui lòng đăng nhập để tiếp tục"}
	case errors.Is(err, service.ErrInvalidCredentials):
		return ErrorInfo{http.StatusUnauthorized, AuthInvalidCredentials, "Email hoặc mật khẩu không đúng"}
	case errors.Is(err, service.ErrEmailAlreadyExists):
		return ErrorInfo{http.StatusConflict, AuthEmailAlreadyExists, "Email này đã được đăng ký"}
	}

	// Cart / checkout
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		return ErrorInfo{http.StatusNotFound, CartProductNotFound, "Không tìm thấy sản phẩm"}
	case errors.Is(err, service.ErrCartEmpty):
		return ErrorInfo{http.StatusBadRequest, CartEmpty, "Giỏ hàng đang trống"}
	case errors.Is(err, store.ErrNoCheckout):
		return ErrorInfo{http.StatusNotFound, CheckoutNotStarted, "Chưa có phiên thanh toán nào"}
	case errors.Is(err, service.ErrWrongCheckoutStep):
		return ErrorInfo{http.StatusConflict, CheckoutWrongStep, "Thao tác không hợp lệ ở bước hiện tại"}
	case errors.Is(err, service.ErrInvalidPaymentMethod):
		return ErrorInfo{http.StatusBadRequest, CheckoutInvalidMethod, "Phương thức thanh toán không được hỗ trợ"}
	}

	// The order exists but the hosted-payment page never opened; the shopper
	// retries from order history.
	var payLinkErr *service.PaymentLinkError
	if errors.As(err, &payLinkErr) {
		return ErrorInfo{http.StatusBadGateway, PaymentCreateFailed, "Đơn hàng đã được tạo nhưng chưa mở được trang thanh toán. Vui lòng thanh toán lại từ lịch sử đơn hàng"}
	}

	// Orders / reviews / chat
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		return ErrorInfo{http.StatusNotFound, OrderNotFound, "Không tìm thấy đơn hàng"}
	case errors.Is(err, service.ErrInvalidRating):
		return ErrorInfo{http.StatusBadRequest, ReviewInvalidRating, "Điểm đánh giá phải từ 1 đến 5"}
	case errors.Is(err, service.ErrCommentTooShort):
		return ErrorInfo{http.StatusBadRequest, ReviewTooShort, "Nội dung đánh giá quá ngắn"}
	case errors.Is(err, service.ErrEmptyQuestion):
		return ErrorInfo{http.StatusBadRequest, ChatEmptyQuestion, "Vui lòng nhập câu hỏi"}
	}

	// Commerce API
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		switch {
		case errors.Is(err, upstream.ErrNotFound):
			return ErrorInfo{http.StatusNotFound, ResourceNotFound, "Không tìm thấy dữ liệu yêu cầu"}
		case errors.Is(err, upstream.ErrUnauthorized):
			return ErrorInfo{http.StatusBadGateway, InternalUpstreamAPI, "Hệ thống từ chối yêu cầu. Vui lòng thử lại sau"}
		default:
			return ErrorInfo{http.StatusBadGateway, InternalUpstreamAPI, "Hệ thống đang gặp sự cố. Vui lòng thử lại sau"}
		}
	}
	if errors.Is(err, upstream.ErrNetworkError) {
		return ErrorInfo{http.StatusBadGateway, InternalUpstreamAPI, "Không thể kết nối máy chủ. Vui lòng thử lại sau"}
	}

	// Transport-level strings that escaped classification
	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") {
		return ErrorInfo{http.StatusBadGateway, InternalUpstreamAPI, "Không thể kết nối máy chủ. Vui lòng thử lại sau"}
	}

	return ErrorInfo{http.StatusInternalServerError, InternalServerError, "Đã xảy ra lỗi máy chủ. Vui lòng thử lại sau"}
}

// Respond parses err and writes the standard envelope. A shipping-form
// validation error keeps its per-field detail.
func Respond(c *gin.Context, err error) {
	var shippingErr *service.ShippingValidationError
	if errors.As(err, &shippingErr) {
		RespondWithValidationError(c, shippingErr.Fields)
		return
	}

	info := ParseError(err)
	RespondWithError(c, info.Status, info.Code, info.Message)
}
