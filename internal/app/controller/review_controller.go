package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minhtvo/storefront-gateway/internal/app/service"
	"github.com/minhtvo/storefront-gateway/internal/errors"
	"github.com/minhtvo/storefront-gateway/internal/middleware"
)

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
	}
}

type AddReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment" binding:"required"`
}

// ProductReviews returns a product's reviews; served from cache when the
// commerce API is down, flagged as stale
// GET /api/v1/products/:id/reviews
func (ctrl *ReviewController) ProductReviews(c *gin.Context) {
	list, err := ctrl.reviewService.ProductReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// AddReview submits a review for the signed-in user
// POST /api/v1/products/:id/reviews
func (ctrl *ReviewController) AddReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AddReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid review request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Điểm và nội dung đánh giá là bắt buộc")
		return
	}

	if err := ctrl.reviewService.AddReview(c.Request.Context(), middleware.GetSessionID(c), c.Param("id"), req.Rating, req.Comment); err != nil {
		errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Đã gửi đánh giá",
	})
}

// ReviewResponses returns the store-staff replies for a review
// GET /api/v1/reviews/:id/responses
func (ctrl *ReviewController) ReviewResponses(c *gin.Context) {
	responses, err := ctrl.reviewService.Responses(c.Request.Context(), c.Param("id"))
	if err != nil {
		errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"responses": responses,
	})
}
