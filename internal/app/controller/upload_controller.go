package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minhtvo/storefront-gateway/internal/errors"
	"github.com/minhtvo/storefront-gateway/internal/middleware"
	"github.com/minhtvo/storefront-gateway/internal/storage"
)

var allowedAvatarTypes = []string{"image/jpeg", "image/png", "image/webp"}

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(s3 *storage.S3Storage) *UploadController {
	return &UploadController{
		storage: s3,
	}
}

type PresignRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// PresignAvatar hands out a pre-signed URL for an avatar image upload. The
// browser uploads directly to the bucket, then saves the file URL through
// the profile endpoint.
// POST /api/v1/uploads/avatar
func (ctrl *UploadController) PresignAvatar(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid presign request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Tên tệp và loại tệp là bắt buộc")
		return
	}

	if err := ctrl.storage.ValidateContentType(req.ContentType, allowedAvatarTypes); err != nil {
		log.Warn("Rejected avatar content type", map[string]interface{}{
			"content_type": req.ContentType,
		})
		errors.BadRequest(c, errors.UploadInvalidFileType, "Chỉ chấp nhận ảnh JPEG, PNG hoặc WebP")
		return
	}

	resp, err := ctrl.storage.GeneratePresignedURL(req.Filename, req.ContentType, "avatars")
	if err != nil {
		log.Error("Failed to generate presigned URL", err, nil)
		errors.RespondWithError(c, http.StatusInternalServerError, errors.UploadFailed, "Không thể tạo liên kết tải lên")
		return
	}

	c.JSON(http.StatusOK, resp)
}
