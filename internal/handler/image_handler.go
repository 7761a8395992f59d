// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ponder-art-go/internal/model"
	"ponder-art-go/internal/service"
	"ponder-art-go/pkg/log"
	"ponder-art-go/pkg/token"
)

// ImageHandler 负责处理所有与图片记录相关的 API 请求。
type ImageHandler struct {
	imageService service.ImageService
}

// NewImageHandler 创建一个新的 ImageHandler 实例。
func NewImageHandler(imageService service.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

// Create 处理图片保存请求：multipart 表单携带图片文件与生成元数据。
func (h *ImageHandler) Create(c *gin.Context) {
	// 从表单中获取参数
	prompt := c.PostForm("prompt")
	originalPrompt := c.PostForm("originalPrompt")
	provider := c.PostForm("provider")
	modelName := c.PostForm("model")
	guidanceStr := c.PostForm("guidance")
	isPublicStr := c.PostForm("isPublic") // "true" or "false"

	if prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少必要的参数: prompt"})
		return
	}

	guidance, _ := strconv.ParseFloat(guidanceStr, 64) // Defaults to 0 on error
	isPublic, _ := strconv.ParseBool(isPublicStr)      // Defaults to false on error

	// 获取上传的图片文件
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未能获取上传的图片"})
		return
	}
	defer file.Close()

	claims, _ := c.Get("claims")
	userClaims := claims.(*token.CustomClaims)
	userID := userClaims.UserID

	image, err := h.imageService.Create(c.Request.Context(), userID, header.Filename, file, header.Size,
		header.Header.Get("Content-Type"), service.CreateImageParams{
			Prompt:         prompt,
			OriginalPrompt: originalPrompt,
			Provider:       provider,
			Model:          modelName,
			Guidance:       guidance,
			IsPublic:       isPublic,
		})
	if err != nil {
		log.Error("Create: failed to save image", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存图片失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "data": image, "message": "success"})
}

// Get 按可见性规则返回一张图片；匿名访客只能看到公开且未隐藏的图片。
func (h *ImageHandler) Get(c *gin.Context) {
	imageID, err := parseImageID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的图片 ID"})
		return
	}

	var callerID *uint
	if value, exists := c.Get("user"); exists {
		if user, ok := value.(*model.User); ok {
			callerID = &user.ID
		}
	}

	image, err := h.imageService.Get(imageID, callerID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "图片不存在"})
		case errors.Is(err, service.ErrImageAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			log.Error("Get: failed to load image", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "服务器内部错误"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "data": image, "message": "success"})
}

// Download 签发一个短时效的直连下载地址，可见性规则与 Get 相同。
func (h *ImageHandler) Download(c *gin.Context) {
	imageID, err := parseImageID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的图片 ID"})
		return
	}

	var callerID *uint
	if value, exists := c.Get("user"); exists {
		if user, ok := value.(*model.User); ok {
			callerID = &user.ID
		}
	}

	url, err := h.imageService.DownloadURL(imageID, callerID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "图片不存在"})
		case errors.Is(err, service.ErrImageAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			log.Error("Download: failed to sign url", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "服务器内部错误"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "data": gin.H{"url": url}, "message": "success"})
}

// Delete 处理所有者删除图片的请求（软删除）。
func (h *ImageHandler) Delete(c *gin.Context) {
	imageID, err := parseImageID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的图片 ID"})
		return
	}

	claims, _ := c.Get("claims")
	userClaims := claims.(*token.CustomClaims)

	if err := h.imageService.Delete(c.Request.Context(), imageID, userClaims.UserID); err != nil {
		respondImageMutationError(c, "Delete", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "删除成功"})
}

// RateRequest 定义了图片评分 API 的请求体结构。
type RateRequest struct {
	Rating int `json:"rating" binding:"required"`
}

// Rate 处理所有者为图片评分的请求。
func (h *ImageHandler) Rate(c *gin.Context) {
	imageID, err := parseImageID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的图片 ID"})
		return
	}

	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求负载：rating 不能为空"})
		return
	}

	claims, _ := c.Get("claims")
	userClaims := claims.(*token.CustomClaims)

	if err := h.imageService.Rate(imageID, userClaims.UserID, req.Rating); err != nil {
		respondImageMutationError(c, "Rate", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "评分成功"})
}

// VisibilityRequest 定义了图片可见性更新 API 的请求体结构。
type VisibilityRequest struct {
	IsPublic bool `json:"isPublic"`
	IsHidden bool `json:"isHidden"`
}

// SetVisibility 处理所有者调整图片公开/隐藏状态的请求。
func (h *ImageHandler) SetVisibility(c *gin.Context) {
	imageID, err := parseImageID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的图片 ID"})
		return
	}

	var req VisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求负载"})
		return
	}

	claims, _ := c.Get("claims")
	userClaims := claims.(*token.CustomClaims)

	if err := h.imageService.SetVisibility(imageID, userClaims.UserID, req.IsPublic, req.IsHidden); err != nil {
		respondImageMutationError(c, "SetVisibility", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "更新成功"})
}

// parseImageID 解析路径参数中的图片 ID。
func parseImageID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// respondImageMutationError 把图片写操作的错误映射为对应的 HTTP 状态。
func respondImageMutationError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "图片不存在"})
	case errors.Is(err, service.ErrNotImageOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		log.Errorf("%s: image mutation failed, error: %v", op, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
