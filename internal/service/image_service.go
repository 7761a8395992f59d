// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path"
	"strings"
	"time"

	"ponder-art-go/internal/config"
	"ponder-art-go/internal/model"
	"ponder-art-go/internal/repository"
	"ponder-art-go/pkg/kafka"
	"ponder-art-go/pkg/log"
	"ponder-art-go/pkg/storage"
	"ponder-art-go/pkg/tasks"
	"ponder-art-go/pkg/token"
)

// ErrImageAccessDenied 表示调用方无权查看目标图片。
var ErrImageAccessDenied = errors.New("无权访问该图片")

// ErrNotImageOwner 表示调用方不是目标图片的所有者。
var ErrNotImageOwner = errors.New("只有图片所有者可以执行该操作")

// CreateImageParams 是创建图片记录时的生成元数据。
type CreateImageParams struct {
	Prompt         string
	OriginalPrompt string
	Provider       string
	Model          string
	Guidance       float64
	IsPublic       bool
}

// ImageService 接口定义了图片记录的业务操作。
type ImageService interface {
	Create(ctx context.Context, userID uint, fileName string, file multipart.File, size int64, contentType string, params CreateImageParams) (*model.Image, error)
	Get(imageID uint, callerID *uint) (*model.Image, error)
	DownloadURL(imageID uint, callerID *uint) (string, error)
	Delete(ctx context.Context, imageID, userID uint) error
	Rate(imageID, userID uint, rating int) error
	SetVisibility(imageID, userID uint, isPublic, isHidden bool) error
}

// imageService 是 ImageService 接口的实现。
type imageService struct {
	imageRepo repository.ImageRepository
	minioCfg  config.MinIOConfig
}

// NewImageService 创建一个新的 ImageService 实例。
func NewImageService(imageRepo repository.ImageRepository, minioCfg config.MinIOConfig) ImageService {
	return &imageService{
		imageRepo: imageRepo,
		minioCfg:  minioCfg,
	}
}

// Create 保存一张生成的图片：文件写入 MinIO，元数据落库，
// 然后向 Kafka 发送一个自动打标任务。
func (s *imageService) Create(ctx context.Context, userID uint, fileName string, file multipart.File, size int64, contentType string, params CreateImageParams) (*model.Image, error) {
	ext := strings.ToLower(path.Ext(fileName))
	objectName := fmt.Sprintf("images/%s%s", token.GenerateRandomString(16), ext)

	if _, err := storage.PutImage(ctx, s.minioCfg.BucketName, objectName, file, size, contentType); err != nil {
		log.Errorf("[ImageService] 写入对象存储失败, object: %s, error: %v", objectName, err)
		return nil, fmt.Errorf("写入对象存储失败: %w", err)
	}

	image := &model.Image{
		// 桶内路径即对外 URL，由网关按前缀直出对象存储
		ImageURL:       fmt.Sprintf("/%s/%s", s.minioCfg.BucketName, objectName),
		Prompt:         params.Prompt,
		OriginalPrompt: params.OriginalPrompt,
		Provider:       params.Provider,
		Model:          params.Model,
		Guidance:       params.Guidance,
		IsPublic:       params.IsPublic,
		Tags:           model.StringList{},
		UserID:         userID,
	}
	if err := s.imageRepo.Create(image); err != nil {
		return nil, fmt.Errorf("创建图片记录失败: %w", err)
	}

	// 发送自动打标任务；失败只记日志，不影响已创建的记录
	task := tasks.ImageTaggingTask{
		ImageID:    image.ID,
		ObjectName: objectName,
		Prompt:     image.Prompt,
		UserID:     userID,
	}
	if err := kafka.ProduceTaggingTask(task); err != nil {
		log.Warnf("[ImageService] 发送打标任务失败, imageID: %d, error: %v", image.ID, err)
	}

	log.Infof("[ImageService] 图片创建成功, imageID: %d, userID: %d", image.ID, userID)
	return image, nil
}

// Get 按可见性规则获取一张图片：所有者总是可见；
// 其他调用方（含匿名）只能看到公开且未隐藏的图片。
func (s *imageService) Get(imageID uint, callerID *uint) (*model.Image, error) {
	image, err := s.imageRepo.FindByID(imageID)
	if err != nil {
		return nil, err
	}

	if callerID != nil && *callerID == image.UserID {
		return image, nil
	}
	if image.IsPublic && !image.IsHidden {
		return image, nil
	}
	return nil, ErrImageAccessDenied
}

// DownloadURL 为图片签发一个短时效的直连下载地址，可见性规则与 Get 一致。
func (s *imageService) DownloadURL(imageID uint, callerID *uint) (string, error) {
	image, err := s.Get(imageID, callerID)
	if err != nil {
		return "", err
	}
	return storage.GetPresignedURL(s.minioCfg.BucketName, s.objectName(image), 15*time.Minute)
}

// Delete 由所有者将图片标记为已删除，并清理对象存储中的文件。
// 对象清理失败只记日志：记录已标记删除，残留对象可由后台任务回收。
func (s *imageService) Delete(ctx context.Context, imageID, userID uint) error {
	image, err := s.imageRepo.FindByID(imageID)
	if err != nil {
		return err
	}
	if image.UserID != userID {
		return ErrNotImageOwner
	}
	if err := s.imageRepo.SoftDelete(imageID); err != nil {
		return err
	}

	if err := storage.RemoveImage(ctx, s.minioCfg.BucketName, s.objectName(image)); err != nil {
		log.Warnf("[ImageService] 删除图片对象失败, imageID: %d, error: %v", imageID, err)
	}
	return nil
}

// objectName 从记录的对外 URL 还原桶内对象路径。
func (s *imageService) objectName(image *model.Image) string {
	return strings.TrimPrefix(image.ImageURL, fmt.Sprintf("/%s/", s.minioCfg.BucketName))
}

// Rate 由所有者为图片打分，取值范围 1 到 5。
func (s *imageService) Rate(imageID, userID uint, rating int) error {
	if rating < 1 || rating > 5 {
		return errors.New("评分必须在 1 到 5 之间")
	}

	image, err := s.imageRepo.FindByID(imageID)
	if err != nil {
		return err
	}
	if image.UserID != userID {
		return ErrNotImageOwner
	}

	image.Rating = rating
	return s.imageRepo.Update(image)
}

// SetVisibility 由所有者调整图片的公开与隐藏状态。
func (s *imageService) SetVisibility(imageID, userID uint, isPublic, isHidden bool) error {
	image, err := s.imageRepo.FindByID(imageID)
	if err != nil {
		return err
	}
	if image.UserID != userID {
		return ErrNotImageOwner
	}

	image.IsPublic = isPublic
	image.IsHidden = isHidden
	return s.imageRepo.Update(image)
}
