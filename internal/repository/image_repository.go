// Package repository 定义了与数据库进行数据交换的接口和实现。
package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"ponder-art-go/internal/model"
)

// UnknownUsername 是所有者查询无命中时使用的兜底展示名。
const UnknownUsername = "Unknown"

// ImageRepository 接口定义了图片记录的持久化操作。
type ImageRepository interface {
	// Search 按谓词检索候选图片并返回粗筛总命中数。
	// 取数时会按 limit 的若干倍超量拉取，给打分阶段留出筛选空间。
	Search(ctx context.Context, predicate *model.Predicate, skip, limit int) ([]model.Image, int64, error)
	Create(image *model.Image) error
	FindByID(imageID uint) (*model.Image, error)
	Update(image *model.Image) error
	SoftDelete(imageID uint) error
	UpdateTags(imageID uint, tags model.StringList, taggedAt time.Time) error
}

// imageRepository 是 ImageRepository 接口的 GORM 实现。
type imageRepository struct {
	db        *gorm.DB
	userRepo  UserRepository // 用于回填展示用户名
	overfetch int            // 超量拉取倍数，构造时固定
}

// NewImageRepository 创建一个新的 ImageRepository 实例。
// overfetchMultiplier 小于 1 时回落为 1。
func NewImageRepository(db *gorm.DB, userRepo UserRepository, overfetchMultiplier int) ImageRepository {
	if overfetchMultiplier < 1 {
		overfetchMultiplier = 1
	}
	return &imageRepository{db: db, userRepo: userRepo, overfetch: overfetchMultiplier}
}

// Search 执行两个相互独立的存储操作：按最新优先取一批候选，以及统计谓词总命中数。
// 两个操作并发执行，全部完成后再做一次批量用户名回填。
func (r *imageRepository) Search(ctx context.Context, predicate *model.Predicate, skip, limit int) ([]model.Image, int64, error) {
	where, args := predicateSQL(predicate)

	type fetchResult struct {
		images []model.Image
		err    error
	}
	type countResult struct {
		total int64
		err   error
	}
	fetchCh := make(chan fetchResult, 1)
	countCh := make(chan countResult, 1)

	go func() {
		var images []model.Image
		err := r.db.WithContext(ctx).
			Where(where, args...).
			Order("created_at DESC").
			Offset(skip).
			Limit(limit * r.overfetch).
			Find(&images).Error
		fetchCh <- fetchResult{images: images, err: err}
	}()

	go func() {
		var total int64
		err := r.db.WithContext(ctx).
			Model(&model.Image{}).
			Where(where, args...).
			Count(&total).Error
		countCh <- countResult{total: total, err: err}
	}()

	fetched := <-fetchCh
	counted := <-countCh
	if fetched.err != nil {
		return nil, 0, fmt.Errorf("查询候选图片失败: %w", fetched.err)
	}
	if counted.err != nil {
		return nil, 0, fmt.Errorf("统计命中总数失败: %w", counted.err)
	}

	if err := r.fillUsernames(fetched.images); err != nil {
		return nil, 0, err
	}
	return fetched.images, counted.total, nil
}

// fillUsernames 收集本批候选的去重所有者 ID，一次批量查询后回填展示用户名。
// 查不到所有者的候选使用兜底展示名，而不是让整个请求失败。
func (r *imageRepository) fillUsernames(images []model.Image) error {
	uniqueIDs := make(map[uint]struct{})
	for _, img := range images {
		if img.UserID != 0 {
			uniqueIDs[img.UserID] = struct{}{}
		}
	}
	if len(uniqueIDs) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(uniqueIDs))
	for id := range uniqueIDs {
		ids = append(ids, id)
	}

	nameByID, err := r.userRepo.FindUsernamesByIDs(ids)
	if err != nil {
		return fmt.Errorf("批量查询用户名失败: %w", err)
	}

	for i := range images {
		name := nameByID[images[i].UserID]
		if name == "" {
			name = UnknownUsername
		}
		images[i].Username = name
	}
	return nil
}

// Create 在数据库中创建一条新的图片记录。
func (r *imageRepository) Create(image *model.Image) error {
	return r.db.Create(image).Error
}

// FindByID 根据 ID 查找一条未被删除的图片记录。
func (r *imageRepository) FindByID(imageID uint) (*model.Image, error) {
	var image model.Image
	err := r.db.Where("is_deleted = ?", false).First(&image, imageID).Error
	if err != nil {
		return nil, err
	}
	return &image, nil
}

// Update 更新一条图片记录。
func (r *imageRepository) Update(image *model.Image) error {
	return r.db.Save(image).Error
}

// SoftDelete 将一条图片记录标记为已删除。
func (r *imageRepository) SoftDelete(imageID uint) error {
	return r.db.Model(&model.Image{}).Where("id = ?", imageID).Update("is_deleted", true).Error
}

// UpdateTags 写入打标流水线产出的标签与打标时间。
func (r *imageRepository) UpdateTags(imageID uint, tags model.StringList, taggedAt time.Time) error {
	return r.db.Model(&model.Image{}).Where("id = ?", imageID).Updates(map[string]interface{}{
		"tags":      tags,
		"tagged_at": taggedAt,
	}).Error
}
