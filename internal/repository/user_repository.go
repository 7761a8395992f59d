// Package repository 定义了与数据库进行数据交换的接口和实现。
package repository

import (
	"gorm.io/gorm"

	"ponder-art-go/internal/model"
)

// UserRepository 接口定义了用户数据的持久化操作。
type UserRepository interface {
	Create(user *model.User) error
	FindByUsername(username string) (*model.User, error)
	FindUsernamesByIDs(userIDs []uint) (map[uint]string, error)
}

// userRepository 是 UserRepository 接口的 GORM 实现。
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建一个新的 UserRepository 实例。
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create 在数据库中创建一个新的用户记录。
func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

// FindByUsername 根据用户名从数据库中查找一个用户。
func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUsernamesByIDs 批量查询一组用户 ID 对应的用户名。
// 返回 ID 到用户名的映射；查不到的 ID 不会出现在映射中。
func (r *userRepository) FindUsernamesByIDs(userIDs []uint) (map[uint]string, error) {
	result := make(map[uint]string)
	if len(userIDs) == 0 {
		return result, nil
	}

	var users []model.User
	err := r.db.Select("id", "username").Where("id IN ?", userIDs).Find(&users).Error
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		result[u.ID] = u.Username
	}
	return result, nil
}
