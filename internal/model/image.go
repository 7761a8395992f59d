// Package model 定义了与数据库表对应的 Go 结构体。
package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList 是一个以 JSON 形式存储在单列中的字符串列表。
// 用于 image_generation 表的 tags 列。
type StringList []string

// Value 实现了 driver.Valuer 接口，将列表序列化为 JSON 存入数据库。
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan 实现了 sql.Scanner 接口，从数据库读出 JSON 并反序列化。
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("无法将 %T 扫描为 StringList", value)
	}
	if len(data) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

// Image 定义了 image_generation 表的 ORM 模型。
// 它记录了每张 AI 生成图片的元数据、可见性与标签。
type Image struct {
	ID             uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	ImageURL       string     `gorm:"column:image_url;type:varchar(512);not null" json:"imageUrl"`
	Prompt         string     `gorm:"type:text;not null" json:"prompt"`
	OriginalPrompt string     `gorm:"column:original_prompt;type:text" json:"originalPrompt"`
	Provider       string     `gorm:"type:varchar(64)" json:"provider"`
	Model          string     `gorm:"type:varchar(128)" json:"model"`
	Guidance       float64    `gorm:"default:0" json:"guidance"`
	IsPublic       bool       `gorm:"not null;default:false" json:"isPublic"`
	IsHidden       bool       `gorm:"not null;default:false" json:"isHidden"`
	IsDeleted      bool       `gorm:"not null;default:false" json:"-"`
	Rating         int        `gorm:"type:tinyint;default:0" json:"rating"`
	Tags           StringList `gorm:"type:json" json:"tags"`
	TaggedAt       *time.Time `gorm:"default:null" json:"taggedAt"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UserID         uint       `gorm:"not null;index" json:"userId"`

	// Username 是冗余的展示用户名，由仓储层在检索后批量填充，不落库。
	Username string `gorm:"-" json:"username"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Image) TableName() string {
	return "image_generation"
}
