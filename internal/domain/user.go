package domain

import (
	"context"
	"time"
)

// User 身份实体。PasswordHash / 重置字段永不对外序列化。
// ResetDigest / ResetExpiresAt 成对出现：要么都有（有待处理的重置），要么都为 NULL。
type User struct {
	ID             string     `gorm:"primaryKey;size:32" json:"id"`
	Email          string     `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Name           string     `gorm:"size:64" json:"name,omitempty"`
	PasswordHash   string     `gorm:"size:100;not null" json:"-"`
	ResetDigest    *string    `gorm:"size:64;index" json:"-"`
	ResetExpiresAt *time.Time `json:"-"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// PublicUser 对外视图，只暴露身份三元组
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, Name: u.Name}
}

// UserRepository 查不到一律返回 (nil, nil)，错误只留给真正的存储故障
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// FindByResetDigest 只命中 reset_expires_at 还在未来的记录，
	// 过期判断在查询里一次做完，不存在查完再比对的竞态
	FindByResetDigest(ctx context.Context, digest string, now time.Time) (*User, error)
	Update(ctx context.Context, u *User) error
}
