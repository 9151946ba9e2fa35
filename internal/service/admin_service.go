package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sitecms/internal/db"
	"github.com/sitecms/internal/store"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials 用户名或密码错误。
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrAdminNotFound 管理员不存在。
	ErrAdminNotFound = notFoundError("admin user")
)

const (
	minPasswordLength = 8
	// bcrypt 只处理前 72 字节，更长的密码会被拒绝。
	maxPasswordBytes = 72
)

// AdminService 负责管理员账号与登录校验。
type AdminService struct {
	repo store.Repository[db.AdminUser]
	cost int
}

// NewAdminService 构造 AdminService。
func NewAdminService(repo store.Repository[db.AdminUser]) *AdminService {
	return &AdminService{repo: repo, cost: bcrypt.DefaultCost}
}

// Authenticate 校验用户名与密码，成功时返回管理员。
func (s *AdminService) Authenticate(ctx context.Context, username, password string) (*db.AdminUser, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.FindOne(ctx, "username", username)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find admin user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Get 根据主键获取管理员。
func (s *AdminService) Get(ctx context.Context, id uint) (*db.AdminUser, error) {
	user, err := s.repo.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get admin user: %w", err)
	}
	return user, nil
}

// Create 新建管理员，用户名重复时返回 ErrConflict。
func (s *AdminService) Create(ctx context.Context, username, password string) (*db.AdminUser, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, invalidf("username is required")
	}
	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}

	user := db.AdminUser{Username: username, PasswordHash: hash}
	if err := s.repo.Create(ctx, &user); err != nil {
		return nil, fmt.Errorf("create admin user: %w", err)
	}
	return &user, nil
}

// EnsureAdmin 在管理员不存在时创建，已存在时保持原密码不变。
// 返回值表示是否新建了账号。
func (s *AdminService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return false, nil
	}

	_, err := s.repo.FindOne(ctx, "username", username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, fmt.Errorf("find admin user: %w", err)
	}

	if _, err := s.Create(ctx, username, password); err != nil {
		return false, err
	}
	return true, nil
}

// ChangePassword 校验旧密码后更新为新密码。
func (s *AdminService) ChangePassword(ctx context.Context, id uint, current, next string) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := s.hash(next)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}
	return nil
}

func (s *AdminService) hash(password string) (string, error) {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return "", invalidf("password must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordBytes {
		return "", invalidf("password must be at most %d bytes", maxPasswordBytes)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}
