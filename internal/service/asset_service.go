package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sitecms/internal/db"
	"github.com/sitecms/internal/store"
	_ "golang.org/x/image/webp"
)

var (
	// ErrAssetNotFound 上传记录不存在。
	ErrAssetNotFound = notFoundError("asset")
	// ErrAssetTooLarge 文件超过大小限制。
	ErrAssetTooLarge = errors.New("file is too large")
	// ErrAssetTypeNotAllowed 文件类型不在允许列表中。
	ErrAssetTypeNotAllowed = errors.New("file type is not allowed")
	// ErrAssetEmpty 上传内容为空。
	ErrAssetEmpty = errors.New("file is empty")
)

// allowedAssetTypes maps sniffed MIME types to the extension used on disk.
var allowedAssetTypes = map[string]string{
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// AssetConfig 描述上传文件的保存位置与限制。
type AssetConfig struct {
	Dir      string
	URLPath  string
	MaxBytes int64
}

// UploadedFile 是一次上传的原始内容。
type UploadedFile struct {
	Name   string
	Reader io.Reader
}

// AssetService 保存上传的文件并记录元数据。
type AssetService struct {
	items collection[db.Asset, *db.Asset]
	cfg   AssetConfig
	now   func() time.Time
}

// NewAssetService 构造 AssetService。
func NewAssetService(repo store.Repository[db.Asset], cfg AssetConfig) *AssetService {
	if cfg.Dir == "" {
		cfg.Dir = "web/static/uploads"
	}
	cfg.URLPath = "/" + strings.Trim(cfg.URLPath, "/")
	if cfg.URLPath == "/" {
		cfg.URLPath = "/static/uploads"
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 10 << 20
	}
	return &AssetService{
		items: newCollection[db.Asset](repo, "asset", ErrAssetNotFound),
		cfg:   cfg,
		now:   time.Now,
	}
}

// MaxBytes 返回允许的最大文件大小。
func (s *AssetService) MaxBytes() int64 {
	return s.cfg.MaxBytes
}

// Store 校验类型与大小，写入磁盘并保存记录。
// 记录写入失败时会删除已写入的文件。
func (s *AssetService) Store(ctx context.Context, file UploadedFile) (*db.Asset, error) {
	if file.Reader == nil {
		return nil, ErrAssetEmpty
	}

	content, err := io.ReadAll(io.LimitReader(file.Reader, s.cfg.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(content) == 0 {
		return nil, ErrAssetEmpty
	}
	if int64(len(content)) > s.cfg.MaxBytes {
		return nil, ErrAssetTooLarge
	}

	detected := mimetype.Detect(content)
	mimeType := strings.SplitN(detected.String(), ";", 2)[0]
	ext, ok := allowedAssetTypes[mimeType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAssetTypeNotAllowed, mimeType)
	}

	asset := db.Asset{
		OriginalName: sanitizeOriginalName(file.Name),
		MimeType:     mimeType,
		Size:         int64(len(content)),
	}
	if strings.HasPrefix(mimeType, "image/") {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(content))
		if err != nil {
			return nil, fmt.Errorf("%w: unreadable image", ErrAssetTypeNotAllowed)
		}
		asset.Width, asset.Height = cfg.Width, cfg.Height
	}

	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	asset.FileName = fmt.Sprintf("%s-%s%s", s.now().Format("20060102"), uuid.New().String(), ext)
	asset.URL = path.Join(s.cfg.URLPath, asset.FileName)

	target := filepath.Join(s.cfg.Dir, asset.FileName)
	if err := os.WriteFile(target, content, 0o644); err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}

	if err := s.items.create(ctx, &asset); err != nil {
		_ = os.Remove(target)
		return nil, err
	}
	return &asset, nil
}

// List 分页返回上传记录，最新的在前。
func (s *AssetService) List(ctx context.Context, page, perPage int) (PageResult[db.Asset], error) {
	return s.items.page(ctx, false, page, perPage, 24)
}

// Get 根据主键获取上传记录。
func (s *AssetService) Get(ctx context.Context, id uint) (*db.Asset, error) {
	return s.items.get(ctx, id)
}

// UpdateAlt 更新替代文本。
func (s *AssetService) UpdateAlt(ctx context.Context, id uint, alt string) (*db.Asset, error) {
	asset, err := s.items.get(ctx, id)
	if err != nil {
		return nil, err
	}
	asset.Alt = strings.TrimSpace(alt)
	if err := s.items.update(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// Delete 删除记录与磁盘文件，文件已不存在时忽略。
func (s *AssetService) Delete(ctx context.Context, id uint) error {
	asset, err := s.items.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.items.delete(ctx, id); err != nil {
		return err
	}
	target := filepath.Join(s.cfg.Dir, filepath.Base(asset.FileName))
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload file: %w", err)
	}
	return nil
}

// Count 返回上传文件数量。
func (s *AssetService) Count(ctx context.Context) (int64, error) {
	return s.items.count(ctx)
}

func sanitizeOriginalName(name string) string {
	base := filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	if len(base) > 255 {
		base = base[:255]
	}
	return base
}
