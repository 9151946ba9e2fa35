package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"

	"github.com/sitecms/internal/db"
	"github.com/sitecms/internal/store"
)

const defaultSiteName = "SiteCMS"

// SystemSettings 描述后台可配置的系统信息。
type SystemSettings struct {
	SiteName         string `json:"siteName"`
	SiteLogoURL      string `json:"siteLogoUrl"`
	ContactRecipient string `json:"contactRecipient"`
	NewsQuery        string `json:"newsQuery"`
	NewsEnabled      bool   `json:"newsEnabled"`
}

// NewsQueries 将逗号分隔的关键词拆分为列表。
func (s SystemSettings) NewsQueries() []string {
	var out []string
	for _, part := range strings.Split(s.NewsQuery, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// SystemSettingsInput 用于更新系统设置。
type SystemSettingsInput struct {
	SiteName         string
	SiteLogoURL      string
	ContactRecipient string
	NewsQuery        string
	NewsEnabled      *bool
}

// SystemSettingService 提供系统设置的读取与更新能力。
type SystemSettingService struct {
	repo store.Repository[db.SystemSetting]
}

// NewSystemSettingService 构造 SystemSettingService。
func NewSystemSettingService(repo store.Repository[db.SystemSetting]) *SystemSettingService {
	return &SystemSettingService{repo: repo}
}

// DefaultSettings 返回未保存任何设置时的默认值。
func DefaultSettings() SystemSettings {
	return SystemSettings{SiteName: defaultSiteName, NewsEnabled: true}
}

// GetSettings 读取系统设置，如未设置将返回默认值。
func (s *SystemSettingService) GetSettings(ctx context.Context) (SystemSettings, error) {
	result := DefaultSettings()

	records, _, err := s.repo.List(ctx, store.ListOptions{})
	if err != nil {
		return result, fmt.Errorf("load system settings: %w", err)
	}

	for _, record := range records {
		switch record.Key {
		case db.SettingKeySiteName:
			if strings.TrimSpace(record.Value) != "" {
				result.SiteName = record.Value
			}
		case db.SettingKeySiteLogoURL:
			result.SiteLogoURL = record.Value
		case db.SettingKeyContactRecipient:
			result.ContactRecipient = record.Value
		case db.SettingKeyNewsQuery:
			result.NewsQuery = record.Value
		case db.SettingKeyNewsEnabled:
			if enabled, err := strconv.ParseBool(record.Value); err == nil {
				result.NewsEnabled = enabled
			}
		}
	}

	return result, nil
}

// UpdateSettings 保存系统设置，未填写站点名称时回退默认值。
func (s *SystemSettingService) UpdateSettings(ctx context.Context, input SystemSettingsInput) (SystemSettings, error) {
	current, err := s.GetSettings(ctx)
	if err != nil {
		return SystemSettings{}, err
	}

	sanitized := SystemSettings{
		SiteName:         strings.TrimSpace(input.SiteName),
		SiteLogoURL:      strings.TrimSpace(input.SiteLogoURL),
		ContactRecipient: strings.TrimSpace(input.ContactRecipient),
		NewsQuery:        strings.Join(SystemSettings{NewsQuery: input.NewsQuery}.NewsQueries(), ","),
		NewsEnabled:      boolOr(input.NewsEnabled, current.NewsEnabled),
	}
	if sanitized.SiteName == "" {
		sanitized.SiteName = defaultSiteName
	}
	if sanitized.ContactRecipient != "" {
		if _, err := mail.ParseAddress(sanitized.ContactRecipient); err != nil {
			return SystemSettings{}, invalidf("contact recipient must be a valid email")
		}
	}

	pairs := []struct{ key, value string }{
		{db.SettingKeySiteName, sanitized.SiteName},
		{db.SettingKeySiteLogoURL, sanitized.SiteLogoURL},
		{db.SettingKeyContactRecipient, sanitized.ContactRecipient},
		{db.SettingKeyNewsQuery, sanitized.NewsQuery},
		{db.SettingKeyNewsEnabled, strconv.FormatBool(sanitized.NewsEnabled)},
	}
	for _, pair := range pairs {
		if err := s.upsert(ctx, pair.key, pair.value); err != nil {
			return SystemSettings{}, fmt.Errorf("update system settings: %w", err)
		}
	}

	return sanitized, nil
}

func (s *SystemSettingService) upsert(ctx context.Context, key, value string) error {
	existing, err := s.repo.FindOne(ctx, "key", key)
	if errors.Is(err, store.ErrNotFound) {
		if err := s.repo.Create(ctx, &db.SystemSetting{Key: key, Value: value}); err != nil {
			return fmt.Errorf("upsert setting %s: %w", key, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}

	existing.Value = value
	if err := s.repo.Update(ctx, existing); err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}
