package service

import (
	"context"
	"strings"

	"github.com/sitecms/internal/db"
	"github.com/sitecms/internal/store"
)

// ErrChannelNotFound 在指定的联系方式不存在时返回
var ErrChannelNotFound = notFoundError("contact channel")

// ChannelService 负责维护联系区块展示的联系方式
// 提供排序、增删改查能力，与 handler 解耦

type ChannelService struct {
	items collection[db.ContactChannel, *db.ContactChannel]
}

// NewChannelService 构造 ChannelService
func NewChannelService(repo store.Repository[db.ContactChannel]) *ChannelService {
	return &ChannelService{items: newCollection[db.ContactChannel](repo, "contact channel", ErrChannelNotFound)}
}

// ChannelInput 描述创建或更新联系方式时可设置的字段
// Sort/Visible 使用指针判断是否显式传入

type ChannelInput struct {
	Platform string
	Label    string
	Value    string
	Link     string
	Icon     string
	Sort     *int
	Visible  *bool
}

// List 返回联系方式集合，默认按照排序值升序
// 如果 includeHidden 为 false，则过滤掉 Visible=false 的条目
func (s *ChannelService) List(ctx context.Context, includeHidden bool) ([]db.ContactChannel, error) {
	return s.items.list(ctx, !includeHidden)
}

// Get 根据主键获取联系方式
func (s *ChannelService) Get(ctx context.Context, id uint) (*db.ContactChannel, error) {
	return s.items.get(ctx, id)
}

// Create 新建联系方式，未指定排序时自动追加到末尾
func (s *ChannelService) Create(ctx context.Context, input ChannelInput) (*db.ContactChannel, error) {
	if err := validateChannelInput(input); err != nil {
		return nil, err
	}

	sortValue := 0
	if input.Sort != nil {
		sortValue = *input.Sort
	} else {
		next, err := s.items.nextSortOrder(ctx, func(item *db.ContactChannel) int { return item.Sort })
		if err != nil {
			return nil, err
		}
		sortValue = next
	}

	channel := db.ContactChannel{
		Platform: strings.TrimSpace(input.Platform),
		Label:    strings.TrimSpace(input.Label),
		Value:    strings.TrimSpace(input.Value),
		Link:     strings.TrimSpace(input.Link),
		Icon:     ChannelIconKey(input.Icon, input.Platform),
		Sort:     sortValue,
		Visible:  boolOr(input.Visible, true),
	}
	if err := s.items.create(ctx, &channel); err != nil {
		return nil, err
	}
	return &channel, nil
}

// Update 更新指定联系方式
func (s *ChannelService) Update(ctx context.Context, id uint, input ChannelInput) (*db.ContactChannel, error) {
	if err := validateChannelInput(input); err != nil {
		return nil, err
	}

	channel, err := s.items.get(ctx, id)
	if err != nil {
		return nil, err
	}

	channel.Platform = strings.TrimSpace(input.Platform)
	channel.Label = strings.TrimSpace(input.Label)
	channel.Value = strings.TrimSpace(input.Value)
	channel.Link = strings.TrimSpace(input.Link)
	channel.Icon = ChannelIconKey(input.Icon, input.Platform)
	if input.Sort != nil {
		channel.Sort = *input.Sort
	}
	if input.Visible != nil {
		channel.Visible = *input.Visible
	}

	if err := s.items.update(ctx, channel); err != nil {
		return nil, err
	}
	return channel, nil
}

// Delete 删除指定联系方式
func (s *ChannelService) Delete(ctx context.Context, id uint) error {
	return s.items.delete(ctx, id)
}

// Reorder 按给定顺序重排排序字段
// 传入的 IDs 会被依次赋值 0,1,2...，未包含的条目保持原排序
func (s *ChannelService) Reorder(ctx context.Context, ids []uint) error {
	return s.items.reorder(ctx, ids)
}

// Count 返回联系方式数量
func (s *ChannelService) Count(ctx context.Context) (int64, error) {
	return s.items.count(ctx)
}

func validateChannelInput(input ChannelInput) error {
	if strings.TrimSpace(input.Platform) == "" {
		return invalidf("platform is required")
	}
	if strings.TrimSpace(input.Label) == "" {
		return invalidf("label is required")
	}
	if strings.TrimSpace(input.Value) == "" {
		return invalidf("value is required")
	}
	return nil
}
