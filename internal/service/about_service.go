package service

import (
	"context"
	"strings"

	"github.com/sitecms/internal/db"
	"github.com/sitecms/internal/store"
)

const aboutSummaryLimit = 200

// AboutService 维护唯一的"关于我们"记录。
type AboutService struct {
	items collection[db.About, *db.About]
}

// AboutInput 描述保存"关于我们"时的字段。
type AboutInput struct {
	Heading  string
	Body     string
	Mission  string
	Vision   string
	ImageURL string
}

// NewAboutService 构造 AboutService。
func NewAboutService(repo store.Repository[db.About]) *AboutService {
	return &AboutService{items: newCollection[db.About](repo, "about", notFoundError("about"))}
}

// DefaultAbout 返回尚未保存内容时展示的默认记录。
func DefaultAbout() db.About {
	return db.About{Heading: "About us"}
}

// Get 返回当前记录，如未保存则返回默认值。
func (s *AboutService) Get(ctx context.Context) (db.About, error) {
	current, err := s.current(ctx)
	if err != nil {
		return db.About{}, err
	}
	if current == nil {
		return DefaultAbout(), nil
	}
	return *current, nil
}

// Save 创建或覆盖记录，正文必填，摘要由正文生成。
func (s *AboutService) Save(ctx context.Context, input AboutInput) (db.About, error) {
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return db.About{}, invalidf("body is required")
	}

	current, err := s.current(ctx)
	if err != nil {
		return db.About{}, err
	}

	about := DefaultAbout()
	if current != nil {
		about = *current
	}
	if heading := strings.TrimSpace(input.Heading); heading != "" {
		about.Heading = heading
	}
	about.Body = body
	about.Summary = summarizeContent(body, aboutSummaryLimit)
	about.Mission = strings.TrimSpace(input.Mission)
	about.Vision = strings.TrimSpace(input.Vision)
	about.ImageURL = strings.TrimSpace(input.ImageURL)

	if about.ID == 0 {
		err = s.items.create(ctx, &about)
	} else {
		err = s.items.update(ctx, &about)
	}
	if err != nil {
		return db.About{}, err
	}
	return about, nil
}

func (s *AboutService) current(ctx context.Context) (*db.About, error) {
	items, err := s.items.list(ctx, false)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}
