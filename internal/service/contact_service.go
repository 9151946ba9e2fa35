package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/sitecms/internal/db"
	sitemail "github.com/sitecms/internal/mail"
	"github.com/sitecms/internal/store"
	"go.uber.org/zap"
)

// ErrDeliveryFailed means the message was stored but could not be mailed.
var ErrDeliveryFailed = errors.New("contact message stored but delivery failed")

const (
	minContactMessage = 10
	maxContactMessage = 5000
)

// ContactInput is a submission of the public contact form.
type ContactInput struct {
	Name    string
	Email   string
	Phone   string
	Company string
	Subject string
	Message string
}

// ContactService stores contact form submissions and forwards them by mail.
type ContactService struct {
	items            collection[db.ContactMessage, *db.ContactMessage]
	mailer           sitemail.Mailer
	settings         *SystemSettingService
	defaultRecipient string
	logger           *zap.Logger
}

// NewContactService creates a ContactService. settings may be nil; the
// recipient then always comes from defaultRecipient.
func NewContactService(repo store.Repository[db.ContactMessage], mailer sitemail.Mailer, settings *SystemSettingService, defaultRecipient string) *ContactService {
	return &ContactService{
		items:            newCollection[db.ContactMessage](repo, "contact message", notFoundError("contact message")),
		mailer:           mailer,
		settings:         settings,
		defaultRecipient: strings.TrimSpace(defaultRecipient),
		logger:           zap.NewNop(),
	}
}

// Submit validates and stores the message, then mails it to the recipient.
// When delivery fails the stored message is returned with ErrDeliveryFailed.
func (s *ContactService) Submit(ctx context.Context, input ContactInput) (*db.ContactMessage, error) {
	msg, err := validateContactInput(input)
	if err != nil {
		return nil, err
	}
	if err := s.items.create(ctx, msg); err != nil {
		return nil, err
	}

	deliveryErr := s.deliver(ctx, msg)
	if deliveryErr == nil {
		msg.Delivered = true
	} else {
		msg.DeliveryError = truncateRunes(deliveryErr.Error(), 500)
	}
	if err := s.items.update(ctx, msg); err != nil {
		// 消息已保存，邮件也已处理，只是投递状态没写回，不能让访客重复提交。
		s.logger.Warn("record contact delivery status",
			zap.Uint("id", msg.ID),
			zap.Bool("delivered", msg.Delivered),
			zap.Error(err),
		)
	}

	if deliveryErr != nil {
		return msg, fmt.Errorf("%w: %v", ErrDeliveryFailed, deliveryErr)
	}
	return msg, nil
}

// List 分页返回联系消息，最新的在前。
func (s *ContactService) List(ctx context.Context, page, perPage int) (PageResult[db.ContactMessage], error) {
	return s.items.page(ctx, false, page, perPage, 20)
}

// Count 返回联系消息数量。
func (s *ContactService) Count(ctx context.Context) (int64, error) {
	return s.items.count(ctx)
}

func (s *ContactService) deliver(ctx context.Context, msg *db.ContactMessage) error {
	if s.mailer == nil {
		return errors.New("no mailer configured")
	}
	recipient := s.recipient(ctx)
	if recipient == "" {
		return sitemail.ErrNoRecipient
	}

	subject := msg.Subject
	if subject == "" {
		subject = "New contact request"
	}
	return s.mailer.Send(ctx, sitemail.Message{
		To:      recipient,
		ReplyTo: msg.Email,
		Subject: fmt.Sprintf("[Contact] %s", subject),
		Body:    contactMailBody(msg),
	})
}

func (s *ContactService) recipient(ctx context.Context) string {
	if s.settings != nil {
		if settings, err := s.settings.GetSettings(ctx); err == nil && settings.ContactRecipient != "" {
			return settings.ContactRecipient
		}
	}
	return s.defaultRecipient
}

func contactMailBody(msg *db.ContactMessage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", msg.Name)
	fmt.Fprintf(&b, "Email: %s\n", msg.Email)
	if msg.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", msg.Phone)
	}
	if msg.Company != "" {
		fmt.Fprintf(&b, "Company: %s\n", msg.Company)
	}
	b.WriteString("\n")
	b.WriteString(msg.Message)
	b.WriteString("\n")
	return b.String()
}

func validateContactInput(input ContactInput) (*db.ContactMessage, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, invalidf("name is required")
	}
	email := strings.TrimSpace(input.Email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return nil, invalidf("email is invalid")
	}
	message := strings.TrimSpace(input.Message)
	length := utf8.RuneCountInString(message)
	if length < minContactMessage || length > maxContactMessage {
		return nil, invalidf("message must be between %d and %d characters", minContactMessage, maxContactMessage)
	}

	return &db.ContactMessage{
		Name:    truncateRunes(name, 120),
		Email:   email,
		Phone:   truncateRunes(strings.TrimSpace(input.Phone), 60),
		Company: truncateRunes(strings.TrimSpace(input.Company), 120),
		Subject: truncateRunes(strings.TrimSpace(input.Subject), 200),
		Message: message,
	}, nil
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
