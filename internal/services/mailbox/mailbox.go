// Package mailbox содержит бизнес-логику личных сообщений между
// покупателями и продавцами: отправка, входящие, счётчик непрочитанных
// и отметка о прочтении.
package mailbox

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/parts-marketplace/internal/lib/errs"
	"github.com/magabrotheeeer/parts-marketplace/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/parts-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/parts-marketplace/internal/models"
)

// MessageRepository определяет методы работы с сообщениями в хранилище.
type MessageRepository interface {
	// CreateMessage сохраняет сообщение в статусе unread.
	CreateMessage(ctx context.Context, msg models.Message) (string, error)
	// GetMessage возвращает сообщение по ID.
	GetMessage(ctx context.Context, id string) (*models.Message, error)
	// MarkMessageRead переводит сообщение получателя из unread в read.
	MarkMessageRead(ctx context.Context, id, recipientUID string) (int, error)
	// ListInbox возвращает входящие пользователя, сначала новые.
	ListInbox(ctx context.Context, recipientUID string) ([]*models.Message, error)
	// CountUnread возвращает число непрочитанных сообщений пользователя.
	CountUnread(ctx context.Context, recipientUID string) (int, error)
}

// MailboxService реализует операции над сообщениями.
type MailboxService struct {
	repo      MessageRepository
	publisher rabbitmq.Publisher
	log       *slog.Logger
}

// New создает новый экземпляр MailboxService.
func New(repo MessageRepository, publisher rabbitmq.Publisher, log *slog.Logger) *MailboxService {
	return &MailboxService{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// messageSentEvent — событие для очереди уведомлений.
type messageSentEvent struct {
	MessageID    string  `json:"message_id"`
	RecipientUID string  `json:"recipient_uid"`
	ProductID    *string `json:"product_id,omitempty"`
}

// Send создает сообщение в статусе unread. Текст из одних пробелов
// отклоняется с errs.ErrEmptyContent. Событие публикуется в очередь
// уведомлений, ошибка публикации только логируется.
func (s *MailboxService) Send(ctx context.Context, senderUID string, req models.DummyMessage) (string, error) {
	if strings.TrimSpace(req.Content) == "" {
		return "", errs.ErrEmptyContent
	}

	msg := models.Message{
		SenderUID:    senderUID,
		RecipientUID: req.RecipientUID,
		ProductID:    req.ProductID,
		Content:      req.Content,
		Status:       models.MessageUnread,
	}
	id, err := s.repo.CreateMessage(ctx, msg)
	if err != nil {
		return "", err
	}

	s.log.Info("sent message",
		slog.String("sender_uid", senderUID), slog.String("recipient_uid", req.RecipientUID))

	event := messageSentEvent{MessageID: id, RecipientUID: req.RecipientUID, ProductID: req.ProductID}
	if err := s.publisher.Publish(rabbitmq.RoutingKeyMessageSent, event); err != nil {
		s.log.Warn("failed to publish message event", sl.Err(err))
	}
	return id, nil
}

// Inbox возвращает входящие сообщения пользователя, сначала новые.
func (s *MailboxService) Inbox(ctx context.Context, userUID string) ([]*models.Message, error) {
	return s.repo.ListInbox(ctx, userUID)
}

// UnreadCount возвращает число непрочитанных сообщений пользователя
// отдельным запросом, без выборки всех входящих.
func (s *MailboxService) UnreadCount(ctx context.Context, userUID string) (int, error) {
	return s.repo.CountUnread(ctx, userUID)
}

// MarkRead отмечает сообщение прочитанным. Переход выполняет только
// получатель: для любого другого пользователя возвращается
// errs.ErrNotAuthorized, а сообщение остаётся непрочитанным. Повторная
// отметка уже прочитанного сообщения — успешный no-op.
func (s *MailboxService) MarkRead(ctx context.Context, actorUID, messageID string) error {
	msg, err := s.repo.GetMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.RecipientUID != actorUID {
		return fmt.Errorf("message %s: %w", messageID, errs.ErrNotAuthorized)
	}
	if msg.Status == models.MessageRead {
		return nil
	}

	if _, err := s.repo.MarkMessageRead(ctx, messageID, actorUID); err != nil {
		return err
	}
	return nil
}
