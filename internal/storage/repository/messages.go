package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/parts-marketplace/internal/lib/errs"
	"github.com/magabrotheeeer/parts-marketplace/internal/models"
)

// CreateMessage сохраняет новое сообщение в статусе unread и возвращает его ID.
func (s *Storage) CreateMessage(ctx context.Context, msg models.Message) (string, error) {
	const op = "storage.CreateMessage"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO messages (sender_uid, recipient_uid, product_id, content, status)
			  VALUES ($1, $2, $3, $4, 'unread')
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		msg.SenderUID, msg.RecipientUID, msg.ProductID, msg.Content).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetMessage возвращает сообщение по ID.
func (s *Storage) GetMessage(ctx context.Context, id string) (*models.Message, error) {
	const op = "storage.GetMessage"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, sender_uid, recipient_uid, product_id, content, status, created_at
			  FROM messages WHERE id = $1`
	var msg models.Message
	var productID sql.NullString
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&msg.ID, &msg.SenderUID, &msg.RecipientUID,
		&productID, &msg.Content, &msg.Status, &msg.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if productID.Valid {
		msg.ProductID = &productID.String
	}
	return &msg, nil
}

// MarkMessageRead переводит сообщение получателя из unread в read.
// Обратного перехода нет. Возвращает количество изменённых строк:
// ноль означает, что сообщение уже прочитано.
func (s *Storage) MarkMessageRead(ctx context.Context, id, recipientUID string) (int, error) {
	const op = "storage.MarkMessageRead"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE messages SET status = 'read'
			  WHERE id = $1 AND recipient_uid = $2 AND status = 'unread'`
	result, err := s.DB.ExecContext(ctx, query, id, recipientUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListInbox возвращает входящие сообщения пользователя, сначала новые,
// с именем отправителя и названием товара для отображения списка.
func (s *Storage) ListInbox(ctx context.Context, recipientUID string) ([]*models.Message, error) {
	const op = "storage.ListInbox"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT m.id, m.sender_uid, m.recipient_uid, m.product_id, m.content, m.status,
			      m.created_at, u.full_name, COALESCE(p.title, '')
			  FROM messages m
			  JOIN users u ON u.uid = m.sender_uid
			  LEFT JOIN products p ON p.id = m.product_id
			  WHERE m.recipient_uid = $1
			  ORDER BY m.created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, recipientUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.Message
	for rows.Next() {
		var msg models.Message
		var productID sql.NullString
		if err := rows.Scan(&msg.ID, &msg.SenderUID, &msg.RecipientUID, &productID, &msg.Content,
			&msg.Status, &msg.CreatedAt, &msg.SenderName, &msg.ProductTitle); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if productID.Valid {
			msg.ProductID = &productID.String
		}
		result = append(result, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountUnread возвращает количество непрочитанных сообщений пользователя.
// Отдельный запрос: бейдж в интерфейсе не требует выборки всех входящих.
func (s *Storage) CountUnread(ctx context.Context, recipientUID string) (int, error) {
	const op = "storage.CountUnread"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE recipient_uid = $1 AND status = 'unread'`,
		recipientUID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
