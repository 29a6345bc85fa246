package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/parts-marketplace/internal/lib/errs"
	"github.com/magabrotheeeer/parts-marketplace/internal/models"
)

func TestStorage_CreateMessage_StartsUnread(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	senderUID := factory.CreateUser(t, "buyer", "buyer@example.com", "buyer")
	recipientUID := factory.CreateUser(t, "seller", "seller@example.com", "merchant")

	ctx := context.Background()
	id, err := storage.CreateMessage(ctx, models.Message{
		SenderUID:    senderUID,
		RecipientUID: recipientUID,
		Content:      "Is the bumper still available?",
	})
	require.NoError(t, err)

	got, err := storage.GetMessage(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, senderUID, got.SenderUID)
	assert.Equal(t, recipientUID, got.RecipientUID)
	assert.Equal(t, "Is the bumper still available?", got.Content)
	assert.Equal(t, models.MessageUnread, got.Status)
	assert.Nil(t, got.ProductID)
}

func TestStorage_GetMessage_NotFound(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	_, err := storage.GetMessage(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestStorage_MarkMessageRead(t *testing.T) {
	t.Run("recipient marks unread message", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		verification := NewTestVerification(storage)

		senderUID := factory.CreateUser(t, "buyer", "buyer@example.com", "buyer")
		recipientUID := factory.CreateUser(t, "seller", "seller@example.com", "merchant")
		msgID := factory.CreateMessage(t, senderUID, recipientUID, "hello", "unread")

		count, err := storage.MarkMessageRead(context.Background(), msgID, recipientUID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		verification.VerifyMessageStatus(t, msgID, "read")
	})

	t.Run("foreign user changes nothing", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		verification := NewTestVerification(storage)

		senderUID := factory.CreateUser(t, "buyer", "buyer@example.com", "buyer")
		recipientUID := factory.CreateUser(t, "seller", "seller@example.com", "merchant")
		msgID := factory.CreateMessage(t, senderUID, recipientUID, "hello", "unread")

		// отправитель не может отметить своё же сообщение прочитанным
		count, err := storage.MarkMessageRead(context.Background(), msgID, senderUID)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
		verification.VerifyMessageStatus(t, msgID, "unread")
	})

	t.Run("already read is a no-op", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		verification := NewTestVerification(storage)

		senderUID := factory.CreateUser(t, "buyer", "buyer@example.com", "buyer")
		recipientUID := factory.CreateUser(t, "seller", "seller@example.com", "merchant")
		msgID := factory.CreateMessage(t, senderUID, recipientUID, "hello", "read")

		count, err := storage.MarkMessageRead(context.Background(), msgID, recipientUID)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
		verification.VerifyMessageStatus(t, msgID, "read")
	})
}

func TestStorage_ListInbox(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	senderUID := factory.CreateUser(t, "buyer", "buyer@example.com", "buyer")
	recipientUID := factory.CreateUser(t, "seller", "seller@example.com", "merchant")
	otherUID := factory.CreateUser(t, "other", "other@example.com", "buyer")

	_, err := storage.DB.Exec(`UPDATE users SET full_name = 'Ivan Petrov' WHERE uid = $1`, senderUID)
	require.NoError(t, err)

	productID := factory.CreateProduct(t, recipientUID, "Front bumper", "Moscow", "used", 120.50, true)

	ctx := context.Background()
	firstID, err := storage.CreateMessage(ctx, models.Message{
		SenderUID:    senderUID,
		RecipientUID: recipientUID,
		ProductID:    &productID,
		Content:      "first",
	})
	require.NoError(t, err)
	secondID, err := storage.CreateMessage(ctx, models.Message{
		SenderUID:    senderUID,
		RecipientUID: recipientUID,
		Content:      "second",
	})
	require.NoError(t, err)
	// чужая переписка в выборку не попадает
	factory.CreateMessage(t, senderUID, otherUID, "not yours", "unread")

	_, err = storage.DB.Exec(`UPDATE messages SET created_at = now() - interval '1 hour' WHERE id = $1`, firstID)
	require.NoError(t, err)

	got, err := storage.ListInbox(ctx, recipientUID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, secondID, got[0].ID)
	assert.Equal(t, firstID, got[1].ID)
	assert.Equal(t, "Ivan Petrov", got[0].SenderName)
	assert.Equal(t, "", got[0].ProductTitle)
	assert.Equal(t, "Front bumper", got[1].ProductTitle)
	require.NotNil(t, got[1].ProductID)
	assert.Equal(t, productID, *got[1].ProductID)
}

func TestStorage_CountUnread(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	senderUID := factory.CreateUser(t, "buyer", "buyer@example.com", "buyer")
	recipientUID := factory.CreateUser(t, "seller", "seller@example.com", "merchant")

	factory.CreateMessage(t, senderUID, recipientUID, "one", "unread")
	factory.CreateMessage(t, senderUID, recipientUID, "two", "unread")
	factory.CreateMessage(t, senderUID, recipientUID, "three", "read")
	// непрочитанные у другого получателя не учитываются
	factory.CreateMessage(t, recipientUID, senderUID, "reply", "unread")

	count, err := storage.CountUnread(context.Background(), recipientUID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
