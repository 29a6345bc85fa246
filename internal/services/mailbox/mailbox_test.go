package mailbox

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/parts-marketplace/internal/lib/errs"
	"github.com/magabrotheeeer/parts-marketplace/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateMessage(ctx context.Context, msg models.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) GetMessage(ctx context.Context, id string) (*models.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}
func (m *RepoMock) MarkMessageRead(ctx context.Context, id, recipientUID string) (int, error) {
	args := m.Called(ctx, id, recipientUID)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ListInbox(ctx context.Context, recipientUID string) ([]*models.Message, error) {
	args := m.Called(ctx, recipientUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Message), args.Error(1)
}
func (m *RepoMock) CountUnread(ctx context.Context, recipientUID string) (int, error) {
	args := m.Called(ctx, recipientUID)
	return args.Int(0), args.Error(1)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(routingKey string, message any) error {
	return m.Called(routingKey, message).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestMailboxService_Send(t *testing.T) {
	repo := new(RepoMock)
	publisher := new(PublisherMock)
	svc := New(repo, publisher, newNoopLogger())

	repo.On("CreateMessage", mock.Anything, mock.MatchedBy(func(msg models.Message) bool {
		return msg.SenderUID == "buyer1" &&
			msg.RecipientUID == "seller1" &&
			msg.Status == models.MessageUnread
	})).Return("msg1", nil).Once()
	publisher.On("Publish", "message.sent", mock.Anything).Return(nil).Once()

	id, err := svc.Send(context.Background(), "buyer1", models.DummyMessage{
		RecipientUID: "seller1",
		Content:      "Is the gearbox still available?",
	})
	require.NoError(t, err)
	assert.Equal(t, "msg1", id)
	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestMailboxService_Send_EmptyContent(t *testing.T) {
	repo := new(RepoMock)
	svc := New(repo, new(PublisherMock), newNoopLogger())

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := svc.Send(context.Background(), "buyer1", models.DummyMessage{
			RecipientUID: "seller1",
			Content:      content,
		})
		assert.ErrorIs(t, err, errs.ErrEmptyContent)
	}
	repo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestMailboxService_MarkRead(t *testing.T) {
	t.Run("recipient marks message read", func(t *testing.T) {
		repo := new(RepoMock)
		svc := New(repo, new(PublisherMock), newNoopLogger())

		msg := &models.Message{ID: "msg1", RecipientUID: "u1", Status: models.MessageUnread}
		repo.On("GetMessage", mock.Anything, "msg1").Return(msg, nil).Once()
		repo.On("MarkMessageRead", mock.Anything, "msg1", "u1").Return(1, nil).Once()

		require.NoError(t, svc.MarkRead(context.Background(), "u1", "msg1"))
		repo.AssertExpectations(t)
	})

	t.Run("stranger cannot mark message read", func(t *testing.T) {
		repo := new(RepoMock)
		svc := New(repo, new(PublisherMock), newNoopLogger())

		msg := &models.Message{ID: "msg1", RecipientUID: "u1", Status: models.MessageUnread}
		repo.On("GetMessage", mock.Anything, "msg1").Return(msg, nil).Once()

		err := svc.MarkRead(context.Background(), "intruder", "msg1")
		assert.ErrorIs(t, err, errs.ErrNotAuthorized)
		repo.AssertNotCalled(t, "MarkMessageRead", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("already read is a no-op", func(t *testing.T) {
		repo := new(RepoMock)
		svc := New(repo, new(PublisherMock), newNoopLogger())

		msg := &models.Message{ID: "msg1", RecipientUID: "u1", Status: models.MessageRead}
		repo.On("GetMessage", mock.Anything, "msg1").Return(msg, nil).Once()

		require.NoError(t, svc.MarkRead(context.Background(), "u1", "msg1"))
		repo.AssertNotCalled(t, "MarkMessageRead", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestMailboxService_UnreadCount(t *testing.T) {
	repo := new(RepoMock)
	svc := New(repo, new(PublisherMock), newNoopLogger())

	repo.On("CountUnread", mock.Anything, "u1").Return(4, nil).Once()

	count, err := svc.UnreadCount(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}
