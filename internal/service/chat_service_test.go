package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/The-One-Reborn-developer/servis-plus/internal/codec"
	"github.com/The-One-Reborn-developer/servis-plus/internal/domain"
	"github.com/The-One-Reborn-developer/servis-plus/internal/service"
)

var testKey = domain.ConversationKey{BidID: 1, CustomerTelegramID: 100, CourierTelegramID: 200}

func newChatService(repo *fakeChatRepo, files *fakeFileStorage) *service.ChatService {
	return service.NewChatService(repo, files, zap.NewNop())
}

func TestAppendText_RoundTrip(t *testing.T) {
	repo := &fakeChatRepo{}
	chats := newChatService(repo, newFakeFileStorage())
	ctx := context.Background()

	text := "Добрый день!\nЗаберите коробку завтра."
	require.NoError(t, chats.AppendText(ctx, testKey, text))

	messages, err := chats.Read(ctx, testKey)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, codec.KindText, messages[0].Kind)
	assert.Equal(t, text, messages[0].Text)
}

func TestAppendText_RejectsEmpty(t *testing.T) {
	repo := &fakeChatRepo{}
	chats := newChatService(repo, newFakeFileStorage())

	err := chats.AppendText(context.Background(), testKey, "   \n ")
	assert.ErrorIs(t, err, domain.ErrEmptyMessage)
	assert.Empty(t, repo.messages)
}

func TestAppendAttachment_RoundTrip(t *testing.T) {
	repo := &fakeChatRepo{}
	files := newFakeFileStorage()
	chats := newChatService(repo, files)
	ctx := context.Background()

	storedPath, err := chats.AppendAttachment(ctx, testKey, domain.RoleCourier, []byte("jpeg-bytes"), "photo.jpg", "05.03.2025, 12:30:00")
	require.NoError(t, err)
	assert.Equal(t, "app/chats/attachments/1_photo.jpg", storedPath)
	assert.Equal(t, []byte("jpeg-bytes"), files.saved[storedPath])

	messages, err := chats.Read(ctx, testKey)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, codec.KindAttachment, messages[0].Kind)
	assert.Equal(t, domain.RoleCourier, messages[0].Role)
	assert.Equal(t, storedPath, messages[0].StoredPath)
	assert.Equal(t, "/attachments/1_photo.jpg", messages[0].DisplayURL)
	assert.Equal(t, "05.03.2025, 12:30:00", messages[0].Timestamp)
}

func TestHistory_PreservesInsertionOrderAndBytes(t *testing.T) {
	repo := &fakeChatRepo{}
	chats := newChatService(repo, newFakeFileStorage())
	ctx := context.Background()

	require.NoError(t, chats.AppendText(ctx, testKey, "первое"))
	_, err := chats.AppendAttachment(ctx, testKey, domain.RoleCustomer, []byte{1}, "doc.pdf", "ts")
	require.NoError(t, err)
	require.NoError(t, chats.AppendText(ctx, testKey, "третье"))

	blobs, err := chats.History(ctx, testKey)
	require.NoError(t, err)
	require.Len(t, blobs, 3)
	assert.Equal(t, "первое", blobs[0])
	assert.Equal(t, "Заказчик:\napp/chats/attachments/1_doc.pdf\nts", blobs[1])
	assert.Equal(t, "третье", blobs[2])
}

func TestHistory_FiltersEmptyBlobs(t *testing.T) {
	repo := &fakeChatRepo{}
	// Legacy rows may carry blank content; readers must drop them.
	repo.messages = append(repo.messages,
		&domain.ChatMessage{ConversationID: testKey.String(), Content: "   "},
		&domain.ChatMessage{ConversationID: testKey.String(), Content: "живое сообщение"},
	)
	chats := newChatService(repo, newFakeFileStorage())

	blobs, err := chats.History(context.Background(), testKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"живое сообщение"}, blobs)
}

func TestHistory_ScopedToConversation(t *testing.T) {
	repo := &fakeChatRepo{}
	chats := newChatService(repo, newFakeFileStorage())
	ctx := context.Background()

	otherKey := domain.ConversationKey{BidID: 1, CustomerTelegramID: 100, CourierTelegramID: 300}
	require.NoError(t, chats.AppendText(ctx, testKey, "для K1"))
	require.NoError(t, chats.AppendText(ctx, otherKey, "для K2"))

	blobs, err := chats.History(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"для K1"}, blobs)
}

func TestRead_SkipsUndecodableBlobs(t *testing.T) {
	repo := &fakeChatRepo{}
	repo.messages = append(repo.messages,
		&domain.ChatMessage{ConversationID: testKey.String(), Content: "рядом app/chats/attachments/x в одну строку"},
		&domain.ChatMessage{ConversationID: testKey.String(), Content: "нормальный текст"},
	)
	chats := newChatService(repo, newFakeFileStorage())

	messages, err := chats.Read(context.Background(), testKey)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "нормальный текст", messages[0].Text)
}
