package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/The-One-Reborn-developer/servis-plus/internal/codec"
	"github.com/The-One-Reborn-developer/servis-plus/internal/domain"
)

// ChatService implements the append-only per-conversation chat log. Blobs are
// encoded on write and decoded at this boundary on read; business logic never
// sees raw blob strings.
type ChatService struct {
	chatRepo IChatRepository
	files    IFileStorage
	logger   *zap.Logger
}

// NewChatService creates a new ChatService.
func NewChatService(chatRepo IChatRepository, files IFileStorage, logger *zap.Logger) *ChatService {
	return &ChatService{chatRepo: chatRepo, files: files, logger: logger}
}

// AppendText appends a plain text message. Empty or whitespace-only text is
// rejected so empty blobs are never stored.
func (s *ChatService) AppendText(ctx context.Context, key domain.ConversationKey, text string) error {
	blob, err := codec.EncodeText(text)
	if err != nil {
		return domain.ErrEmptyMessage
	}
	return s.save(ctx, key, blob)
}

// AppendAttachment stores the attachment bytes on disk and appends the
// encoded three-line blob referencing the stored path. Returns the stored
// path for the caller's relay payload.
func (s *ChatService) AppendAttachment(ctx context.Context, key domain.ConversationKey, role string, data []byte, filename, timestamp string) (string, error) {
	storedPath, err := s.files.SaveAttachment(key.BidID, filename, data)
	if err != nil {
		return "", fmt.Errorf("failed to store attachment: %w", err)
	}

	blob, err := codec.EncodeAttachment(role, storedPath, timestamp)
	if err != nil {
		return "", err
	}
	if err := s.save(ctx, key, blob); err != nil {
		return "", err
	}
	return storedPath, nil
}

// History returns the conversation's raw blobs in insertion order, with empty
// blobs filtered out. This is the exact byte contract the Mini-App frontend
// decodes on its side.
func (s *ChatService) History(ctx context.Context, key domain.ConversationKey) ([]string, error) {
	messages, err := s.chatRepo.GetMessagesByConversation(ctx, key)
	if err != nil {
		return nil, err
	}

	blobs := make([]string, 0, len(messages))
	for _, m := range messages {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		blobs = append(blobs, m.Content)
	}
	return blobs, nil
}

// Read returns the conversation decoded into tagged messages. Blobs that fail
// to decode are skipped with a log line rather than breaking the whole read.
func (s *ChatService) Read(ctx context.Context, key domain.ConversationKey) ([]codec.Message, error) {
	blobs, err := s.History(ctx, key)
	if err != nil {
		return nil, err
	}

	decoded := make([]codec.Message, 0, len(blobs))
	for _, blob := range blobs {
		msg, err := codec.Decode(blob)
		if err != nil {
			s.logger.Warn("skipping undecodable chat blob",
				zap.String("conversation", key.String()),
				zap.Error(err))
			continue
		}
		decoded = append(decoded, msg)
	}
	return decoded, nil
}

func (s *ChatService) save(ctx context.Context, key domain.ConversationKey, blob string) error {
	msg := &domain.ChatMessage{
		ConversationID:     key.String(),
		BidID:              key.BidID,
		CustomerTelegramID: key.CustomerTelegramID,
		CourierTelegramID:  key.CourierTelegramID,
		Content:            blob,
		InsertedAt:         time.Now().UTC(),
	}
	if err := s.chatRepo.SaveMessage(ctx, msg); err != nil {
		return fmt.Errorf("failed to save chat message: %w", err)
	}
	return nil
}
