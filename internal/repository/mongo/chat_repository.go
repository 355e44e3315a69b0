package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/The-One-Reborn-developer/servis-plus/internal/domain"
)

const messageCollection = "delivery_messages"

// ChatRepository handles database operations for chat messages.
type ChatRepository struct {
	DB *mongo.Database
}

// NewChatRepository creates a new ChatRepository.
func NewChatRepository(db *mongo.Database) *ChatRepository {
	return &ChatRepository{DB: db}
}

// SaveMessage appends a chat message to its conversation.
func (r *ChatRepository) SaveMessage(ctx context.Context, message *domain.ChatMessage) error {
	collection := r.DB.Collection(messageCollection)
	_, err := collection.InsertOne(ctx, message)
	return err
}

// GetMessagesByConversation retrieves every message of one conversation in
// insertion order. Insertion order is the only ordering guarantee; there is
// no timestamp re-sorting.
func (r *ChatRepository) GetMessagesByConversation(ctx context.Context, key domain.ConversationKey) ([]*domain.ChatMessage, error) {
	collection := r.DB.Collection(messageCollection)

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := collection.Find(ctx, bson.M{"conversation_id": key.String()}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []*domain.ChatMessage
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}

	return messages, nil
}
