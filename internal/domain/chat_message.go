package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatMessage is a single persisted chat record. Content holds the encoded
// blob exactly as the Mini-App frontend expects it: raw text for plain
// messages, the three-line form for attachments.
type ChatMessage struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	ConversationID     string             `bson:"conversation_id"`
	BidID              int64              `bson:"bid_id"`
	CustomerTelegramID int64              `bson:"customer_telegram_id"`
	CourierTelegramID  int64              `bson:"courier_telegram_id"`
	Content            string             `bson:"content"`
	InsertedAt         time.Time          `bson:"inserted_at"`
}
