package service

import (
	"context"

	"github.com/The-One-Reborn-developer/servis-plus/internal/codec"
	"github.com/The-One-Reborn-developer/servis-plus/internal/domain"
)

// --- Service Interfaces ---

// IBidService defines the interface for bid lifecycle business logic.
type IBidService interface {
	CreateBid(customerTelegramID int64, city, description, deliveryFrom, deliveryTo string, carNecessary bool) (*domain.Bid, error)
	Get(bidID int64) (*domain.Bid, error)
	ListOpenBidsByCity(city string) ([]*domain.Bid, error)
	ListBidsByCustomer(customerTelegramID int64, activeOnly bool) ([]*domain.Bid, error)
	Respond(bidID, courierTelegramID int64) (*domain.Response, error)
	Close(bidID int64) (*domain.Bid, error)
	ResponsesWithCourierProfile(bidID int64) ([]domain.ResponseWithCourier, error)
	CustomerChatList(customerTelegramID int64) ([]domain.BidWithResponses, error)
	CourierChatList(courierTelegramID int64) ([]*domain.Bid, error)
}

// IChatService defines the interface for the append-only chat log.
type IChatService interface {
	AppendText(ctx context.Context, key domain.ConversationKey, text string) error
	AppendAttachment(ctx context.Context, key domain.ConversationKey, role string, data []byte, filename, timestamp string) (string, error)
	History(ctx context.Context, key domain.ConversationKey) ([]string, error)
	Read(ctx context.Context, key domain.ConversationKey) ([]codec.Message, error)
}

// IUserService defines the interface for user profile lookup.
type IUserService interface {
	GetUserByTelegramID(telegramID int64) (*domain.User, error)
	Register(user *domain.User) error
}

// IRelay is the live push channel. Deliver is best-effort: a false return
// means the recipient is not connected, which is never an error.
type IRelay interface {
	Deliver(recipientTelegramID int64, payload domain.RelayPayload) bool
}

// --- Repository Interfaces ---

// IBidRepository defines the interface for bid persistence.
type IBidRepository interface {
	CreateBid(bid *domain.Bid) error
	GetBidByID(id int64) (*domain.Bid, error)
	ListOpenBidsByCity(city string) ([]*domain.Bid, error)
	ListBidsByCustomer(customerTelegramID int64, activeOnly bool) ([]*domain.Bid, error)
	ListBidsByCourierResponses(courierTelegramID int64) ([]*domain.Bid, error)
	UpdateBidStatus(id int64, status domain.BidStatus) error
	CreateResponse(resp *domain.Response) error
	ListResponsesWithCourier(bidID int64) ([]domain.ResponseWithCourier, error)
}

// IUserRepository defines the interface for user profile persistence.
type IUserRepository interface {
	UpsertUser(user *domain.User) error
	GetUserByTelegramID(telegramID int64) (*domain.User, error)
}

// IChatRepository defines the interface for chat message persistence.
type IChatRepository interface {
	SaveMessage(ctx context.Context, message *domain.ChatMessage) error
	GetMessagesByConversation(ctx context.Context, key domain.ConversationKey) ([]*domain.ChatMessage, error)
}

// IFileStorage defines the interface for attachment file persistence. The
// returned stored path is what ends up inside attachment blobs.
type IFileStorage interface {
	SaveAttachment(bidID int64, filename string, data []byte) (string, error)
}
