package service

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/The-One-Reborn-developer/servis-plus/internal/domain"
	"github.com/The-One-Reborn-developer/servis-plus/internal/metrics"
)

// displayTimeLayout matches the timestamp format the Mini-App renders in
// chat bubbles.
const displayTimeLayout = "02.01.2006, 15:04:05"

// PostBidRequest carries the fields of the publish-bid action.
type PostBidRequest struct {
	CustomerTelegramID int64
	City               string
	Description        string
	DeliveryFrom       string
	DeliveryTo         string
	CarNecessary       bool
}

// SendMessageRequest carries one chat send: either plain text in Message or
// an attachment file, never both.
type SendMessageRequest struct {
	BidID               int64
	CustomerTelegramID  int64
	PerformerTelegramID int64
	Message             string
	SenderType          string
	Attachment          []byte
	AttachmentName      string
}

// DeliveryService is the façade HTTP handlers call. It validates requests,
// drives the bid store and chat log, and triggers the live relay for chat
// sends. Persistence always happens before the relay push, and a missed push
// is never surfaced to the sender.
type DeliveryService struct {
	bids   IBidService
	chats  IChatService
	users  IUserService
	relay  IRelay
	logger *zap.Logger
}

// NewDeliveryService creates a new DeliveryService.
func NewDeliveryService(bids IBidService, chats IChatService, users IUserService, relay IRelay, logger *zap.Logger) *DeliveryService {
	return &DeliveryService{bids: bids, chats: chats, users: users, relay: relay, logger: logger}
}

// PostBid validates and publishes a new bid.
func (s *DeliveryService) PostBid(req PostBidRequest) (*domain.Bid, error) {
	if req.CustomerTelegramID == 0 {
		return nil, NewValidationError("Не указан Telegram ID заказчика.")
	}
	if strings.TrimSpace(req.City) == "" {
		return nil, NewValidationError("Укажите город.")
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, NewValidationError("Добавьте описание заказа.")
	}
	if strings.TrimSpace(req.DeliveryFrom) == "" || strings.TrimSpace(req.DeliveryTo) == "" {
		return nil, NewValidationError("Укажите адреса отправления и доставки.")
	}

	bid, err := s.bids.CreateBid(req.CustomerTelegramID, req.City, req.Description, req.DeliveryFrom, req.DeliveryTo, req.CarNecessary)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("post_bid").Inc()
		return nil, err
	}
	metrics.BidsCreatedTotal.Inc()
	s.logger.Info("bid published",
		zap.Int64("bid_id", bid.ID),
		zap.Int64("customer", bid.CustomerTelegramID),
		zap.String("city", bid.City))
	return bid, nil
}

// MyBids lists a customer's bids. The Mini-App "my bids" view passes
// activeOnly=true, hiding closed bids while they stay readable in chats.
func (s *DeliveryService) MyBids(customerTelegramID int64, activeOnly bool) ([]*domain.Bid, error) {
	if customerTelegramID == 0 {
		return nil, NewValidationError("Не указан Telegram ID заказчика.")
	}
	return s.bids.ListBidsByCustomer(customerTelegramID, activeOnly)
}

// CloseBid closes a bid. Idempotent by design.
func (s *DeliveryService) CloseBid(bidID int64) (*domain.Bid, error) {
	if bidID == 0 {
		return nil, NewValidationError("Не указан номер заявки.")
	}
	bid, err := s.bids.Close(bidID)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("close_bid").Inc()
		return nil, err
	}
	metrics.BidsClosedTotal.Inc()
	return bid, nil
}

// GetBidsByCity lists the open bids couriers can respond to in a city.
func (s *DeliveryService) GetBidsByCity(city string) ([]*domain.Bid, error) {
	if strings.TrimSpace(city) == "" {
		return nil, NewValidationError("Укажите город.")
	}
	return s.bids.ListOpenBidsByCity(city)
}

// RespondToBid records a courier's response to an open bid.
func (s *DeliveryService) RespondToBid(bidID, courierTelegramID int64) (*domain.Response, error) {
	if bidID == 0 || courierTelegramID == 0 {
		return nil, NewValidationError("Не указаны номер заявки или Telegram ID курьера.")
	}
	resp, err := s.bids.Respond(bidID, courierTelegramID)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("respond_to_bid").Inc()
		return nil, err
	}
	metrics.ResponsesTotal.Inc()
	s.logger.Info("courier responded",
		zap.Int64("bid_id", bidID),
		zap.Int64("courier", courierTelegramID))
	return resp, nil
}

// BidResponses returns a bid's responses joined with courier profiles.
func (s *DeliveryService) BidResponses(bidID int64) ([]domain.ResponseWithCourier, error) {
	if bidID == 0 {
		return nil, NewValidationError("Не указан номер заявки.")
	}
	return s.bids.ResponsesWithCourierProfile(bidID)
}

// SendMessage persists one chat message and then pushes a best-effort live
// notification to the other side of the conversation. The push result is
// logged only; once persistence succeeded the send as a whole has succeeded.
func (s *DeliveryService) SendMessage(ctx context.Context, req SendMessageRequest) error {
	if req.BidID == 0 || req.CustomerTelegramID == 0 || req.PerformerTelegramID == 0 {
		return NewValidationError("Не указаны участники переписки.")
	}
	role, err := normalizeSenderType(req.SenderType)
	if err != nil {
		return err
	}
	hasText := strings.TrimSpace(req.Message) != ""
	hasAttachment := len(req.Attachment) > 0
	if !hasText && !hasAttachment {
		return NewValidationError("Сообщение не может быть пустым.")
	}

	if _, err := s.bids.Get(req.BidID); err != nil {
		return err
	}

	key := domain.ConversationKey{
		BidID:              req.BidID,
		CustomerTelegramID: req.CustomerTelegramID,
		CourierTelegramID:  req.PerformerTelegramID,
	}

	var attachmentBase64 *string
	if hasAttachment {
		timestamp := time.Now().Format(displayTimeLayout)
		if _, err := s.chats.AppendAttachment(ctx, key, role, req.Attachment, req.AttachmentName, timestamp); err != nil {
			metrics.OperationErrorsTotal.WithLabelValues("send_message").Inc()
			return err
		}
		metrics.MessagesStoredTotal.WithLabelValues("attachment").Inc()
		encoded := base64.StdEncoding.EncodeToString(req.Attachment)
		attachmentBase64 = &encoded
	} else {
		if err := s.chats.AppendText(ctx, key, req.Message); err != nil {
			metrics.OperationErrorsTotal.WithLabelValues("send_message").Inc()
			return err
		}
		metrics.MessagesStoredTotal.WithLabelValues("text").Inc()
	}

	s.notify(key, role, req.Message, attachmentBase64)
	return nil
}

// GetChats returns the raw conversation history for the frontend to render.
func (s *DeliveryService) GetChats(ctx context.Context, key domain.ConversationKey) ([]string, error) {
	if key.BidID == 0 || key.CustomerTelegramID == 0 || key.CourierTelegramID == 0 {
		return nil, NewValidationError("Не указаны участники переписки.")
	}
	return s.chats.History(ctx, key)
}

// CustomerChatsList returns the customer's open bids with their responders.
func (s *DeliveryService) CustomerChatsList(customerTelegramID int64) ([]domain.BidWithResponses, error) {
	if customerTelegramID == 0 {
		return nil, NewValidationError("Не указан Telegram ID заказчика.")
	}
	return s.bids.CustomerChatList(customerTelegramID)
}

// CourierChatsList returns the open bids the courier has responded to.
func (s *DeliveryService) CourierChatsList(courierTelegramID int64) ([]*domain.Bid, error) {
	if courierTelegramID == 0 {
		return nil, NewValidationError("Не указан Telegram ID курьера.")
	}
	return s.bids.CourierChatList(courierTelegramID)
}

// UserData returns the profile for a validated Telegram ID.
func (s *DeliveryService) UserData(telegramID int64) (*domain.User, error) {
	if telegramID == 0 {
		return nil, NewValidationError("Не указан Telegram ID.")
	}
	return s.users.GetUserByTelegramID(telegramID)
}

// notify pushes a live notification to the recipient side of the
// conversation. Fire-and-forget: a miss only delays the recipient until
// their next history fetch.
func (s *DeliveryService) notify(key domain.ConversationKey, senderRole, message string, attachment *string) {
	recipient := key.CustomerTelegramID
	sender := key.CourierTelegramID
	if senderRole == domain.RoleCustomer {
		recipient = key.CourierTelegramID
		sender = key.CustomerTelegramID
	}

	senderName := senderDisplayName(senderRole)
	if user, err := s.users.GetUserByTelegramID(sender); err == nil {
		senderName = user.DeliveryName
	}

	delivered := s.relay.Deliver(recipient, domain.RelayPayload{
		SenderName: senderName,
		Message:    message,
		Attachment: attachment,
	})
	if delivered {
		metrics.RelayDeliveredTotal.Inc()
	} else {
		metrics.RelayMissedTotal.Inc()
		s.logger.Debug("recipient offline, relay skipped",
			zap.Int64("recipient", recipient),
			zap.Int64("bid_id", key.BidID))
	}
}

func normalizeSenderType(senderType string) (string, error) {
	switch senderType {
	case domain.RoleCustomer:
		return domain.RoleCustomer, nil
	case domain.RoleCourier, "performer":
		// The deployed frontend sends "performer" on the attachment path.
		return domain.RoleCourier, nil
	default:
		return "", NewValidationError("Неизвестный тип отправителя.")
	}
}

func senderDisplayName(role string) string {
	if role == domain.RoleCustomer {
		return "Заказчик"
	}
	return "Курьер"
}
