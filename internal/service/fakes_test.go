package service_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/The-One-Reborn-developer/servis-plus/internal/domain"
)

// In-memory repository fakes. They mirror the persistence contracts closely
// enough for service-level tests: not-found is (nil, nil), duplicate
// responses hit the uniqueness rule, conversations keep insertion order.

type fakeBidRepo struct {
	bids      map[int64]*domain.Bid
	responses []*domain.Response
	users     map[int64]domain.User
	nextBid   int64
	nextResp  int64
}

func newFakeBidRepo() *fakeBidRepo {
	return &fakeBidRepo{
		bids:  make(map[int64]*domain.Bid),
		users: make(map[int64]domain.User),
	}
}

func (r *fakeBidRepo) CreateBid(bid *domain.Bid) error {
	r.nextBid++
	bid.ID = r.nextBid
	stored := *bid
	r.bids[bid.ID] = &stored
	return nil
}

func (r *fakeBidRepo) GetBidByID(id int64) (*domain.Bid, error) {
	bid, ok := r.bids[id]
	if !ok {
		return nil, nil
	}
	copied := *bid
	return &copied, nil
}

func (r *fakeBidRepo) ListOpenBidsByCity(city string) ([]*domain.Bid, error) {
	var result []*domain.Bid
	for id := int64(1); id <= r.nextBid; id++ {
		bid, ok := r.bids[id]
		if ok && bid.City == city && bid.Status == domain.BidOpen {
			copied := *bid
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeBidRepo) ListBidsByCustomer(customerTelegramID int64, activeOnly bool) ([]*domain.Bid, error) {
	var result []*domain.Bid
	for id := int64(1); id <= r.nextBid; id++ {
		bid, ok := r.bids[id]
		if !ok || bid.CustomerTelegramID != customerTelegramID {
			continue
		}
		if activeOnly && bid.Status != domain.BidOpen {
			continue
		}
		copied := *bid
		result = append(result, &copied)
	}
	return result, nil
}

func (r *fakeBidRepo) ListBidsByCourierResponses(courierTelegramID int64) ([]*domain.Bid, error) {
	var result []*domain.Bid
	for _, resp := range r.responses {
		if resp.CourierTelegramID != courierTelegramID {
			continue
		}
		bid, ok := r.bids[resp.BidID]
		if ok && bid.Status == domain.BidOpen {
			copied := *bid
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeBidRepo) UpdateBidStatus(id int64, status domain.BidStatus) error {
	bid, ok := r.bids[id]
	if !ok {
		return fmt.Errorf("bid %d does not exist", id)
	}
	bid.Status = status
	return nil
}

func (r *fakeBidRepo) CreateResponse(resp *domain.Response) error {
	for _, existing := range r.responses {
		if existing.BidID == resp.BidID && existing.CourierTelegramID == resp.CourierTelegramID {
			return domain.ErrAlreadyResponded
		}
	}
	r.nextResp++
	resp.ID = r.nextResp
	stored := *resp
	r.responses = append(r.responses, &stored)
	return nil
}

func (r *fakeBidRepo) ListResponsesWithCourier(bidID int64) ([]domain.ResponseWithCourier, error) {
	var result []domain.ResponseWithCourier
	for _, resp := range r.responses {
		if resp.BidID != bidID {
			continue
		}
		result = append(result, domain.ResponseWithCourier{
			Response: *resp,
			Courier:  r.users[resp.CourierTelegramID],
		})
	}
	return result, nil
}

type fakeChatRepo struct {
	mu       sync.Mutex
	messages []*domain.ChatMessage
}

func (r *fakeChatRepo) SaveMessage(_ context.Context, message *domain.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *message
	r.messages = append(r.messages, &stored)
	return nil
}

func (r *fakeChatRepo) GetMessagesByConversation(_ context.Context, key domain.ConversationKey) ([]*domain.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*domain.ChatMessage
	for _, m := range r.messages {
		if m.ConversationID == key.String() {
			copied := *m
			result = append(result, &copied)
		}
	}
	return result, nil
}

type fakeUserRepo struct {
	users map[int64]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*domain.User)}
}

func (r *fakeUserRepo) UpsertUser(user *domain.User) error {
	stored := *user
	r.users[user.TelegramID] = &stored
	return nil
}

func (r *fakeUserRepo) GetUserByTelegramID(telegramID int64) (*domain.User, error) {
	user, ok := r.users[telegramID]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

type fakeFileStorage struct {
	saved map[string][]byte
}

func newFakeFileStorage() *fakeFileStorage {
	return &fakeFileStorage{saved: make(map[string][]byte)}
}

func (s *fakeFileStorage) SaveAttachment(bidID int64, filename string, data []byte) (string, error) {
	path := fmt.Sprintf("app/chats/attachments/%d_%s", bidID, filename)
	s.saved[path] = data
	return path, nil
}

type deliveredPush struct {
	recipient int64
	payload   domain.RelayPayload
}

type fakeRelay struct {
	connected map[int64]bool
	delivered []deliveredPush
}

func newFakeRelay() *fakeRelay {
	return &fakeRelay{connected: make(map[int64]bool)}
}

func (r *fakeRelay) Deliver(recipientTelegramID int64, payload domain.RelayPayload) bool {
	if !r.connected[recipientTelegramID] {
		return false
	}
	r.delivered = append(r.delivered, deliveredPush{recipient: recipientTelegramID, payload: payload})
	return true
}
