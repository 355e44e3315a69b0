package service

import (
	"fmt"
	"time"

	"github.com/The-One-Reborn-developer/servis-plus/internal/domain"
)

// BidService implements the bid lifecycle: open on creation, appendable with
// courier responses while open, closed exactly once by the customer.
type BidService struct {
	bidRepo IBidRepository
}

// NewBidService creates a new BidService.
func NewBidService(bidRepo IBidRepository) *BidService {
	return &BidService{bidRepo: bidRepo}
}

// CreateBid publishes a new open bid and assigns its identifier.
func (s *BidService) CreateBid(customerTelegramID int64, city, description, deliveryFrom, deliveryTo string, carNecessary bool) (*domain.Bid, error) {
	bid := &domain.Bid{
		CustomerTelegramID: customerTelegramID,
		City:               city,
		Description:        description,
		DeliveryFrom:       deliveryFrom,
		DeliveryTo:         deliveryTo,
		CarNecessary:       carNecessary,
		Status:             domain.BidOpen,
		CreatedAt:          time.Now().UTC(),
	}
	if err := s.bidRepo.CreateBid(bid); err != nil {
		return nil, fmt.Errorf("failed to create bid: %w", err)
	}
	return bid, nil
}

// Get returns a bid by identifier or domain.ErrBidNotFound.
func (s *BidService) Get(bidID int64) (*domain.Bid, error) {
	bid, err := s.bidRepo.GetBidByID(bidID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bid %d: %w", bidID, err)
	}
	if bid == nil {
		return nil, domain.ErrBidNotFound
	}
	return bid, nil
}

// ListOpenBidsByCity returns the open bids couriers can respond to in a city.
func (s *BidService) ListOpenBidsByCity(city string) ([]*domain.Bid, error) {
	return s.bidRepo.ListOpenBidsByCity(city)
}

// ListBidsByCustomer returns a customer's bids, optionally filtered to open
// ones. Closed bids stay in storage for chat history either way.
func (s *BidService) ListBidsByCustomer(customerTelegramID int64, activeOnly bool) ([]*domain.Bid, error) {
	return s.bidRepo.ListBidsByCustomer(customerTelegramID, activeOnly)
}

// Respond appends a courier response to an open bid. The bid stays open;
// only the customer closes it. Responding to a closed bid fails with
// domain.ErrBidClosed, responding twice with domain.ErrAlreadyResponded.
func (s *BidService) Respond(bidID, courierTelegramID int64) (*domain.Response, error) {
	bid, err := s.bidRepo.GetBidByID(bidID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bid %d: %w", bidID, err)
	}
	if bid == nil {
		return nil, domain.ErrBidNotFound
	}
	if !bid.IsOpen() {
		return nil, domain.ErrBidClosed
	}

	resp := &domain.Response{
		BidID:             bidID,
		CourierTelegramID: courierTelegramID,
		CreatedAt:         time.Now().UTC(),
	}
	if err := s.bidRepo.CreateResponse(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Close archives a bid out of the active views. Closing is idempotent: a
// second close succeeds and returns the already-closed bid.
func (s *BidService) Close(bidID int64) (*domain.Bid, error) {
	bid, err := s.bidRepo.GetBidByID(bidID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bid %d: %w", bidID, err)
	}
	if bid == nil {
		return nil, domain.ErrBidNotFound
	}
	if !bid.IsOpen() {
		return bid, nil
	}

	bid.Close()
	if err := s.bidRepo.UpdateBidStatus(bidID, domain.BidClosed); err != nil {
		return nil, fmt.Errorf("failed to close bid %d: %w", bidID, err)
	}
	return bid, nil
}

// ResponsesWithCourierProfile returns a bid's responses joined with each
// courier's profile for display.
func (s *BidService) ResponsesWithCourierProfile(bidID int64) ([]domain.ResponseWithCourier, error) {
	bid, err := s.bidRepo.GetBidByID(bidID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bid %d: %w", bidID, err)
	}
	if bid == nil {
		return nil, domain.ErrBidNotFound
	}
	return s.bidRepo.ListResponsesWithCourier(bidID)
}

// CustomerChatList returns the customer's open bids, each with the couriers
// who responded. An empty result is not an error.
func (s *BidService) CustomerChatList(customerTelegramID int64) ([]domain.BidWithResponses, error) {
	bids, err := s.bidRepo.ListBidsByCustomer(customerTelegramID, true)
	if err != nil {
		return nil, err
	}

	result := make([]domain.BidWithResponses, 0, len(bids))
	for _, bid := range bids {
		responses, err := s.bidRepo.ListResponsesWithCourier(bid.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, domain.BidWithResponses{Bid: *bid, Responses: responses})
	}
	return result, nil
}

// CourierChatList returns the open bids the courier has responded to.
func (s *BidService) CourierChatList(courierTelegramID int64) ([]*domain.Bid, error) {
	return s.bidRepo.ListBidsByCourierResponses(courierTelegramID)
}
