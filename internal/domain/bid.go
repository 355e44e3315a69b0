package domain

import "time"

// BidStatus is the lifecycle state of a bid. There are exactly two states:
// a bid is open until its customer closes it, and closing is final.
type BidStatus string

const (
	BidOpen   BidStatus = "open"
	BidClosed BidStatus = "closed"
)

// Bid represents a customer-posted delivery request.
type Bid struct {
	ID                 int64     `json:"id"`
	CustomerTelegramID int64     `json:"customer_telegram_id"`
	City               string    `json:"city"`
	Description        string    `json:"description"`
	DeliveryFrom       string    `json:"delivery_from"`
	DeliveryTo         string    `json:"delivery_to"`
	CarNecessary       bool      `json:"car_necessary"`
	Status             BidStatus `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
}

// Close transitions the bid to the closed state. Closing an already-closed
// bid is a no-op; the transition is idempotent.
func (b *Bid) Close() {
	b.Status = BidClosed
}

// IsOpen reports whether the bid still accepts responses.
func (b *Bid) IsOpen() bool {
	return b.Status == BidOpen
}

// Response is a courier's expression of interest in an open bid.
// A courier may respond to a given bid at most once.
type Response struct {
	ID                int64     `json:"id"`
	BidID             int64     `json:"bid_id"`
	CourierTelegramID int64     `json:"courier_telegram_id"`
	CreatedAt         time.Time `json:"created_at"`
}

// ResponseWithCourier pairs a response with the responding courier's profile
// for display in the customer's chat list.
type ResponseWithCourier struct {
	Response Response `json:"response"`
	Courier  User     `json:"courier"`
}

// BidWithResponses is one entry of the customer chat list: a bid together
// with every courier who responded to it.
type BidWithResponses struct {
	Bid       Bid                   `json:"bid"`
	Responses []ResponseWithCourier `json:"responses"`
}
