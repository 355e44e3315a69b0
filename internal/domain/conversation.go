package domain

import "fmt"

// ConversationKey identifies one chat thread between the customer who owns a
// bid and a courier who responded to it. Threads are created implicitly by the
// first message and stay readable after the bid closes.
type ConversationKey struct {
	BidID              int64
	CustomerTelegramID int64
	CourierTelegramID  int64
}

// String renders the key in the form used as the conversation identifier in
// chat storage.
func (k ConversationKey) String() string {
	return fmt.Sprintf("%d_%d_%d", k.BidID, k.CustomerTelegramID, k.CourierTelegramID)
}
