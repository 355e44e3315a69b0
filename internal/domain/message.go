package domain

// RelayEnvelope is the frame a connected frontend sends over the websocket to
// request live delivery to the other side of a conversation. The same shape
// predates this server and must stay compatible with the deployed Mini-App.
type RelayEnvelope struct {
	RecipientTelegramID int64   `json:"recipient_telegram_id"`
	SenderName          string  `json:"sender_name"`
	Message             string  `json:"message"`
	Attachment          *string `json:"attachment"` // base64 file content or null
}

// RelayPayload is what the recipient's websocket receives for one delivery
// event. No acknowledgement is expected.
type RelayPayload struct {
	SenderName string  `json:"sender_name"`
	Message    string  `json:"message"`
	Attachment *string `json:"attachment"`
}
