package hub

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/The-One-Reborn-developer/servis-plus/internal/domain"
)

const sendBufferSize = 256

// Client is the mediator between one websocket connection and the Hub.
type Client struct {
	ID         string
	TelegramID int64
	Conn       *websocket.Conn
	Send       chan []byte

	hub  *Hub
	once sync.Once
}

func newClient(h *Hub, conn *websocket.Conn, telegramID int64) *Client {
	return &Client{
		ID:         uuid.NewString(),
		TelegramID: telegramID,
		Conn:       conn,
		Send:       make(chan []byte, sendBufferSize),
		hub:        h,
	}
}

// shutdown closes the send channel exactly once, which ends the write pump
// and with it the connection.
func (c *Client) shutdown() {
	c.once.Do(func() {
		close(c.Send)
	})
}

// readPump reads frames from the client's websocket until the connection
// drops. The deployed Mini-App pushes legacy relay envelopes over the socket
// after each HTTP send; they are forwarded to the addressed recipient so both
// frontend generations keep working.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.Conn.Close()
	}()

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("websocket read failed",
					zap.Int64("telegram_id", c.TelegramID),
					zap.Error(err))
			}
			return
		}

		var envelope domain.RelayEnvelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			c.hub.logger.Warn("dropping unparseable relay frame",
				zap.Int64("telegram_id", c.TelegramID),
				zap.Error(err))
			continue
		}
		if envelope.RecipientTelegramID == 0 {
			continue
		}

		c.hub.Deliver(envelope.RecipientTelegramID, domain.RelayPayload{
			SenderName: envelope.SenderName,
			Message:    envelope.Message,
			Attachment: envelope.Attachment,
		})
	}
}

// writePump drains the Send channel into the websocket. It exits when the
// channel closes or a write fails, closing the connection either way.
func (c *Client) writePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			c.hub.logger.Warn("websocket write failed",
				zap.Int64("telegram_id", c.TelegramID),
				zap.Error(err))
			return
		}
	}

	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}
