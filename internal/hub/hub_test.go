package hub

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/The-One-Reborn-developer/servis-plus/internal/domain"
)

// Tests exercise the registry directly with pump-less clients; the websocket
// connection is never touched.

func TestDeliver_ToConnectedClient(t *testing.T) {
	h := NewHub(zap.NewNop())
	client := newClient(h, nil, 100)
	h.register(client)

	attachment := "aGVsbG8="
	payload := domain.RelayPayload{
		SenderName: "Кирилл",
		Message:    "выезжаю",
		Attachment: &attachment,
	}
	require.True(t, h.Deliver(100, payload))

	select {
	case raw := <-client.Send:
		var got domain.RelayPayload
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, payload, got)
	default:
		t.Fatal("expected a frame on the send channel")
	}
}

func TestDeliver_MissingRecipient(t *testing.T) {
	h := NewHub(zap.NewNop())

	assert.False(t, h.Deliver(100, domain.RelayPayload{Message: "привет"}))
}

func TestDeliver_FullSendBuffer(t *testing.T) {
	h := NewHub(zap.NewNop())
	client := newClient(h, nil, 100)
	h.register(client)

	for i := 0; i < sendBufferSize; i++ {
		client.Send <- []byte("x")
	}

	assert.False(t, h.Deliver(100, domain.RelayPayload{Message: "переполнение"}))
}

func TestRegister_ReplacesPriorConnection(t *testing.T) {
	h := NewHub(zap.NewNop())
	first := newClient(h, nil, 100)
	second := newClient(h, nil, 100)

	h.register(first)
	h.register(second)

	// The replaced client's send channel is closed so its write pump exits.
	_, open := <-first.Send
	assert.False(t, open)

	require.True(t, h.Deliver(100, domain.RelayPayload{Message: "новое соединение"}))
	select {
	case <-second.Send:
	default:
		t.Fatal("delivery should reach the replacement client")
	}
}

func TestUnregister_StaleHandleKeepsReplacement(t *testing.T) {
	h := NewHub(zap.NewNop())
	first := newClient(h, nil, 100)
	second := newClient(h, nil, 100)

	h.register(first)
	h.register(second)

	// The replaced connection's read pump unregisters late; the newer entry
	// must survive.
	h.unregister(first)

	assert.True(t, h.Connected(100))
	assert.True(t, h.Deliver(100, domain.RelayPayload{Message: "ещё здесь"}))

	h.unregister(second)
	assert.False(t, h.Connected(100))
	assert.False(t, h.Deliver(100, domain.RelayPayload{Message: "ушёл"}))
}

func TestClear_DisconnectsEveryone(t *testing.T) {
	h := NewHub(zap.NewNop())
	a := newClient(h, nil, 100)
	b := newClient(h, nil, 200)
	h.register(a)
	h.register(b)

	h.Clear()

	assert.False(t, h.Connected(100))
	assert.False(t, h.Connected(200))
	_, open := <-a.Send
	assert.False(t, open)
	_, open = <-b.Send
	assert.False(t, open)
}

func TestShutdown_Idempotent(t *testing.T) {
	h := NewHub(zap.NewNop())
	client := newClient(h, nil, 100)
	h.register(client)

	h.unregister(client)
	// A second unregister of the same handle must not panic on a closed channel.
	h.unregister(client)
}
