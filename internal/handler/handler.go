package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/The-One-Reborn-developer/servis-plus/internal/domain"
	"github.com/The-One-Reborn-developer/servis-plus/internal/hub"
	"github.com/The-One-Reborn-developer/servis-plus/internal/service"
)

const maxAttachmentSize = 10 << 20 // 10 MiB

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The Mini-App is served from the Telegram webview origin.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler exposes the delivery marketplace HTTP API.
type Handler struct {
	delivery       *service.DeliveryService
	hub            *hub.Hub
	logger         *zap.Logger
	attachmentsDir string
}

// New creates a new Handler.
func New(delivery *service.DeliveryService, h *hub.Hub, logger *zap.Logger, attachmentsDir string) *Handler {
	return &Handler{
		delivery:       delivery,
		hub:            h,
		logger:         logger,
		attachmentsDir: attachmentsDir,
	}
}

// RegisterRoutes attaches every endpoint to the router. Paths are a
// compatibility contract with the deployed Mini-App frontend.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/delivery/post-bid", h.PostBid).Methods(http.MethodPost)
	r.HandleFunc("/delivery/my-bids", h.MyBids).Methods(http.MethodPost)
	r.HandleFunc("/close-delivery-bid", h.CloseBid).Methods(http.MethodPost)
	r.HandleFunc("/delivery/get-bids", h.GetBids).Methods(http.MethodPost)
	r.HandleFunc("/respond-to-delivery-bid", h.RespondToBid).Methods(http.MethodPost)
	r.HandleFunc("/delivery/bid-responses", h.BidResponses).Methods(http.MethodPost)
	r.HandleFunc("/delivery/send-message", h.SendMessage).Methods(http.MethodPost)
	r.HandleFunc("/delivery/get-chats", h.GetChats).Methods(http.MethodGet)
	r.HandleFunc("/delivery/show-customer-chats-list", h.CustomerChatsList).Methods(http.MethodPost)
	r.HandleFunc("/delivery/show-courier-chats-list", h.CourierChatsList).Methods(http.MethodPost)
	r.HandleFunc("/get-user-data", h.GetUserData).Methods(http.MethodPost)
	r.HandleFunc("/ws", h.HandleConnection).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.PathPrefix("/attachments/").Handler(
		http.StripPrefix("/attachments/", http.FileServer(http.Dir(h.attachmentsDir))))
}

// PostBid handles POST /delivery/post-bid.
func (h *Handler) PostBid(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerTelegramID int64  `json:"customer_telegram_id"`
		City               string `json:"city"`
		Description        string `json:"description"`
		DeliveryFrom       string `json:"delivery_from"`
		DeliveryTo         string `json:"delivery_to"`
		CarNecessary       bool   `json:"car_necessary"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	bid, err := h.delivery.PostBid(service.PostBidRequest{
		CustomerTelegramID: req.CustomerTelegramID,
		City:               req.City,
		Description:        req.Description,
		DeliveryFrom:       req.DeliveryFrom,
		DeliveryTo:         req.DeliveryTo,
		CarNecessary:       req.CarNecessary,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, map[string]interface{}{"message": "Заявка успешно опубликована!", "bid": bid})
}

// MyBids handles POST /delivery/my-bids. The view shows active bids only;
// closed bids are archived out of it but stay readable in chats.
func (h *Handler) MyBids(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerTelegramID int64 `json:"customer_telegram_id"`
		IncludeClosed      bool  `json:"include_closed"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	bids, err := h.delivery.MyBids(req.CustomerTelegramID, !req.IncludeClosed)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, map[string]interface{}{"bids": emptyIfNilBids(bids)})
}

// CloseBid handles POST /close-delivery-bid.
func (h *Handler) CloseBid(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BidID int64 `json:"bid_id"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	if _, err := h.delivery.CloseBid(req.BidID); err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, map[string]interface{}{"message": "Заявка закрыта."})
}

// GetBids handles POST /delivery/get-bids.
func (h *Handler) GetBids(w http.ResponseWriter, r *http.Request) {
	var req struct {
		City string `json:"city"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	bids, err := h.delivery.GetBidsByCity(req.City)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, map[string]interface{}{"bids": emptyIfNilBids(bids)})
}

// RespondToBid handles POST /respond-to-delivery-bid.
func (h *Handler) RespondToBid(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BidID               int64 `json:"bid_id"`
		PerformerTelegramID int64 `json:"performer_telegram_id"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	if _, err := h.delivery.RespondToBid(req.BidID, req.PerformerTelegramID); err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, map[string]interface{}{"message": "Отклик отправлен!"})
}

// BidResponses handles POST /delivery/bid-responses.
func (h *Handler) BidResponses(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BidID int64 `json:"bid_id"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	responses, err := h.delivery.BidResponses(req.BidID)
	if err != nil {
		h.fail(w, err)
		return
	}
	if responses == nil {
		responses = []domain.ResponseWithCourier{}
	}
	h.ok(w, map[string]interface{}{"responses": responses})
}

// SendMessage handles POST /delivery/send-message. Accepts either a JSON
// body for plain text or a multipart form carrying an attachment file.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseSendMessage(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	if err := h.delivery.SendMessage(r.Context(), req); err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, map[string]interface{}{"message": "Сообщение отправлено."})
}

func (h *Handler) parseSendMessage(r *http.Request) (service.SendMessageRequest, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return h.parseMultipartSend(r)
	}

	var req struct {
		BidID               int64  `json:"bid_id"`
		CustomerTelegramID  int64  `json:"customer_telegram_id"`
		PerformerTelegramID int64  `json:"performer_telegram_id"`
		Message             string `json:"message"`
		SenderType          string `json:"sender_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return service.SendMessageRequest{}, service.NewValidationError("Некорректный запрос.")
	}
	return service.SendMessageRequest{
		BidID:               req.BidID,
		CustomerTelegramID:  req.CustomerTelegramID,
		PerformerTelegramID: req.PerformerTelegramID,
		Message:             req.Message,
		SenderType:          req.SenderType,
	}, nil
}

func (h *Handler) parseMultipartSend(r *http.Request) (service.SendMessageRequest, error) {
	if err := r.ParseMultipartForm(maxAttachmentSize); err != nil {
		return service.SendMessageRequest{}, service.NewValidationError("Файл слишком большой.")
	}

	req := service.SendMessageRequest{
		BidID:               formInt64(r, "bid_id"),
		CustomerTelegramID:  formInt64(r, "customer_telegram_id"),
		PerformerTelegramID: formInt64(r, "performer_telegram_id"),
		Message:             r.FormValue("message"),
		SenderType:          r.FormValue("sender_type"),
	}

	file, header, err := r.FormFile("attachment")
	if err == nil {
		defer file.Close()
		data, readErr := io.ReadAll(io.LimitReader(file, maxAttachmentSize))
		if readErr != nil {
			return service.SendMessageRequest{}, readErr
		}
		req.Attachment = data
		req.AttachmentName = header.Filename
	}
	return req, nil
}

// GetChats handles GET /delivery/get-chats.
func (h *Handler) GetChats(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	key := domain.ConversationKey{
		BidID:              queryInt64(query.Get("bid_id")),
		CustomerTelegramID: queryInt64(query.Get("customer_telegram_id")),
		CourierTelegramID:  queryInt64(query.Get("courier_telegram_id")),
	}

	blobs, err := h.delivery.GetChats(r.Context(), key)
	if err != nil {
		h.fail(w, err)
		return
	}
	if blobs == nil {
		blobs = []string{}
	}
	h.ok(w, map[string]interface{}{"chatMessages": blobs})
}

// CustomerChatsList handles POST /delivery/show-customer-chats-list.
func (h *Handler) CustomerChatsList(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerTelegramID int64 `json:"customer_telegram_id"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	bids, err := h.delivery.CustomerChatsList(req.CustomerTelegramID)
	if err != nil {
		h.fail(w, err)
		return
	}
	if bids == nil {
		bids = []domain.BidWithResponses{}
	}
	h.ok(w, map[string]interface{}{"bids": bids})
}

// CourierChatsList handles POST /delivery/show-courier-chats-list.
func (h *Handler) CourierChatsList(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CourierTelegramID int64 `json:"courier_telegram_id"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	bids, err := h.delivery.CourierChatsList(req.CourierTelegramID)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, map[string]interface{}{"bids": emptyIfNilBids(bids)})
}

// GetUserData handles POST /get-user-data.
func (h *Handler) GetUserData(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TelegramID int64 `json:"telegram_id"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.delivery.UserData(req.TelegramID)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, map[string]interface{}{"userData": user})
}

// HandleConnection handles GET /ws?telegram_id= and hands the upgraded
// connection to the relay hub.
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	telegramID := queryInt64(r.URL.Query().Get("telegram_id"))
	if telegramID == 0 {
		http.Error(w, "telegram_id is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.hub.HandleNewClient(conn, telegramID)
}

// --- Helpers ---

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.fail(w, service.NewValidationError("Некорректный запрос."))
		return false
	}
	return true
}

func (h *Handler) ok(w http.ResponseWriter, fields map[string]interface{}) {
	body := map[string]interface{}{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	h.writeJSON(w, http.StatusOK, body)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
	}
	h.writeJSON(w, status, map[string]interface{}{
		"success": false,
		"message": service.UserMessage(err),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to write response", zap.Error(err))
	}
}

func statusFor(err error) int {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrBidNotFound), errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrBidClosed), errors.Is(err, domain.ErrAlreadyResponded):
		return http.StatusConflict
	case errors.Is(err, domain.ErrEmptyMessage):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func queryInt64(value string) int64 {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func formInt64(r *http.Request, field string) int64 {
	return queryInt64(r.FormValue(field))
}

func emptyIfNilBids(bids []*domain.Bid) []*domain.Bid {
	if bids == nil {
		return []*domain.Bid{}
	}
	return bids
}
