package postgres

import (
	"database/sql"
	"errors"

	"github.com/The-One-Reborn-developer/servis-plus/internal/domain"
)

// BidRepository handles database operations for bids and their responses.
type BidRepository struct {
	DB *sql.DB
}

// NewBidRepository creates a new BidRepository.
func NewBidRepository(db *sql.DB) *BidRepository {
	return &BidRepository{DB: db}
}

// CreateBid inserts a new bid and fills in its assigned identifier.
func (r *BidRepository) CreateBid(bid *domain.Bid) error {
	query := `
		INSERT INTO bids (customer_telegram_id, city, description, delivery_from, delivery_to, car_necessary, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	return r.DB.QueryRow(
		query,
		bid.CustomerTelegramID, bid.City, bid.Description,
		bid.DeliveryFrom, bid.DeliveryTo, bid.CarNecessary,
		bid.Status, bid.CreatedAt,
	).Scan(&bid.ID)
}

// GetBidByID retrieves a bid by its identifier.
func (r *BidRepository) GetBidByID(id int64) (*domain.Bid, error) {
	bid := &domain.Bid{}
	query := `
		SELECT id, customer_telegram_id, city, description, delivery_from, delivery_to, car_necessary, status, created_at
		FROM bids WHERE id = $1
	`
	err := r.DB.QueryRow(query, id).Scan(
		&bid.ID, &bid.CustomerTelegramID, &bid.City, &bid.Description,
		&bid.DeliveryFrom, &bid.DeliveryTo, &bid.CarNecessary,
		&bid.Status, &bid.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, err
	}
	return bid, nil
}

// ListOpenBidsByCity retrieves all open bids posted in a city.
func (r *BidRepository) ListOpenBidsByCity(city string) ([]*domain.Bid, error) {
	query := `
		SELECT id, customer_telegram_id, city, description, delivery_from, delivery_to, car_necessary, status, created_at
		FROM bids WHERE city = $1 AND status = $2
		ORDER BY id
	`
	return r.queryBids(query, city, domain.BidOpen)
}

// ListBidsByCustomer retrieves a customer's bids. With activeOnly set, closed
// bids are filtered out; they stay in storage either way.
func (r *BidRepository) ListBidsByCustomer(customerTelegramID int64, activeOnly bool) ([]*domain.Bid, error) {
	query := `
		SELECT id, customer_telegram_id, city, description, delivery_from, delivery_to, car_necessary, status, created_at
		FROM bids WHERE customer_telegram_id = $1
	`
	args := []interface{}{customerTelegramID}
	if activeOnly {
		query += ` AND status = $2`
		args = append(args, domain.BidOpen)
	}
	query += ` ORDER BY id`
	return r.queryBids(query, args...)
}

// ListBidsByCourierResponses retrieves the open bids a courier has responded
// to, for the courier's chat list.
func (r *BidRepository) ListBidsByCourierResponses(courierTelegramID int64) ([]*domain.Bid, error) {
	query := `
		SELECT b.id, b.customer_telegram_id, b.city, b.description, b.delivery_from, b.delivery_to, b.car_necessary, b.status, b.created_at
		FROM bids b
		JOIN responses r ON r.bid_id = b.id
		WHERE r.courier_telegram_id = $1 AND b.status = $2
		ORDER BY b.id
	`
	return r.queryBids(query, courierTelegramID, domain.BidOpen)
}

// UpdateBidStatus sets the status of an existing bid.
func (r *BidRepository) UpdateBidStatus(id int64, status domain.BidStatus) error {
	query := `UPDATE bids SET status = $1 WHERE id = $2`
	_, err := r.DB.Exec(query, status, id)
	return err
}

// CreateResponse appends a courier response to a bid and fills in its
// assigned identifier. A second response from the same courier hits the
// unique constraint and returns domain.ErrAlreadyResponded.
func (r *BidRepository) CreateResponse(resp *domain.Response) error {
	query := `
		INSERT INTO responses (bid_id, courier_telegram_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (bid_id, courier_telegram_id) DO NOTHING
		RETURNING id
	`
	err := r.DB.QueryRow(query, resp.BidID, resp.CourierTelegramID, resp.CreatedAt).Scan(&resp.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrAlreadyResponded
	}
	return err
}

// ListResponsesWithCourier retrieves a bid's responses joined with each
// responding courier's profile.
func (r *BidRepository) ListResponsesWithCourier(bidID int64) ([]domain.ResponseWithCourier, error) {
	query := `
		SELECT r.id, r.bid_id, r.courier_telegram_id, r.created_at,
		       u.telegram_id, u.delivery_name, u.delivery_role, u.date_of_birth,
		       u.has_car, u.car_model, u.car_dimensions_width, u.car_dimensions_length, u.car_dimensions_height,
		       u.delivery_registration_date
		FROM responses r
		JOIN users u ON u.telegram_id = r.courier_telegram_id
		WHERE r.bid_id = $1
		ORDER BY r.id
	`
	rows, err := r.DB.Query(query, bidID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ResponseWithCourier
	for rows.Next() {
		var rc domain.ResponseWithCourier
		if err := rows.Scan(
			&rc.Response.ID, &rc.Response.BidID, &rc.Response.CourierTelegramID, &rc.Response.CreatedAt,
			&rc.Courier.TelegramID, &rc.Courier.DeliveryName, &rc.Courier.DeliveryRole, &rc.Courier.DateOfBirth,
			&rc.Courier.HasCar, &rc.Courier.CarModel, &rc.Courier.CarDimensionsWidth, &rc.Courier.CarDimensionsLength, &rc.Courier.CarDimensionsHeight,
			&rc.Courier.RegistrationDate,
		); err != nil {
			return nil, err
		}
		result = append(result, rc)
	}
	return result, rows.Err()
}

func (r *BidRepository) queryBids(query string, args ...interface{}) ([]*domain.Bid, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bids []*domain.Bid
	for rows.Next() {
		bid := &domain.Bid{}
		if err := rows.Scan(
			&bid.ID, &bid.CustomerTelegramID, &bid.City, &bid.Description,
			&bid.DeliveryFrom, &bid.DeliveryTo, &bid.CarNecessary,
			&bid.Status, &bid.CreatedAt,
		); err != nil {
			return nil, err
		}
		bids = append(bids, bid)
	}
	return bids, rows.Err()
}
