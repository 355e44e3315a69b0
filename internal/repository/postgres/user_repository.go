package postgres

import (
	"database/sql"
	"errors"

	"github.com/The-One-Reborn-developer/servis-plus/internal/domain"
)

// UserRepository handles database operations for user profiles.
type UserRepository struct {
	DB *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// UpsertUser inserts a user profile or refreshes an existing one. Profile
// registration happens in the Telegram bot flow; the server only mirrors it.
func (r *UserRepository) UpsertUser(user *domain.User) error {
	query := `
		INSERT INTO users (telegram_id, delivery_name, delivery_role, date_of_birth,
		                   has_car, car_model, car_dimensions_width, car_dimensions_length, car_dimensions_height,
		                   delivery_registration_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (telegram_id) DO UPDATE SET
			delivery_name = EXCLUDED.delivery_name,
			delivery_role = EXCLUDED.delivery_role,
			date_of_birth = EXCLUDED.date_of_birth,
			has_car = EXCLUDED.has_car,
			car_model = EXCLUDED.car_model,
			car_dimensions_width = EXCLUDED.car_dimensions_width,
			car_dimensions_length = EXCLUDED.car_dimensions_length,
			car_dimensions_height = EXCLUDED.car_dimensions_height
	`
	_, err := r.DB.Exec(
		query,
		user.TelegramID, user.DeliveryName, user.DeliveryRole, user.DateOfBirth,
		user.HasCar, user.CarModel, user.CarDimensionsWidth, user.CarDimensionsLength, user.CarDimensionsHeight,
		user.RegistrationDate,
	)
	return err
}

// GetUserByTelegramID retrieves a user profile by Telegram ID.
func (r *UserRepository) GetUserByTelegramID(telegramID int64) (*domain.User, error) {
	user := &domain.User{}
	query := `
		SELECT telegram_id, delivery_name, delivery_role, date_of_birth,
		       has_car, car_model, car_dimensions_width, car_dimensions_length, car_dimensions_height,
		       delivery_registration_date
		FROM users WHERE telegram_id = $1
	`
	err := r.DB.QueryRow(query, telegramID).Scan(
		&user.TelegramID, &user.DeliveryName, &user.DeliveryRole, &user.DateOfBirth,
		&user.HasCar, &user.CarModel, &user.CarDimensionsWidth, &user.CarDimensionsLength, &user.CarDimensionsHeight,
		&user.RegistrationDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No user found is not an application error
		}
		return nil, err
	}
	return user, nil
}
