package domain

import "time"

// Delivery roles as stored in the users table.
const (
	RoleCustomer = "customer"
	RoleCourier  = "courier"
)

// User represents a Mini-App user profile. Identity comes from Telegram;
// the server never stores credentials, only the validated Telegram ID.
type User struct {
	TelegramID          int64     `json:"telegram_id"`
	DeliveryName        string    `json:"delivery_name"`
	DeliveryRole        string    `json:"delivery_role"`
	DateOfBirth         string    `json:"date_of_birth,omitempty"`
	HasCar              bool      `json:"has_car"`
	CarModel            string    `json:"car_model,omitempty"`
	CarDimensionsWidth  int       `json:"car_dimensions_width,omitempty"`
	CarDimensionsLength int       `json:"car_dimensions_length,omitempty"`
	CarDimensionsHeight int       `json:"car_dimensions_height,omitempty"`
	RegistrationDate    time.Time `json:"delivery_registration_date"`
}

// IsCourier reports whether the user acts as a courier in the delivery flow.
func (u *User) IsCourier() bool {
	return u.DeliveryRole == RoleCourier
}
