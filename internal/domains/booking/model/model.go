package model

import (
	"math"
	"time"

	"casa/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID              = "id"
	FieldHouseID         = "house_id"
	FieldGuestEmail      = "guest_email"
	FieldGuestFirstName  = "guest_first_name"
	FieldGuestLastName   = "guest_last_name"
	FieldGuestPhone      = "guest_phone"
	FieldCheckInDate     = "check_in_date"
	FieldCheckOutDate    = "check_out_date"
	FieldGuests          = "guests"
	FieldSpecialRequests = "special_requests"
	FieldTotalNights     = "total_nights"
	FieldTotalAmount     = "total_amount"
	FieldStatus          = "status"
	FieldCreatedBy       = "created_by"
)

const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

type Booking struct {
	ID              int64     `db:"id"`
	HouseID         int64     `db:"house_id"`
	GuestEmail      string    `db:"guest_email"`
	GuestFirstName  string    `db:"guest_first_name"`
	GuestLastName   string    `db:"guest_last_name"`
	GuestPhone      string    `db:"guest_phone"`
	CheckInDate     time.Time `db:"check_in_date"`
	CheckOutDate    time.Time `db:"check_out_date"`
	Guests          int       `db:"guests"`
	SpecialRequests string    `db:"special_requests"`
	TotalNights     int       `db:"total_nights"`
	TotalAmount     float64   `db:"total_amount"`
	Status          string    `db:"status"`
	HouseName       string    `db:"house_name" table:"houses" column:"name"`
	HouseCity       string    `db:"house_city" table:"houses" column:"city"`
	model.Metadata
}

func (Booking) GetJoinQuery() string {
	return "JOIN houses ON houses.id = bookings.house_id"
}

// Stats aggregates the booking ledger for the admin dashboard.
type Stats struct {
	TotalBookings     int     `db:"total_bookings"`
	ConfirmedBookings int     `db:"confirmed_bookings"`
	CompletedBookings int     `db:"completed_bookings"`
	CancelledBookings int     `db:"cancelled_bookings"`
	TotalRevenue      float64 `db:"total_revenue"`
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) share at least
// one night. Check-out day is exclusive, so back-to-back stays do not clash.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// CoversDate reports whether a stay [start, end) occupies the given night.
func CoversDate(start, end, date time.Time) bool {
	return !date.Before(start) && date.Before(end)
}

// Nights returns the number of nights between check-in and check-out,
// rounding partial days up.
func Nights(checkIn, checkOut time.Time) int {
	hours := checkOut.Sub(checkIn).Hours()
	if hours <= 0 {
		return 0
	}

	return int(math.Ceil(hours / 24))
}
