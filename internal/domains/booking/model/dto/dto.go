package dto

import (
	"fmt"
	"time"

	bdModel "casa/internal/domains/blockeddate/model"
	"casa/internal/domains/booking/model"
	"casa/shared"
	"casa/shared/constant"
	gDto "casa/shared/dto"
	gModel "casa/shared/model"
	"casa/shared/timezone"
)

type CreateBookingRequest struct {
	HouseID         int64  `json:"house_id"         validate:"required,gt=0"`
	GuestEmail      string `json:"guest_email"      validate:"required,email,max=100"`
	GuestFirstName  string `json:"guest_first_name" validate:"required,max=100"`
	GuestLastName   string `json:"guest_last_name"  validate:"required,max=100"`
	GuestPhone      string `json:"guest_phone"      validate:"omitempty,max=20"`
	CheckInDate     string `json:"check_in_date"    validate:"required"`
	CheckOutDate    string `json:"check_out_date"   validate:"required"`
	Guests          int    `json:"guests"           validate:"required,min=1"`
	SpecialRequests string `json:"special_requests" validate:"omitempty,max=500"`
}

// ParseDates returns the requested stay as a half-open [checkIn, checkOut) range.
func (c *CreateBookingRequest) ParseDates() (checkIn, checkOut time.Time, err error) {
	checkIn, err = time.Parse(constant.DateOnlyLayout, c.CheckInDate)
	if err != nil {
		return checkIn, checkOut, fmt.Errorf("invalid check_in_date: %w", err)
	}

	checkOut, err = time.Parse(constant.DateOnlyLayout, c.CheckOutDate)
	if err != nil {
		return checkIn, checkOut, fmt.Errorf("invalid check_out_date: %w", err)
	}

	return checkIn, checkOut, nil
}

func (c *CreateBookingRequest) ToModel(user string, checkIn, checkOut time.Time, pricePerNight float64) model.Booking {
	nights := model.Nights(checkIn, checkOut)

	return model.Booking{
		HouseID:         c.HouseID,
		GuestEmail:      c.GuestEmail,
		GuestFirstName:  c.GuestFirstName,
		GuestLastName:   c.GuestLastName,
		GuestPhone:      c.GuestPhone,
		CheckInDate:     checkIn,
		CheckOutDate:    checkOut,
		Guests:          c.Guests,
		SpecialRequests: c.SpecialRequests,
		TotalNights:     nights,
		TotalAmount:     float64(nights) * pricePerNight,
		Status:          model.StatusConfirmed,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=cancelled completed"`
}

type BookingResponse struct {
	ID              int64   `json:"id"`
	HouseID         int64   `json:"house_id"`
	HouseName       string  `json:"house_name,omitempty"`
	HouseCity       string  `json:"house_city,omitempty"`
	GuestEmail      string  `json:"guest_email"`
	GuestFirstName  string  `json:"guest_first_name"`
	GuestLastName   string  `json:"guest_last_name"`
	GuestPhone      string  `json:"guest_phone"`
	CheckInDate     string  `json:"check_in_date"`
	CheckOutDate    string  `json:"check_out_date"`
	Guests          int     `json:"guests"`
	SpecialRequests string  `json:"special_requests,omitempty"`
	TotalNights     int     `json:"total_nights"`
	TotalAmount     float64 `json:"total_amount"`
	Status          string  `json:"status"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.HouseID = model.HouseID
	r.HouseName = model.HouseName
	r.HouseCity = model.HouseCity
	r.GuestEmail = model.GuestEmail
	r.GuestFirstName = model.GuestFirstName
	r.GuestLastName = model.GuestLastName
	r.GuestPhone = model.GuestPhone
	r.CheckInDate = model.CheckInDate.Format(constant.DateOnlyLayout)
	r.CheckOutDate = model.CheckOutDate.Format(constant.DateOnlyLayout)
	r.Guests = model.Guests
	r.SpecialRequests = model.SpecialRequests
	r.TotalNights = model.TotalNights
	r.TotalAmount = model.TotalAmount
	r.Status = model.Status
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// BookedRange identifies a stay that blocks the requested dates.
type BookedRange struct {
	ID           int64  `json:"id"`
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
}

// BlockedDay is a single administratively blocked night colliding with the
// requested range.
type BlockedDay struct {
	Date   string `json:"date"`
	Reason string `json:"reason,omitempty"`
}

type AvailabilityResponse struct {
	HouseID             int64         `json:"house_id"`
	StartDate           string        `json:"start_date"`
	EndDate             string        `json:"end_date"`
	Available           bool          `json:"available"`
	ConflictingBookings []BookedRange `json:"conflicting_bookings"`
	BlockedDates        []BlockedDay  `json:"blocked_dates"`
}

func (r *AvailabilityResponse) FromConflicts(houseID int64, start, end time.Time, bookings []model.Booking, blockedDates []bdModel.BlockedDate) {
	r.HouseID = houseID
	r.StartDate = start.Format(constant.DateOnlyLayout)
	r.EndDate = end.Format(constant.DateOnlyLayout)
	r.Available = len(bookings) == 0 && len(blockedDates) == 0

	r.ConflictingBookings = make([]BookedRange, len(bookings))
	for i, booking := range bookings {
		r.ConflictingBookings[i] = BookedRange{
			ID:           booking.ID,
			CheckInDate:  booking.CheckInDate.Format(constant.DateOnlyLayout),
			CheckOutDate: booking.CheckOutDate.Format(constant.DateOnlyLayout),
		}
	}

	r.BlockedDates = make([]BlockedDay, len(blockedDates))
	for i, blocked := range blockedDates {
		r.BlockedDates[i] = BlockedDay{
			Date:   blocked.BlockedDate.Format(constant.DateOnlyLayout),
			Reason: blocked.Reason,
		}
	}
}

type StatsResponse struct {
	TotalHouses       int     `json:"total_houses"`
	ActiveHouses      int     `json:"active_houses"`
	TotalBookings     int     `json:"total_bookings"`
	ConfirmedBookings int     `json:"confirmed_bookings"`
	CompletedBookings int     `json:"completed_bookings"`
	CancelledBookings int     `json:"cancelled_bookings"`
	TotalRevenue      float64 `json:"total_revenue"`
}
