package dto_test

import (
	"testing"
	"time"

	bdModel "casa/internal/domains/blockeddate/model"
	"casa/internal/domains/booking/model"
	"casa/internal/domains/booking/model/dto"
)

func TestCreateBookingRequest_ParseDates(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  string
		checkOut string
		wantErr  bool
	}{
		{
			name:     "valid dates",
			checkIn:  "2026-06-01",
			checkOut: "2026-06-05",
			wantErr:  false,
		},
		{
			name:     "invalid check-in",
			checkIn:  "June 1st",
			checkOut: "2026-06-05",
			wantErr:  true,
		},
		{
			name:     "invalid check-out",
			checkIn:  "2026-06-01",
			checkOut: "05/06/2026",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := dto.CreateBookingRequest{
				CheckInDate:  tt.checkIn,
				CheckOutDate: tt.checkOut,
			}

			checkIn, checkOut, err := req.ParseDates()

			if tt.wantErr {
				if err == nil {
					t.Error("expected an error, got nil")
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if checkIn.After(checkOut) {
				t.Error("expected check-in to precede check-out")
			}
		})
	}
}

func TestCreateBookingRequest_ToModel(t *testing.T) {
	req := dto.CreateBookingRequest{
		HouseID:         7,
		GuestEmail:      "ada@example.com",
		GuestFirstName:  "Ada",
		GuestLastName:   "Lovelace",
		Guests:          2,
		SpecialRequests: "late check-in",
		CheckInDate:     "2026-06-01",
		CheckOutDate:    "2026-06-05",
	}

	checkIn, checkOut, err := req.ParseDates()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	booking := req.ToModel("guest", checkIn, checkOut, 150.50)

	if booking.TotalNights != 4 {
		t.Errorf("expected 4 nights, got %d", booking.TotalNights)
	}
	if booking.TotalAmount != 602 {
		t.Errorf("expected total amount 602, got %v", booking.TotalAmount)
	}
	if booking.Status != model.StatusConfirmed {
		t.Errorf("expected status %s, got %s", model.StatusConfirmed, booking.Status)
	}
	if booking.SpecialRequests != "late check-in" {
		t.Errorf("expected special requests to carry over, got %s", booking.SpecialRequests)
	}
	if booking.CreatedBy != "guest" {
		t.Errorf("expected created_by to be guest, got %s", booking.CreatedBy)
	}
}

func TestAvailabilityResponse_FromConflicts(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		bookings      []model.Booking
		blockedDates  []bdModel.BlockedDate
		wantAvailable bool
	}{
		{
			name:          "no collisions",
			bookings:      nil,
			blockedDates:  nil,
			wantAvailable: true,
		},
		{
			name: "colliding booking",
			bookings: []model.Booking{
				{
					ID:           3,
					CheckInDate:  time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC),
					CheckOutDate: time.Date(2026, 6, 7, 0, 0, 0, 0, time.UTC),
				},
			},
			wantAvailable: false,
		},
		{
			name: "blocked date inside range",
			blockedDates: []bdModel.BlockedDate{
				{
					ID:          1,
					BlockedDate: time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC),
					Reason:      "maintenance",
				},
			},
			wantAvailable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := dto.AvailabilityResponse{}
			res.FromConflicts(9, start, end, tt.bookings, tt.blockedDates)

			if res.Available != tt.wantAvailable {
				t.Errorf("expected available=%v, got %v", tt.wantAvailable, res.Available)
			}
			if res.HouseID != 9 {
				t.Errorf("expected house_id 9, got %d", res.HouseID)
			}
			if res.StartDate != "2026-06-01" || res.EndDate != "2026-06-05" {
				t.Errorf("expected formatted range, got %s - %s", res.StartDate, res.EndDate)
			}
			if len(res.ConflictingBookings) != len(tt.bookings) {
				t.Errorf("expected %d conflicting bookings, got %d", len(tt.bookings), len(res.ConflictingBookings))
			}
			if len(res.BlockedDates) != len(tt.blockedDates) {
				t.Errorf("expected %d blocked dates, got %d", len(tt.blockedDates), len(res.BlockedDates))
			}

			for i, blocked := range tt.blockedDates {
				if res.BlockedDates[i].Reason != blocked.Reason {
					t.Errorf("expected blocked date reason %s, got %s", blocked.Reason, res.BlockedDates[i].Reason)
				}
			}
		})
	}
}
