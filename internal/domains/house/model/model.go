package model

import (
	"casa/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "houses"
	EntityName = "house"

	FieldID            = "id"
	FieldName          = "name"
	FieldDescription   = "description"
	FieldCity          = "city"
	FieldAddress       = "address"
	FieldPricePerNight = "price_per_night"
	FieldMaxGuests     = "max_guests"
	FieldBedrooms      = "bedrooms"
	FieldBathrooms     = "bathrooms"
	FieldAmenities     = "amenities"
	FieldImages        = "images"
	FieldIsActive      = "is_active"
)

type House struct {
	ID            int64          `db:"id"`
	Name          string         `db:"name"`
	Description   string         `db:"description"`
	City          string         `db:"city"`
	Address       string         `db:"address"`
	PricePerNight float64        `db:"price_per_night"`
	MaxGuests     int            `db:"max_guests"`
	Bedrooms      int            `db:"bedrooms"`
	Bathrooms     int            `db:"bathrooms"`
	Amenities     pq.StringArray `db:"amenities"`
	Images        pq.StringArray `db:"images"`
	IsActive      bool           `db:"is_active"`
	model.Metadata
}
