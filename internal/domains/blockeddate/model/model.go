package model

import (
	"time"

	"casa/shared/model"
)

const (
	TableName  = "blocked_dates"
	EntityName = "blocked_date"

	FieldID          = "id"
	FieldHouseID     = "house_id"
	FieldBlockedDate = "blocked_date"
	FieldReason      = "reason"
)

type BlockedDate struct {
	ID          int64     `db:"id"`
	HouseID     int64     `db:"house_id"`
	BlockedDate time.Time `db:"blocked_date"`
	Reason      string    `db:"reason"`
	model.Metadata
}
