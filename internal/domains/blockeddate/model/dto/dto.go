package dto

import (
	"time"

	"casa/internal/domains/blockeddate/model"
	"casa/shared/constant"
	gDto "casa/shared/dto"
	gModel "casa/shared/model"
	"casa/shared/timezone"
)

type AddBlockedDatesRequest struct {
	Dates  []string `json:"dates"  validate:"required,min=1,dive,datetime=2006-01-02"`
	Reason string   `json:"reason" validate:"omitempty,max=255"`
}

func (c *AddBlockedDatesRequest) ToModels(houseID int64, user string) ([]model.BlockedDate, error) {
	models := make([]model.BlockedDate, len(c.Dates))

	for i, raw := range c.Dates {
		date, err := time.Parse(constant.DateOnlyLayout, raw)
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		models[i] = model.BlockedDate{
			HouseID:     houseID,
			BlockedDate: date,
			Reason:      c.Reason,
			Metadata: gModel.Metadata{
				CreatedAt:  timezone.Now(),
				ModifiedAt: timezone.Now(),
				CreatedBy:  user,
				ModifiedBy: user,
			},
		}
	}

	return models, nil
}

type AddBlockedDatesResponse struct {
	Requested int `json:"requested"`
	Added     int `json:"added"`
	Skipped   int `json:"skipped"`
}

type BlockedDateResponse struct {
	ID          int64  `json:"id"`
	HouseID     int64  `json:"house_id"`
	BlockedDate string `json:"blocked_date"`
	Reason      string `json:"reason,omitempty"`
	gDto.Metadata
}

func (r *BlockedDateResponse) FromModel(model model.BlockedDate) {
	r.ID = model.ID
	r.HouseID = model.HouseID
	r.BlockedDate = model.BlockedDate.Format(constant.DateOnlyLayout)
	r.Reason = model.Reason
	r.Metadata.FromModel(model.Metadata)
}

type GetBlockedDatesResponse struct {
	BlockedDates []BlockedDateResponse `json:"blocked_dates"`
}

func (r *GetBlockedDatesResponse) FromModels(models []model.BlockedDate) {
	r.BlockedDates = make([]BlockedDateResponse, len(models))
	for i, mod := range models {
		r.BlockedDates[i].FromModel(mod)
	}
}
