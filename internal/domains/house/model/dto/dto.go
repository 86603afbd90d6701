package dto

import (
	"mime/multipart"

	"casa/internal/domains/house/model"
	"casa/shared"
	gDto "casa/shared/dto"
	gModel "casa/shared/model"
	"casa/shared/timezone"
)

type CreateHouseRequest struct {
	Name          string   `json:"name"            validate:"required,max=150"`
	Description   string   `json:"description"     validate:"omitempty"`
	City          string   `json:"city"            validate:"required,max=100"`
	Address       string   `json:"address"         validate:"omitempty,max=255"`
	PricePerNight float64  `json:"price_per_night" validate:"required,gt=0"`
	MaxGuests     int      `json:"max_guests"      validate:"required,min=1"`
	Bedrooms      int      `json:"bedrooms"        validate:"omitempty,min=0"`
	Bathrooms     int      `json:"bathrooms"       validate:"omitempty,min=0"`
	Amenities     []string `json:"amenities"       validate:"omitempty,dive,max=50"`
	IsActive      *bool    `json:"is_active"       validate:"omitempty"`
}

func (c *CreateHouseRequest) ToModel(user string) model.House {
	active := true
	if c.IsActive != nil {
		active = *c.IsActive
	}

	return model.House{
		Name:          c.Name,
		Description:   c.Description,
		City:          c.City,
		Address:       c.Address,
		PricePerNight: c.PricePerNight,
		MaxGuests:     c.MaxGuests,
		Bedrooms:      c.Bedrooms,
		Bathrooms:     c.Bathrooms,
		Amenities:     c.Amenities,
		Images:        []string{},
		IsActive:      active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// UpdateHouseRequest uses pointers so absent fields stay untouched in the store.
type UpdateHouseRequest struct {
	Name          *string  `db:"name"            json:"name"            validate:"omitempty,max=150"`
	Description   *string  `db:"description"     json:"description"     validate:"omitempty"`
	City          *string  `db:"city"            json:"city"            validate:"omitempty,max=100"`
	Address       *string  `db:"address"         json:"address"         validate:"omitempty,max=255"`
	PricePerNight *float64 `db:"price_per_night" json:"price_per_night" validate:"omitempty,gt=0"`
	MaxGuests     *int     `db:"max_guests"      json:"max_guests"      validate:"omitempty,min=1"`
	Bedrooms      *int     `db:"bedrooms"        json:"bedrooms"        validate:"omitempty,min=0"`
	Bathrooms     *int     `db:"bathrooms"       json:"bathrooms"       validate:"omitempty,min=0"`
	Amenities     []string `json:"amenities"     validate:"omitempty,dive,max=50"`
}

type UploadHouseImagesRequest struct {
	Images []*multipart.FileHeader `json:"images" validate:"required,min=1,dive,mimetypes=image/png image/jpg image/jpeg,maxfilesize=2"`
	Files  []multipart.File        `json:"-"`
}

type HouseResponse struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	City          string   `json:"city"`
	Address       string   `json:"address"`
	PricePerNight float64  `json:"price_per_night"`
	MaxGuests     int      `json:"max_guests"`
	Bedrooms      int      `json:"bedrooms"`
	Bathrooms     int      `json:"bathrooms"`
	Amenities     []string `json:"amenities"`
	Images        []string `json:"images"`
	IsActive      bool     `json:"is_active"`
	gDto.Metadata
}

func (r *HouseResponse) FromModel(model model.House) {
	r.ID = model.ID
	r.Name = model.Name
	r.Description = model.Description
	r.City = model.City
	r.Address = model.Address
	r.PricePerNight = model.PricePerNight
	r.MaxGuests = model.MaxGuests
	r.Bedrooms = model.Bedrooms
	r.Bathrooms = model.Bathrooms
	r.Amenities = model.Amenities
	r.Images = model.Images
	r.IsActive = model.IsActive
	r.Metadata.FromModel(model.Metadata)
}

type GetHousesResponse struct {
	Houses    []HouseResponse `json:"houses"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetHousesResponse) FromModels(models []model.House, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Houses = make([]HouseResponse, len(models))
	for i, mod := range models {
		r.Houses[i].FromModel(mod)
	}
}
