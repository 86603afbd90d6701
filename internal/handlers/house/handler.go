package house

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"casa/infras/otel"
	bookingService "casa/internal/domains/booking/service"
	"casa/internal/domains/house/model"
	"casa/internal/domains/house/model/dto"
	"casa/internal/domains/house/service"
	"casa/shared"
	"casa/shared/constant"
	gDto "casa/shared/dto"
	"casa/shared/failure"
	"casa/shared/validator"
	"casa/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

const (
	requestParamCity     = "city"
	requestParamMinPrice = "min_price"
	requestParamMaxPrice = "max_price"
	requestParamGuests   = "guests"
	requestParamActive   = "is_active"

	formFieldImages = "images"
)

type Handler struct {
	service        service.House
	bookingService bookingService.Booking
	otel           otel.Otel
}

func New(service service.House, bookingService bookingService.Booking, otel otel.Otel) Handler {
	return Handler{
		service:        service,
		bookingService: bookingService,
		otel:           otel,
	}
}

// Router registers the public house endpoints.
func (handler *Handler) Router(router chi.Router) {
	router.Route("/houses", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetHouses)
		routerGroup.Get("/{id}", handler.GetHouseByID)
		routerGroup.Get("/{id}/availability", handler.CheckAvailability)
	})
}

// AdminRouter registers the management endpoints on an admin houses subrouter.
func (handler *Handler) AdminRouter(router chi.Router) {
	router.Get("/", handler.GetAllHouses)
	router.Get("/{id}", handler.GetHouse)
	router.Post("/", handler.CreateHouse)
	router.Patch("/{id}", handler.UpdateHouse)
	router.Delete("/{id}", handler.DeleteHouse)
	router.Patch("/{id}/toggle", handler.ToggleHouse)
	router.Post("/{id}/images", handler.UploadHouseImages)
}

// GetHouses retrieves active houses for guests.
// @Summary Browse houses
// @Description Retrieve active houses with optional filtering and pagination.
// @Tags House
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param city query string false "Filter by city (partial match)"
// @Param min_price query number false "Minimum nightly price"
// @Param max_price query number false "Maximum nightly price"
// @Param guests query integer false "Minimum guest capacity"
// @Success 200 {object} response.Data[dto.GetHousesResponse] "List of houses"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/houses [get]
func (handler *Handler) GetHouses(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetHouses")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := handler.listFilters(r)

	// Guests only ever see listed houses
	filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
		Field:    model.FieldIsActive,
		Operator: gDto.FilterOperatorEq,
		Value:    true,
		Table:    model.TableName,
	})

	houses, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get houses")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Houses retrieved successfully")

	response.WithJSON(w, http.StatusOK, houses)
}

// GetAllHouses retrieves every house, listed or not, for staff.
// @Summary Get all houses
// @Description Retrieve all houses with optional filtering and pagination.
// @Tags House
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param city query string false "Filter by city (partial match)"
// @Param is_active query boolean false "Filter by listing status"
// @Success 200 {object} response.Data[dto.GetHousesResponse] "List of houses"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/houses [get]
// @Security BearerAuth
func (handler *Handler) GetAllHouses(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAllHouses")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := handler.listFilters(r)

	if active := shared.ConvertStringToBool(r.URL.Query().Get(requestParamActive)); active != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldIsActive,
			Operator: gDto.FilterOperatorEq,
			Value:    *active,
			Table:    model.TableName,
		})
	}

	houses, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get houses")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Houses retrieved successfully")

	response.WithJSON(w, http.StatusOK, houses)
}

// GetHouseByID retrieves an active house by its ID.
// @Summary Get a house by ID
// @Description Retrieve an active house by its unique identifier.
// @Tags House
// @Accept json
// @Produce json
// @Param id path integer true "House ID"
// @Success 200 {object} response.Data[dto.HouseResponse] "House details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/houses/{id} [get]
func (handler *Handler) GetHouseByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetHouseByID")
	defer scope.End()

	id, err := handler.parseID(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	house, err := handler.service.GetActive(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get house by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("House retrieved successfully")

	response.WithJSON(w, http.StatusOK, house)
}

// GetHouse retrieves a house by its ID regardless of activation state.
// @Summary Get a house by ID (admin)
// @Description Retrieve a house by its unique identifier, including deactivated listings.
// @Tags House
// @Accept json
// @Produce json
// @Param id path integer true "House ID"
// @Success 200 {object} response.Data[dto.HouseResponse] "House details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Security BearerAuth
// @Router /v1/admin/houses/{id} [get]
func (handler *Handler) GetHouse(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetHouse")
	defer scope.End()

	id, err := handler.parseID(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	house, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get house")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("House retrieved successfully")

	response.WithJSON(w, http.StatusOK, house)
}

// CheckAvailability reports whether a house is free for a date range.
// @Summary Check house availability
// @Description Check whether a house is available for the given date range and list any collisions.
// @Tags House
// @Accept json
// @Produce json
// @Param id path integer true "House ID"
// @Param start_date query string true "Range start (YYYY-MM-DD, inclusive)"
// @Param end_date query string true "Range end (YYYY-MM-DD, exclusive)"
// @Success 200 {object} response.Data[dto.AvailabilityResponse] "Availability verdict"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/houses/{id}/availability [get]
func (handler *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckAvailability")
	defer scope.End()

	id, err := handler.parseID(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	startDate := r.URL.Query().Get(constant.RequestParamStartDate)
	endDate := r.URL.Query().Get(constant.RequestParamEndDate)

	availability, err := handler.bookingService.CheckAvailability(ctx, id, startDate, endDate)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check availability")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Availability checked successfully")

	response.WithJSON(w, http.StatusOK, availability)
}

// CreateHouse handles the creation of a new house.
// @Summary Create a new house
// @Description Create a new house listing with the provided details.
// @Tags House
// @Accept json
// @Produce json
// @Param request body dto.CreateHouseRequest true "Create House Request"
// @Success 201 {object} response.Data[dto.HouseResponse] "House created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/houses [post]
// @Security BearerAuth
func (handler *Handler) CreateHouse(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateHouse")
	defer scope.End()

	req := dto.CreateHouseRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	house, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create house")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("House created successfully by user " + user)

	response.WithJSON(writer, http.StatusCreated, house)
}

// UpdateHouse updates an existing house by its ID.
// @Summary Update a house by ID
// @Description Update the details of an existing house listing.
// @Tags House
// @Accept json
// @Produce json
// @Param id path integer true "House ID"
// @Param request body dto.UpdateHouseRequest true "Update House Request"
// @Success 200 {object} response.Message "House updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/houses/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateHouse(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateHouse")
	defer scope.End()

	id, err := handler.parseID(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	req := dto.UpdateHouseRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update house")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("House updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "House updated successfully")
}

// ToggleHouse flips the listing status of a house.
// @Summary Toggle house listing status
// @Description Flip the is_active flag of a house and return the updated listing.
// @Tags House
// @Accept json
// @Produce json
// @Param id path integer true "House ID"
// @Success 200 {object} response.Data[dto.HouseResponse] "Updated house"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/houses/{id}/toggle [patch]
// @Security BearerAuth
func (handler *Handler) ToggleHouse(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ToggleHouse")
	defer scope.End()

	id, err := handler.parseID(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	house, err := handler.service.ToggleActive(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to toggle house")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("House toggled successfully by user " + user)

	response.WithJSON(w, http.StatusOK, house)
}

// UploadHouseImages attaches uploaded images to a house.
// @Summary Upload house images
// @Description Upload one or more images for a house and append them to its gallery.
// @Tags House
// @Accept multipart/form-data
// @Produce json
// @Param id path integer true "House ID"
// @Param images formData file true "Image files"
// @Success 200 {object} response.Data[dto.HouseResponse] "Updated house"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/houses/{id}/images [post]
// @Security BearerAuth
func (handler *Handler) UploadHouseImages(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadHouseImages")
	defer scope.End()

	id, err := handler.parseID(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(w, failure.BadRequestFromString("invalid multipart form"))

		return
	}

	req := dto.UploadHouseImagesRequest{
		Images: r.MultipartForm.File[formFieldImages],
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	files, err := openFiles(req.Images)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to open uploaded files")

		response.WithError(w, failure.BadRequestFromString("could not read uploaded files"))

		return
	}

	defer closeFiles(files)

	req.Files = files

	house, err := handler.service.UploadImages(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload house images")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("House images uploaded successfully by user " + user)

	response.WithJSON(w, http.StatusOK, house)
}

// DeleteHouse deletes a house by its ID.
// @Summary Delete a house by ID
// @Description Delete a house that has no non-cancelled bookings.
// @Tags House
// @Accept json
// @Produce json
// @Param id path integer true "House ID"
// @Success 200 {object} response.Message "House deleted successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/houses/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteHouse(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteHouse")
	defer scope.End()

	id, err := handler.parseID(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete house")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("House deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "House deleted successfully")
}

func (handler *Handler) parseID(r *http.Request) (int64, error) {
	id, err := shared.ConvertStringToInt64(chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		return 0, failure.BadRequestFromString("invalid house id") //nolint:wrapcheck
	}

	return id, nil
}

func (handler *Handler) listFilters(r *http.Request) gDto.FilterGroup {
	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if city := r.URL.Query().Get(requestParamCity); city != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldCity,
			Operator: gDto.FilterOperatorLike,
			Value:    city,
			Table:    model.TableName,
		})
	}

	if minPrice, err := strconv.ParseFloat(r.URL.Query().Get(requestParamMinPrice), 64); err == nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldPricePerNight,
			Operator: gDto.FilterOperatorGreaterEq,
			Value:    minPrice,
			Table:    model.TableName,
			ArgName:  requestParamMinPrice,
		})
	}

	if maxPrice, err := strconv.ParseFloat(r.URL.Query().Get(requestParamMaxPrice), 64); err == nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldPricePerNight,
			Operator: gDto.FilterOperatorLessEq,
			Value:    maxPrice,
			Table:    model.TableName,
			ArgName:  requestParamMaxPrice,
		})
	}

	if guests, err := shared.ConvertStringToInt(r.URL.Query().Get(requestParamGuests)); err == nil && guests > 0 {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldMaxGuests,
			Operator: gDto.FilterOperatorGreaterEq,
			Value:    guests,
			Table:    model.TableName,
			ArgName:  requestParamGuests,
		})
	}

	return filterGroup
}

func openFiles(headers []*multipart.FileHeader) ([]multipart.File, error) {
	files := make([]multipart.File, 0, len(headers))

	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			closeFiles(files)

			return nil, err //nolint:wrapcheck
		}

		files = append(files, file)
	}

	return files, nil
}

func closeFiles(files []multipart.File) {
	for _, file := range files {
		_ = file.Close()
	}
}
