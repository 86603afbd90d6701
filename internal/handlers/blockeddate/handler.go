package blockeddate

import (
	"net/http"

	"casa/infras/otel"
	"casa/internal/domains/blockeddate/model/dto"
	"casa/internal/domains/blockeddate/service"
	"casa/shared"
	"casa/shared/constant"
	"casa/shared/failure"
	"casa/shared/validator"
	"casa/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.BlockedDate
	otel    otel.Otel
}

func New(service service.BlockedDate, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

// Router registers the blocked-date endpoints on an admin houses subrouter.
func (handler *Handler) Router(router chi.Router) {
	router.Post("/{id}/blocked-dates", handler.AddBlockedDates)
	router.Get("/{id}/blocked-dates", handler.GetBlockedDates)
}

// AddBlockedDates marks individual dates of a house as unavailable.
// @Summary Block dates for a house
// @Description Mark one or more dates of a house as unavailable for booking. Dates already blocked are skipped.
// @Tags BlockedDate
// @Accept json
// @Produce json
// @Param id path integer true "House ID"
// @Param request body dto.AddBlockedDatesRequest true "Add Blocked Dates Request"
// @Success 201 {object} response.Data[dto.AddBlockedDatesResponse] "Outcome per requested date"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/houses/{id}/blocked-dates [post]
// @Security BearerAuth
func (handler *Handler) AddBlockedDates(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddBlockedDates")
	defer scope.End()

	id, err := handler.parseID(request)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	req := dto.AddBlockedDatesRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Add(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to add blocked dates")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Blocked dates added successfully by user " + user)

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetBlockedDates lists the blocked dates of a house.
// @Summary Get blocked dates
// @Description Retrieve the blocked dates of a house, optionally limited to a date range.
// @Tags BlockedDate
// @Accept json
// @Produce json
// @Param id path integer true "House ID"
// @Param start_date query string false "Range start (YYYY-MM-DD, inclusive)"
// @Param end_date query string false "Range end (YYYY-MM-DD, exclusive)"
// @Success 200 {object} response.Data[dto.GetBlockedDatesResponse] "List of blocked dates"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/houses/{id}/blocked-dates [get]
// @Security BearerAuth
func (handler *Handler) GetBlockedDates(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBlockedDates")
	defer scope.End()

	id, err := handler.parseID(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	startDate := r.URL.Query().Get(constant.RequestParamStartDate)
	endDate := r.URL.Query().Get(constant.RequestParamEndDate)

	res, err := handler.service.List(ctx, id, startDate, endDate)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get blocked dates")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Blocked dates retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}

func (handler *Handler) parseID(r *http.Request) (int64, error) {
	id, err := shared.ConvertStringToInt64(chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		return 0, failure.BadRequestFromString("invalid house id") //nolint:wrapcheck
	}

	return id, nil
}
