package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"casa/infras/otel"
	"casa/infras/postgres"
	"casa/internal/domains/booking/model"
	"casa/shared/constant"
	gDto "casa/shared/dto"
	"casa/shared/logger"
	gRepo "casa/shared/repository"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// advisoryLockClass namespaces the per-house admission lock so other
// advisory lock users in the same database cannot collide with it.
const advisoryLockClass = 4217

// ErrDatesConflict reports that the requested stay lost the race for its
// dates, either to a concurrent booking or to the overlap constraint.
var ErrDatesConflict = errors.New("requested dates are already taken")

// ErrHouseUnavailable reports that the house was deleted or deactivated
// before the admission transaction could re-check it.
var ErrHouseUnavailable = errors.New("house is not open for booking")

type Booking interface {
	Admit(ctx context.Context, booking model.Booking) (int64, error)
	FindConflicts(ctx context.Context, houseID int64, start, end string) ([]model.Booking, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Stats(ctx context.Context) (model.Stats, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Admit inserts the booking if and only if the house is still active and its
// dates are free. The checks and the insert run in one transaction under a
// per-house advisory lock, so two concurrent requests for the same house are
// serialized and exactly one of them wins. The house state is re-read inside
// the transaction to catch a deactivation landing after the service check.
// The exclusion constraint on the table backstops the conflict check.
func (repo *repositoryImpl) Admit(ctx context.Context, booking model.Booking) (id int64, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Admit")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to begin admission transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				log.Error().Err(rollbackErr).Msg("failed to rollback admission transaction")
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1, $2)", advisoryLockClass, booking.HouseID); err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to acquire admission lock: %w", err)
	}

	var active bool

	activeQuery := "SELECT is_active FROM houses WHERE id = $1"

	err = tx.GetContext(ctx, &active, activeQuery, booking.HouseID)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrHouseUnavailable

		return 0, err
	}

	if err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to check house state: %w", err)
	}

	if !active {
		err = ErrHouseUnavailable

		return 0, err
	}

	var conflicts int

	conflictQuery := fmt.Sprintf(
		"SELECT COUNT(%s) FROM %s WHERE %s = $1 AND %s <> $2 AND %s < $4 AND %s > $3",
		model.FieldID, model.TableName, model.FieldHouseID, model.FieldStatus,
		model.FieldCheckInDate, model.FieldCheckOutDate,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, conflictQuery)

	err = tx.GetContext(ctx, &conflicts, conflictQuery,
		booking.HouseID, model.StatusCancelled, booking.CheckInDate, booking.CheckOutDate)
	if err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to check booking conflicts: %w", err)
	}

	if conflicts > 0 {
		return 0, ErrDatesConflict
	}

	var blocked int

	blockedQuery := "SELECT COUNT(id) FROM blocked_dates WHERE house_id = $1 AND blocked_date >= $2 AND blocked_date < $3"

	err = tx.GetContext(ctx, &blocked, blockedQuery, booking.HouseID, booking.CheckInDate, booking.CheckOutDate)
	if err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to check blocked dates: %w", err)
	}

	if blocked > 0 {
		return 0, ErrDatesConflict
	}

	columns := []string{}
	placeholders := []string{}

	for _, col := range repo.InsertColumns {
		if col == model.FieldID {
			continue
		}

		columns = append(columns, col)
		placeholders = append(placeholders, ":"+col)
	}

	insertQuery := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		model.TableName,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		model.FieldID,
	)

	prepare, err := tx.PrepareNamedContext(ctx, insertQuery)
	if err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to prepare admission insert: %w", err)
	}
	defer prepare.Close()

	if err = prepare.GetContext(ctx, &id, booking); err != nil {
		if isOverlapViolation(err) {
			err = ErrDatesConflict

			return 0, err
		}

		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to insert booking: %w", err)
	}

	if err = tx.Commit(); err != nil {
		if isOverlapViolation(err) {
			err = ErrDatesConflict

			return 0, err
		}

		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to commit admission transaction: %w", err)
	}

	return id, nil
}

// FindConflicts returns non-cancelled stays overlapping [start, end).
func (repo *repositoryImpl) FindConflicts(ctx context.Context, houseID int64, start, end string) (models []model.Booking, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FindConflicts")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldHouseID,
				Operator: gDto.FilterOperatorEq,
				Value:    houseID,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorNotEq,
				Value:    model.StatusCancelled,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "conflict_end",
				Field:    model.FieldCheckInDate,
				Operator: gDto.FilterOperatorLess,
				Value:    end,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "conflict_start",
				Field:    model.FieldCheckOutDate,
				Operator: gDto.FilterOperatorGreater,
				Value:    start,
				Table:    model.TableName,
			},
		},
	}

	params := gDto.QueryParams{
		SortBy:  model.TableName + "." + model.FieldCheckInDate,
		SortDir: gDto.SortDirAsc,
	}

	return repo.GetAll(ctx, params, filter)
}

// Stats aggregates booking counts and revenue in one scan. Cancelled stays
// are excluded from revenue.
func (repo *repositoryImpl) Stats(ctx context.Context) (stats model.Stats, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Stats")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(`SELECT
		COUNT(%[1]s) AS total_bookings,
		COUNT(%[1]s) FILTER (WHERE %[2]s = '%[3]s') AS confirmed_bookings,
		COUNT(%[1]s) FILTER (WHERE %[2]s = '%[4]s') AS completed_bookings,
		COUNT(%[1]s) FILTER (WHERE %[2]s = '%[5]s') AS cancelled_bookings,
		COALESCE(SUM(%[6]s) FILTER (WHERE %[2]s <> '%[5]s'), 0) AS total_revenue
	FROM %[7]s`,
		model.FieldID, model.FieldStatus,
		model.StatusConfirmed, model.StatusCompleted, model.StatusCancelled,
		model.FieldTotalAmount, model.TableName,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = repo.db.Read.GetContext(ctx, &stats, query); err != nil {
		logger.ErrorWithStack(err)

		return stats, fmt.Errorf("failed to aggregate booking stats: %w", err)
	}

	return stats, nil
}

func isOverlapViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)

		return code == constant.PqErrorCodeExclusionViolation || code == constant.PqErrorCodeUniqueViolation
	}

	return false
}
