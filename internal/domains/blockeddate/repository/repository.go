package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"strings"

	"casa/infras/otel"
	"casa/infras/postgres"
	"casa/internal/domains/blockeddate/model"
	"casa/shared/constant"
	gDto "casa/shared/dto"
	"casa/shared/logger"
	gRepo "casa/shared/repository"
)

type BlockedDate interface {
	InsertSkipDuplicates(ctx context.Context, models []model.BlockedDate) (int, error)
	FindInRange(ctx context.Context, houseID int64, start, end string) ([]model.BlockedDate, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.BlockedDate, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.BlockedDate]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) BlockedDate {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.BlockedDate](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// InsertSkipDuplicates bulk-inserts the dates and silently skips days already
// blocked for the house. Returns how many rows were actually added.
func (repo *repositoryImpl) InsertSkipDuplicates(ctx context.Context, models []model.BlockedDate) (added int, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".blocked_date.InsertSkipDuplicates")
	defer scope.End()
	defer scope.TraceIfError(err)

	if len(models) == 0 {
		return 0, nil
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

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s, %s) DO NOTHING",
		model.TableName,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		model.FieldHouseID,
		model.FieldBlockedDate,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := repo.db.Write.NamedExecContext(ctx, query, models)
	if err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to insert blocked dates: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to count inserted blocked dates: %w", err)
	}

	return int(rows), nil
}

// FindInRange returns the blocked days of a house inside [start, end).
func (repo *repositoryImpl) FindInRange(ctx context.Context, houseID int64, start, end string) ([]model.BlockedDate, error) {
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
				ArgName:  "range_start",
				Field:    model.FieldBlockedDate,
				Operator: gDto.FilterOperatorGreaterEq,
				Value:    start,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "range_end",
				Field:    model.FieldBlockedDate,
				Operator: gDto.FilterOperatorLess,
				Value:    end,
				Table:    model.TableName,
			},
		},
	}

	params := gDto.QueryParams{
		SortBy:  model.TableName + "." + model.FieldBlockedDate,
		SortDir: gDto.SortDirAsc,
	}

	return repo.GetAll(ctx, params, filter)
}
