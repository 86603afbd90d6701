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
	"casa/internal/domains/house/model"
	"casa/shared/constant"
	gDto "casa/shared/dto"
	"casa/shared/logger"
	gRepo "casa/shared/repository"
	"casa/shared/timezone"
)

type House interface {
	InsertReturning(ctx context.Context, model model.House) (int64, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.House, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.House, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	ToggleActive(ctx context.Context, id int64, user string) (model.House, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.House]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) House {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.House](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// InsertReturning inserts a house and returns the generated serial id.
func (repo *repositoryImpl) InsertReturning(ctx context.Context, house model.House) (id int64, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".house.InsertReturning")
	defer scope.End()
	defer scope.TraceIfError(err)

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
		"INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		model.TableName,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		model.FieldID,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	prepare, err := repo.db.Write.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	if err = prepare.GetContext(ctx, &id, house); err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to insert data (%s): %w", model.EntityName, err)
	}

	return id, nil
}

// ToggleActive flips the listing's visibility in a single statement and
// returns the resulting row, so concurrent toggles cannot lose updates.
func (repo *repositoryImpl) ToggleActive(ctx context.Context, id int64, user string) (house model.House, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".house.ToggleActive")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(
		"UPDATE %s SET %s = NOT %s, %s = :modified_at, %s = :modified_by WHERE %s = :id RETURNING %s",
		model.TableName,
		model.FieldIsActive, model.FieldIsActive,
		constant.FieldModifiedAt,
		constant.FieldModifiedBy,
		model.FieldID,
		strings.Join(repo.InsertColumns, ", "),
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	args := map[string]any{
		"id":          id,
		"modified_at": timezone.Now(),
		"modified_by": user,
	}

	prepare, err := repo.db.Write.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)

		return house, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	err = prepare.GetContext(ctx, &house, args)
	if errors.Is(err, sql.ErrNoRows) {
		return house, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)

		return house, fmt.Errorf("failed to toggle house status: %w", err)
	}

	return house, nil
}
