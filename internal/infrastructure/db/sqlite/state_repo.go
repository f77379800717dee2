package sqlitedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rakesh-sdlc/ng-contracts/internal/core/domain"
)

type stateRepository struct {
	db *sql.DB
}

func NewStateRepository(config ...interface{}) (domain.StateRepository, error) {
	if len(config) != 1 {
		return nil, fmt.Errorf("invalid config")
	}
	db, ok := config[0].(*sql.DB)
	if !ok {
		return nil, fmt.Errorf("cannot open state repository: invalid config")
	}

	return &stateRepository{db: db}, nil
}

func (r *stateRepository) Get(ctx context.Context) (*domain.ControllerState, error) {
	row := r.db.QueryRowContext(
		ctx,
		"SELECT owner, paused, version, created_at, updated_at FROM controller_state WHERE id = 1",
	)

	var owner string
	var paused bool
	var version uint32
	var createdAt, updatedAt int64
	err := row.Scan(&owner, &paused, &version, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &domain.ControllerState{
		Owner:     domain.Address(owner),
		Paused:    paused,
		Version:   version,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func (r *stateRepository) Upsert(ctx context.Context, state domain.ControllerState) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO controller_state (id, owner, paused, version, created_at, updated_at)
		 VALUES (1, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   owner = excluded.owner,
		   paused = excluded.paused,
		   version = excluded.version,
		   updated_at = excluded.updated_at`,
		state.Owner.String(), state.Paused, state.Version,
		state.CreatedAt, state.UpdatedAt,
	)
	return err
}

func (r *stateRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM controller_state WHERE id = 1")
	return err
}

func (r *stateRepository) Close() {}
