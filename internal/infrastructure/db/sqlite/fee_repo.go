package sqlitedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rakesh-sdlc/ng-contracts/internal/core/domain"
)

type feeRepository struct {
	db *sql.DB
}

func NewFeeRepository(config ...interface{}) (domain.FeeRepository, error) {
	if len(config) != 1 {
		return nil, fmt.Errorf("invalid config")
	}
	db, ok := config[0].(*sql.DB)
	if !ok {
		return nil, fmt.Errorf("cannot open fee repository: invalid config")
	}

	return &feeRepository{db: db}, nil
}

func (r *feeRepository) UpsertFee(ctx context.Context, fee domain.AssetFee) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO asset_fees (asset_id, fee, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (asset_id) DO UPDATE SET
		   fee = excluded.fee,
		   updated_at = excluded.updated_at`,
		fee.AssetId.String(), fee.Fee, fee.UpdatedAt,
	)
	return err
}

func (r *feeRepository) GetFee(ctx context.Context, id domain.AssetId) (uint64, error) {
	var fee uint64
	err := r.db.QueryRowContext(
		ctx, "SELECT fee FROM asset_fees WHERE asset_id = ?", id.String(),
	).Scan(&fee)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return fee, nil
}

func (r *feeRepository) Close() {}
