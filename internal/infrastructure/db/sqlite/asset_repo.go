package sqlitedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rakesh-sdlc/ng-contracts/internal/core/domain"
)

type assetRepository struct {
	db *sql.DB
}

func NewAssetRepository(config ...interface{}) (domain.AssetRepository, error) {
	if len(config) != 1 {
		return nil, fmt.Errorf("invalid config")
	}
	db, ok := config[0].(*sql.DB)
	if !ok {
		return nil, fmt.Errorf("cannot open asset repository: invalid config")
	}

	return &assetRepository{db: db}, nil
}

func (r *assetRepository) AddAsset(ctx context.Context, record domain.AssetRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	// nolint:errcheck
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(
		ctx, "SELECT COUNT(*) FROM assets WHERE id = ?", record.Id.String(),
	).Scan(&exists); err != nil {
		return err
	}
	if exists > 0 {
		return domain.ErrAssetExists
	}

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO assets (id, name, token_address, custody_wallet, position, created_at)
		 VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM assets), ?)`,
		record.Id.String(), record.Name, record.TokenAddress.String(),
		record.CustodyWallet.String(), record.CreatedAt,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// RemoveAsset mirrors the swap-with-last-and-truncate removal of the badger
// store: the last indexed asset takes over the removed one's position.
func (r *assetRepository) RemoveAsset(ctx context.Context, id domain.AssetId) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	// nolint:errcheck
	defer tx.Rollback()

	var removedPos int64
	err = tx.QueryRowContext(
		ctx, "SELECT position FROM assets WHERE id = ?", id.String(),
	).Scan(&removedPos)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrAssetNotFound
	}
	if err != nil {
		return err
	}

	var lastId string
	var lastPos int64
	if err := tx.QueryRowContext(
		ctx, "SELECT id, position FROM assets ORDER BY position DESC LIMIT 1",
	).Scan(&lastId, &lastPos); err != nil {
		return err
	}

	if _, err := tx.ExecContext(
		ctx, "DELETE FROM assets WHERE id = ?", id.String(),
	); err != nil {
		return err
	}

	if lastId != id.String() {
		if _, err := tx.ExecContext(
			ctx, "UPDATE assets SET position = ? WHERE id = ?", removedPos, lastId,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *assetRepository) UpdateCustodyWallet(
	ctx context.Context, id domain.AssetId, wallet domain.Address,
) error {
	result, err := r.db.ExecContext(
		ctx, "UPDATE assets SET custody_wallet = ? WHERE id = ?",
		wallet.String(), id.String(),
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrAssetNotFound
	}
	return nil
}

func (r *assetRepository) GetAsset(
	ctx context.Context, id domain.AssetId,
) (*domain.AssetRecord, error) {
	row := r.db.QueryRowContext(
		ctx,
		"SELECT id, name, token_address, custody_wallet, created_at FROM assets WHERE id = ?",
		id.String(),
	)

	var rawId, name, tokenAddress, custodyWallet string
	var createdAt int64
	err := row.Scan(&rawId, &name, &tokenAddress, &custodyWallet, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	parsedId, err := domain.ParseAssetId(rawId)
	if err != nil {
		return nil, fmt.Errorf("corrupted asset id %q: %w", rawId, err)
	}

	return &domain.AssetRecord{
		Id:            parsedId,
		Name:          name,
		TokenAddress:  domain.Address(tokenAddress),
		CustodyWallet: domain.Address(custodyWallet),
		CreatedAt:     createdAt,
	}, nil
}

func (r *assetRepository) ListAssetIds(ctx context.Context) ([]domain.AssetId, error) {
	rows, err := r.db.QueryContext(
		ctx, "SELECT id FROM assets ORDER BY position ASC",
	)
	if err != nil {
		return nil, err
	}
	// nolint:errcheck
	defer rows.Close()

	ids := make([]domain.AssetId, 0)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		id, err := domain.ParseAssetId(raw)
		if err != nil {
			return nil, fmt.Errorf("corrupted asset id %q: %w", raw, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *assetRepository) Close() {
	// the db handle is shared across repositories and closed by the manager
}
