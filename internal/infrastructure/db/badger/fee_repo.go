package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"github.com/rakesh-sdlc/ng-contracts/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

const feeStoreDir = "fees"

// feeRepository lives in its own store so fee entries survive whatever
// happens to the registration records.
type feeRepository struct {
	store *badgerhold.Store
}

func NewFeeRepository(config ...interface{}) (domain.FeeRepository, error) {
	if len(config) != 2 {
		return nil, fmt.Errorf("invalid config")
	}
	baseDir, ok := config[0].(string)
	if !ok {
		return nil, fmt.Errorf("invalid base directory")
	}
	var logger badger.Logger
	if config[1] != nil {
		logger, ok = config[1].(badger.Logger)
		if !ok {
			return nil, fmt.Errorf("invalid logger")
		}
	}

	var dir string
	if len(baseDir) > 0 {
		dir = filepath.Join(baseDir, feeStoreDir)
	}
	store, err := createDB(dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open fee store: %s", err)
	}

	return &feeRepository{store}, nil
}

func (r *feeRepository) UpsertFee(ctx context.Context, fee domain.AssetFee) error {
	return withRetry(func() error {
		return r.store.Upsert(fee.AssetId.String(), &fee)
	})
}

func (r *feeRepository) GetFee(ctx context.Context, id domain.AssetId) (uint64, error) {
	var fee domain.AssetFee
	err := r.store.Get(id.String(), &fee)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get asset fee: %w", err)
	}
	return fee.Fee, nil
}

func (r *feeRepository) Close() {
	// nolint:all
	r.store.Close()
}
