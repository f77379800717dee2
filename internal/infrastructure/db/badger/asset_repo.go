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

const (
	assetStoreDir = "assets"
	assetIndexKey = "index"
)

// assetIndex is the persisted enumeration order of registered asset ids.
type assetIndex struct {
	Ids []string
}

type assetRepository struct {
	store *badgerhold.Store
}

func NewAssetRepository(config ...interface{}) (domain.AssetRepository, error) {
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
		dir = filepath.Join(baseDir, assetStoreDir)
	}
	store, err := createDB(dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open asset store: %s", err)
	}

	return &assetRepository{store}, nil
}

func (r *assetRepository) AddAsset(ctx context.Context, record domain.AssetRecord) error {
	if err := withRetry(func() error {
		return r.store.Insert(record.Id.String(), record)
	}); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return domain.ErrAssetExists
		}
		return err
	}

	return r.updateIndex(func(index *assetIndex) {
		index.Ids = append(index.Ids, record.Id.String())
	})
}

// RemoveAsset deletes the record and removes the id from the enumeration
// index by swapping it with the last entry and truncating.
func (r *assetRepository) RemoveAsset(ctx context.Context, id domain.AssetId) error {
	var record domain.AssetRecord
	if err := withRetry(func() error {
		return r.store.Delete(id.String(), &record)
	}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return domain.ErrAssetNotFound
		}
		return err
	}

	return r.updateIndex(func(index *assetIndex) {
		for i, indexed := range index.Ids {
			if indexed == id.String() {
				index.Ids[i] = index.Ids[len(index.Ids)-1]
				index.Ids = index.Ids[:len(index.Ids)-1]
				return
			}
		}
	})
}

func (r *assetRepository) UpdateCustodyWallet(
	ctx context.Context, id domain.AssetId, wallet domain.Address,
) error {
	record, err := r.GetAsset(ctx, id)
	if err != nil {
		return err
	}
	if record == nil {
		return domain.ErrAssetNotFound
	}

	record.CustodyWallet = wallet
	return withRetry(func() error {
		return r.store.Update(id.String(), *record)
	})
}

func (r *assetRepository) GetAsset(
	ctx context.Context, id domain.AssetId,
) (*domain.AssetRecord, error) {
	var record domain.AssetRecord
	err := r.store.Get(id.String(), &record)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	return &record, nil
}

func (r *assetRepository) ListAssetIds(ctx context.Context) ([]domain.AssetId, error) {
	index, err := r.getIndex()
	if err != nil {
		return nil, err
	}

	ids := make([]domain.AssetId, 0, len(index.Ids))
	for _, raw := range index.Ids {
		id, err := domain.ParseAssetId(raw)
		if err != nil {
			return nil, fmt.Errorf("corrupted index entry %q: %w", raw, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *assetRepository) Close() {
	// nolint:all
	r.store.Close()
}

func (r *assetRepository) getIndex() (*assetIndex, error) {
	var index assetIndex
	err := r.store.Get(assetIndexKey, &index)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return &assetIndex{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset index: %w", err)
	}
	return &index, nil
}

func (r *assetRepository) updateIndex(update func(index *assetIndex)) error {
	index, err := r.getIndex()
	if err != nil {
		return err
	}
	update(index)
	return withRetry(func() error {
		return r.store.Upsert(assetIndexKey, index)
	})
}
