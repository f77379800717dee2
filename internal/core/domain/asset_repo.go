package domain

import "context"

// ErrAssetExists is returned by AddAsset when the id is already registered.
// It is a sentinel so stores don't need to know the caller-facing taxonomy.
type sentinelError string

func (e sentinelError) Error() string { return string(e) }

const (
	ErrAssetExists   = sentinelError("asset already exists")
	ErrAssetNotFound = sentinelError("asset not found")
)

// AssetRepository owns the registration records and their enumeration index.
// Removal swaps the removed id with the last one and truncates, so the
// enumeration order after a removal is not the append order.
type AssetRepository interface {
	AddAsset(ctx context.Context, record AssetRecord) error
	RemoveAsset(ctx context.Context, id AssetId) error
	UpdateCustodyWallet(ctx context.Context, id AssetId, wallet Address) error
	// GetAsset returns nil without error when the id is not registered.
	GetAsset(ctx context.Context, id AssetId) (*AssetRecord, error)
	ListAssetIds(ctx context.Context) ([]AssetId, error)
	Close()
}
