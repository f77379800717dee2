package domain

import "context"

// AssetFee is a per-asset fee entry keyed by AssetId. Entries outlive the
// registration record: unregistering an asset does not clear its fee, and a
// later re-registration under the same name sees the stale value again.
type AssetFee struct {
	AssetId   AssetId
	Fee       uint64
	UpdatedAt int64
}

type FeeRepository interface {
	UpsertFee(ctx context.Context, fee AssetFee) error
	// GetFee returns 0 for ids that never had a fee set.
	GetFee(ctx context.Context, id AssetId) (uint64, error)
	Close()
}
