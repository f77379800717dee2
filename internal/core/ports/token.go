package ports

import (
	"context"

	"github.com/rakesh-sdlc/ng-contracts/internal/core/domain"
)

// TokenAdapter is the capability interface every registered token target must
// satisfy. Calls either fully succeed or fully fail: a failed batch call means
// no entry was applied, and the controller never inspects partial results.
type TokenAdapter interface {
	Mint(ctx context.Context, to domain.Address, amount uint64) error
	BurnFrom(ctx context.Context, from domain.Address, amount uint64) error
	BatchMint(ctx context.Context, recipients []domain.Address, amounts []uint64) error
	BatchBurn(ctx context.Context, holders []domain.Address, amounts []uint64) error
	TotalSupply(ctx context.Context) (uint64, error)
}

// TokenAdapterFactory resolves the adapter bound to a registered token
// address. The returned adapter is treated as external code: the controller
// guards against it re-entering while a supply operation is in flight.
type TokenAdapterFactory interface {
	AdapterFor(tokenAddress domain.Address) TokenAdapter
}
