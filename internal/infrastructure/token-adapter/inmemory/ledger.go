package inmemorytokenadapter

import (
	"context"
	"sync"

	"github.com/rakesh-sdlc/ng-contracts/internal/core/domain"
	"github.com/rakesh-sdlc/ng-contracts/internal/core/ports"
	"github.com/rakesh-sdlc/ng-contracts/pkg/errors"
)

// ledger is a process-local token backend holding one balance sheet per
// token address. It exists for development and testing setups where no real
// token endpoint is reachable.
type ledger struct {
	tokenAddress domain.Address

	lock     sync.Mutex
	balances map[domain.Address]uint64
	supply   uint64
}

type factory struct {
	lock    sync.Mutex
	ledgers map[domain.Address]*ledger
}

func NewTokenAdapterFactory() ports.TokenAdapterFactory {
	return &factory{ledgers: make(map[domain.Address]*ledger)}
}

func (f *factory) AdapterFor(tokenAddress domain.Address) ports.TokenAdapter {
	f.lock.Lock()
	defer f.lock.Unlock()

	if l, ok := f.ledgers[tokenAddress]; ok {
		return l
	}
	l := &ledger{
		tokenAddress: tokenAddress,
		balances:     make(map[domain.Address]uint64),
	}
	f.ledgers[tokenAddress] = l
	return l
}

func (l *ledger) Mint(ctx context.Context, to domain.Address, amount uint64) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.balances[to] += amount
	l.supply += amount
	return nil
}

func (l *ledger) BurnFrom(ctx context.Context, from domain.Address, amount uint64) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	return l.burn(from, amount)
}

func (l *ledger) BatchMint(
	ctx context.Context, recipients []domain.Address, amounts []uint64,
) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	for i, to := range recipients {
		l.balances[to] += amounts[i]
		l.supply += amounts[i]
	}
	return nil
}

// BatchBurn checks every holder before touching any balance so a shortfall
// in the middle of the batch leaves the sheet untouched.
func (l *ledger) BatchBurn(
	ctx context.Context, holders []domain.Address, amounts []uint64,
) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	for i, from := range holders {
		if l.balances[from] < amounts[i] {
			return errors.INSUFFICIENT_BALANCE.New(
				"holder %s has %d, burn needs %d", from, l.balances[from], amounts[i],
			).WithMetadata(errors.BalanceMetadata{
				Holder: from.String(),
				Amount: amounts[i],
			})
		}
	}
	for i, from := range holders {
		// nolint:errcheck
		l.burn(from, amounts[i])
	}
	return nil
}

func (l *ledger) TotalSupply(ctx context.Context) (uint64, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	return l.supply, nil
}

func (l *ledger) burn(from domain.Address, amount uint64) error {
	if l.balances[from] < amount {
		return errors.INSUFFICIENT_BALANCE.New(
			"holder %s has %d, burn needs %d", from, l.balances[from], amount,
		).WithMetadata(errors.BalanceMetadata{
			Holder: from.String(),
			Amount: amount,
		})
	}
	l.balances[from] -= amount
	l.supply -= amount
	return nil
}
