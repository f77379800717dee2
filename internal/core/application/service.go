package application

import (
	"context"

	"github.com/rakesh-sdlc/ng-contracts/internal/core/domain"
	"github.com/rakesh-sdlc/ng-contracts/internal/core/ports"
	"github.com/rakesh-sdlc/ng-contracts/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Service is the supply side of the control plane: every mutating operation
// enforces caller-is-owner, then not-paused, then resolves the asset and
// delegates a single call to its token adapter under the reentrancy guard.
type Service interface {
	Mint(
		ctx context.Context, operator domain.Address,
		name string, to domain.Address, amount uint64,
	) error
	MintToCustodyWallet(
		ctx context.Context, operator domain.Address, name string, amount uint64,
	) error
	Burn(
		ctx context.Context, operator domain.Address,
		name string, from domain.Address, amount uint64,
	) error
	BurnFromCustodyWallet(
		ctx context.Context, operator domain.Address, name string, amount uint64,
	) error
	BatchMint(
		ctx context.Context, operator domain.Address,
		name string, recipients []domain.Address, amounts []uint64,
	) error
	BatchBurn(
		ctx context.Context, operator domain.Address,
		name string, holders []domain.Address, amounts []uint64,
	) error
	TotalSupply(ctx context.Context, name string) (uint64, error)
}

type service struct {
	repoManager ports.RepoManager
	adapters    ports.TokenAdapterFactory
	guard       ports.OpGuard
}

func NewService(
	repoManager ports.RepoManager,
	adapters ports.TokenAdapterFactory,
	guard ports.OpGuard,
) Service {
	return &service{
		repoManager: repoManager,
		adapters:    adapters,
		guard:       guard,
	}
}

func (s *service) Mint(
	ctx context.Context, operator domain.Address,
	name string, to domain.Address, amount uint64,
) error {
	if _, err := requireOwner(ctx, s.repoManager, operator, false); err != nil {
		return err
	}

	if to.IsZero() {
		return errors.ZERO_ADDRESS.New("mint recipient is zero").
			WithMetadata(errors.AddressMetadata{Field: "to"})
	}

	record, err := resolveAsset(ctx, s.repoManager, name)
	if err != nil {
		return err
	}

	return s.mint(ctx, operator, *record, to, amount)
}

// MintToCustodyWallet skips the recipient check: the registry guarantees a
// registered asset always has a non-zero custody wallet.
func (s *service) MintToCustodyWallet(
	ctx context.Context, operator domain.Address, name string, amount uint64,
) error {
	if _, err := requireOwner(ctx, s.repoManager, operator, false); err != nil {
		return err
	}

	record, err := resolveAsset(ctx, s.repoManager, name)
	if err != nil {
		return err
	}

	return s.mint(ctx, operator, *record, record.CustodyWallet, amount)
}

func (s *service) Burn(
	ctx context.Context, operator domain.Address,
	name string, from domain.Address, amount uint64,
) error {
	if _, err := requireOwner(ctx, s.repoManager, operator, false); err != nil {
		return err
	}

	if from.IsZero() {
		return errors.ZERO_ADDRESS.New("burn holder is zero").
			WithMetadata(errors.AddressMetadata{Field: "from"})
	}

	record, err := resolveAsset(ctx, s.repoManager, name)
	if err != nil {
		return err
	}

	return s.burn(ctx, operator, *record, from, amount)
}

func (s *service) BurnFromCustodyWallet(
	ctx context.Context, operator domain.Address, name string, amount uint64,
) error {
	if _, err := requireOwner(ctx, s.repoManager, operator, false); err != nil {
		return err
	}

	record, err := resolveAsset(ctx, s.repoManager, name)
	if err != nil {
		return err
	}

	return s.burn(ctx, operator, *record, record.CustodyWallet, amount)
}

func (s *service) BatchMint(
	ctx context.Context, operator domain.Address,
	name string, recipients []domain.Address, amounts []uint64,
) error {
	if _, err := requireOwner(ctx, s.repoManager, operator, false); err != nil {
		return err
	}

	if err := validateBatch(len(recipients), len(amounts)); err != nil {
		return err
	}

	record, err := resolveAsset(ctx, s.repoManager, name)
	if err != nil {
		return err
	}

	if err := s.withGuard(record.Id, func() error {
		return s.adapters.AdapterFor(record.TokenAddress).BatchMint(ctx, recipients, amounts)
	}); err != nil {
		return err
	}

	total := sumAmounts(amounts)
	saveEvents(ctx, s.repoManager, domain.SupplyTopic, domain.BatchMinted{
		BaseEvent:   domain.NewBaseEvent(operator),
		AssetId:     record.Id.String(),
		Recipients:  recipients,
		Amounts:     amounts,
		TotalAmount: total,
	})

	log.Infof("batch minted %d units of %s across %d recipients", total, record.Name, len(recipients))
	return nil
}

func (s *service) BatchBurn(
	ctx context.Context, operator domain.Address,
	name string, holders []domain.Address, amounts []uint64,
) error {
	if _, err := requireOwner(ctx, s.repoManager, operator, false); err != nil {
		return err
	}

	if err := validateBatch(len(holders), len(amounts)); err != nil {
		return err
	}

	record, err := resolveAsset(ctx, s.repoManager, name)
	if err != nil {
		return err
	}

	if err := s.withGuard(record.Id, func() error {
		return s.adapters.AdapterFor(record.TokenAddress).BatchBurn(ctx, holders, amounts)
	}); err != nil {
		return err
	}

	total := sumAmounts(amounts)
	saveEvents(ctx, s.repoManager, domain.SupplyTopic, domain.BatchBurned{
		BaseEvent:   domain.NewBaseEvent(operator),
		AssetId:     record.Id.String(),
		Holders:     holders,
		Amounts:     amounts,
		TotalAmount: total,
	})

	log.Infof("batch burned %d units of %s across %d holders", total, record.Name, len(holders))
	return nil
}

func (s *service) TotalSupply(ctx context.Context, name string) (uint64, error) {
	record, err := resolveAsset(ctx, s.repoManager, name)
	if err != nil {
		return 0, err
	}

	supply, err := s.adapters.AdapterFor(record.TokenAddress).TotalSupply(ctx)
	if err != nil {
		return 0, err
	}
	return supply, nil
}

func (s *service) mint(
	ctx context.Context, operator domain.Address,
	record domain.AssetRecord, to domain.Address, amount uint64,
) error {
	if err := s.withGuard(record.Id, func() error {
		return s.adapters.AdapterFor(record.TokenAddress).Mint(ctx, to, amount)
	}); err != nil {
		return err
	}

	saveEvents(ctx, s.repoManager, domain.SupplyTopic, domain.TokensMinted{
		BaseEvent: domain.NewBaseEvent(operator),
		AssetId:   record.Id.String(),
		To:        to,
		Amount:    amount,
	})

	log.Infof("minted %d units of %s to %s", amount, record.Name, to)
	return nil
}

func (s *service) burn(
	ctx context.Context, operator domain.Address,
	record domain.AssetRecord, from domain.Address, amount uint64,
) error {
	if err := s.withGuard(record.Id, func() error {
		return s.adapters.AdapterFor(record.TokenAddress).BurnFrom(ctx, from, amount)
	}); err != nil {
		return err
	}

	saveEvents(ctx, s.repoManager, domain.SupplyTopic, domain.TokensBurned{
		BaseEvent: domain.NewBaseEvent(operator),
		AssetId:   record.Id.String(),
		From:      from,
		Amount:    amount,
	})

	log.Infof("burned %d units of %s from %s", amount, record.Name, from)
	return nil
}

// withGuard wraps the delegated external call. The guard is released on
// every exit path; a nested acquisition fails immediately instead of
// blocking. Failures from fn propagate unmodified.
func (s *service) withGuard(id domain.AssetId, fn func() error) error {
	if !s.guard.TryAcquire() {
		return errors.REENTRANT_CALL.New("supply operation already in flight").
			WithMetadata(errors.AssetMetadata{AssetId: id.String()})
	}
	defer s.guard.Release()

	return fn()
}

// validateBatch rejects mismatched lengths and, deliberately, empty batches.
func validateBatch(targets, amounts int) error {
	if targets != amounts || targets == 0 {
		return errors.LENGTH_MISMATCH.New(
			"got %d targets and %d amounts", targets, amounts,
		).WithMetadata(errors.BatchMetadata{Targets: targets, Amounts: amounts})
	}
	return nil
}

func sumAmounts(amounts []uint64) uint64 {
	var total uint64
	for _, amount := range amounts {
		total += amount
	}
	return total
}
