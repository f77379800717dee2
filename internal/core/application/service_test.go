package application_test

import (
	"context"
	"testing"

	"github.com/rakesh-sdlc/ng-contracts/internal/core/application"
	"github.com/rakesh-sdlc/ng-contracts/internal/core/domain"
	"github.com/rakesh-sdlc/ng-contracts/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type supplyFixture struct {
	svc     application.Service
	admin   application.AdminService
	repo    *mockRepoManager
	factory *mockAdapterFactory
}

func newSupplyFixture(t *testing.T) *supplyFixture {
	t.Helper()
	repo := newMockRepoManager()
	require.NoError(t, application.BootstrapState(context.Background(), repo, owner))

	factory := newMockAdapterFactory()
	guard := &testGuard{}
	return &supplyFixture{
		svc:     application.NewService(repo, factory, guard),
		admin:   application.NewAdminService(repo, guard),
		repo:    repo,
		factory: factory,
	}
}

func (f *supplyFixture) registerGold(t *testing.T) *mockTokenAdapter {
	t.Helper()
	_, err := f.admin.RegisterAsset(context.Background(), owner, "GOLD", token, custody)
	require.NoError(t, err)
	adapter, ok := f.factory.AdapterFor(token).(*mockTokenAdapter)
	require.True(t, ok)
	return adapter
}

func TestMint(t *testing.T) {
	ctx := context.Background()
	f := newSupplyFixture(t)
	adapter := f.registerGold(t)

	t.Run("delegates to the token adapter and emits a record", func(t *testing.T) {
		require.NoError(t, f.svc.Mint(ctx, owner, "GOLD", wallet2, 500))
		assert.Equal(t, uint64(500), adapter.balanceOf(wallet2))

		events := f.repo.eventRepo.events(domain.SupplyTopic)
		require.NotEmpty(t, events)
		minted, ok := events[len(events)-1].(domain.TokensMinted)
		require.True(t, ok)
		assert.Equal(t, wallet2, minted.To)
		assert.Equal(t, uint64(500), minted.Amount)
		assert.Equal(t, owner, minted.Operator)
	})

	t.Run("zero amount is a permitted no-op", func(t *testing.T) {
		require.NoError(t, f.svc.Mint(ctx, owner, "GOLD", wallet2, 0))
		assert.Equal(t, uint64(500), adapter.balanceOf(wallet2))
	})

	t.Run("zero recipient rejected", func(t *testing.T) {
		err := f.svc.Mint(ctx, owner, "GOLD", "", 10)
		require.True(t, errors.ZERO_ADDRESS.Is(err))
	})

	t.Run("unknown asset rejected", func(t *testing.T) {
		err := f.svc.Mint(ctx, owner, "COPPER", wallet2, 10)
		require.True(t, errors.ASSET_NOT_REGISTERED.Is(err))
	})

	t.Run("non-owner rejected before any delegation", func(t *testing.T) {
		before := adapter.balanceOf(wallet2)
		err := f.svc.Mint(ctx, stranger, "GOLD", wallet2, 10)
		require.True(t, errors.UNAUTHORIZED.Is(err))
		assert.Equal(t, before, adapter.balanceOf(wallet2))
	})
}

func TestMintToCustodyWallet(t *testing.T) {
	ctx := context.Background()
	f := newSupplyFixture(t)
	adapter := f.registerGold(t)

	require.NoError(t, f.svc.MintToCustodyWallet(ctx, owner, "GOLD", 1000))
	assert.Equal(t, uint64(1000), adapter.balanceOf(custody))

	events := f.repo.eventRepo.events(domain.SupplyTopic)
	require.NotEmpty(t, events)
	minted, ok := events[len(events)-1].(domain.TokensMinted)
	require.True(t, ok)
	assert.Equal(t, custody, minted.To)
	assert.Equal(t, uint64(1000), minted.Amount)
}

func TestBurn(t *testing.T) {
	ctx := context.Background()
	f := newSupplyFixture(t)
	adapter := f.registerGold(t)

	require.NoError(t, f.svc.Mint(ctx, owner, "GOLD", wallet2, 100))

	t.Run("burns from holder", func(t *testing.T) {
		require.NoError(t, f.svc.Burn(ctx, owner, "GOLD", wallet2, 40))
		assert.Equal(t, uint64(60), adapter.balanceOf(wallet2))
	})

	t.Run("insufficient balance surfaces verbatim", func(t *testing.T) {
		err := f.svc.Burn(ctx, owner, "GOLD", wallet2, 1000)
		require.True(t, errors.INSUFFICIENT_BALANCE.Is(err))
		assert.Equal(t, uint64(60), adapter.balanceOf(wallet2))
	})

	t.Run("burn from custody wallet", func(t *testing.T) {
		require.NoError(t, f.svc.MintToCustodyWallet(ctx, owner, "GOLD", 30))
		require.NoError(t, f.svc.BurnFromCustodyWallet(ctx, owner, "GOLD", 30))
		assert.Zero(t, adapter.balanceOf(custody))
	})

	t.Run("zero holder rejected", func(t *testing.T) {
		err := f.svc.Burn(ctx, owner, "GOLD", "", 1)
		require.True(t, errors.ZERO_ADDRESS.Is(err))
	})
}

func TestBatchOperations(t *testing.T) {
	ctx := context.Background()
	f := newSupplyFixture(t)
	adapter := f.registerGold(t)

	recipients := []domain.Address{wallet2, custody}
	amounts := []uint64{100, 200}

	t.Run("batch mint applies all entries in one delegated call", func(t *testing.T) {
		require.NoError(t, f.svc.BatchMint(ctx, owner, "GOLD", recipients, amounts))
		assert.Equal(t, uint64(100), adapter.balanceOf(wallet2))
		assert.Equal(t, uint64(200), adapter.balanceOf(custody))
		assert.Equal(t, 1, adapter.batchCalls)

		events := f.repo.eventRepo.events(domain.SupplyTopic)
		minted, ok := events[len(events)-1].(domain.BatchMinted)
		require.True(t, ok)
		assert.Equal(t, uint64(300), minted.TotalAmount)
	})

	t.Run("empty batch rejected, not treated as a no-op", func(t *testing.T) {
		err := f.svc.BatchMint(ctx, owner, "GOLD", []domain.Address{}, []uint64{})
		require.True(t, errors.LENGTH_MISMATCH.Is(err))
	})

	t.Run("mismatched lengths rejected with balances unchanged", func(t *testing.T) {
		before := adapter.balanceOf(wallet2)
		err := f.svc.BatchMint(ctx, owner, "GOLD", recipients, []uint64{1})
		require.True(t, errors.LENGTH_MISMATCH.Is(err))
		assert.Equal(t, before, adapter.balanceOf(wallet2))
		assert.Equal(t, 1, adapter.batchCalls)
	})

	t.Run("batch burn is all-or-nothing", func(t *testing.T) {
		err := f.svc.BatchBurn(ctx, owner, "GOLD", recipients, []uint64{100, 100000})
		require.True(t, errors.INSUFFICIENT_BALANCE.Is(err))
		assert.Equal(t, uint64(100), adapter.balanceOf(wallet2))
		assert.Equal(t, uint64(200), adapter.balanceOf(custody))

		require.NoError(t, f.svc.BatchBurn(ctx, owner, "GOLD", recipients, []uint64{100, 200}))
		assert.Zero(t, adapter.balanceOf(wallet2))
		assert.Zero(t, adapter.balanceOf(custody))
	})
}

func TestPauseGatesSupplyOperations(t *testing.T) {
	ctx := context.Background()
	f := newSupplyFixture(t)
	adapter := f.registerGold(t)

	require.NoError(t, f.admin.Pause(ctx, owner))

	require.True(t, errors.PAUSED.Is(f.svc.Mint(ctx, owner, "GOLD", wallet2, 1)))
	require.True(t, errors.PAUSED.Is(f.svc.MintToCustodyWallet(ctx, owner, "GOLD", 1)))
	require.True(t, errors.PAUSED.Is(f.svc.Burn(ctx, owner, "GOLD", wallet2, 1)))
	require.True(t, errors.PAUSED.Is(f.svc.BurnFromCustodyWallet(ctx, owner, "GOLD", 1)))
	require.True(t, errors.PAUSED.Is(
		f.svc.BatchMint(ctx, owner, "GOLD", []domain.Address{wallet2}, []uint64{1}),
	))
	require.True(t, errors.PAUSED.Is(
		f.svc.BatchBurn(ctx, owner, "GOLD", []domain.Address{wallet2}, []uint64{1}),
	))
	assert.Zero(t, adapter.balanceOf(wallet2))

	// reads are not gated by pause
	_, err := f.svc.TotalSupply(ctx, "GOLD")
	require.NoError(t, err)

	require.NoError(t, f.admin.Unpause(ctx, owner))
	require.NoError(t, f.svc.Mint(ctx, owner, "GOLD", wallet2, 1))
	assert.Equal(t, uint64(1), adapter.balanceOf(wallet2))
}

func TestTotalSupply(t *testing.T) {
	ctx := context.Background()
	f := newSupplyFixture(t)
	f.registerGold(t)

	require.NoError(t, f.svc.Mint(ctx, owner, "GOLD", wallet2, 123))

	supply, err := f.svc.TotalSupply(ctx, "GOLD")
	require.NoError(t, err)
	assert.Equal(t, uint64(123), supply)

	_, err = f.svc.TotalSupply(ctx, "COPPER")
	require.True(t, errors.ASSET_NOT_REGISTERED.Is(err))
}

func TestReentrancyGuard(t *testing.T) {
	ctx := context.Background()
	f := newSupplyFixture(t)
	adapter := f.registerGold(t)

	t.Run("nested call fails, outer call completes", func(t *testing.T) {
		var innerErr error
		adapter.onMint = func() {
			// token target calling back into the controller mid-mint
			innerErr = f.svc.Mint(ctx, owner, "GOLD", wallet2, 7)
			adapter.onMint = nil
		}

		require.NoError(t, f.svc.Mint(ctx, owner, "GOLD", wallet2, 100))
		require.True(t, errors.REENTRANT_CALL.Is(innerErr))
		assert.Equal(t, uint64(100), adapter.balanceOf(wallet2))
	})

	t.Run("nested admin mutation fails, registry unchanged", func(t *testing.T) {
		var innerErr error
		adapter.onMint = func() {
			// token target calling back into the registry mid-mint
			innerErr = f.admin.UnregisterAsset(ctx, owner, "GOLD")
			adapter.onMint = nil
		}

		require.NoError(t, f.svc.Mint(ctx, owner, "GOLD", wallet2, 3))
		require.True(t, errors.REENTRANT_CALL.Is(innerErr))

		registered, err := f.admin.IsAssetRegistered(ctx, "GOLD")
		require.NoError(t, err)
		assert.True(t, registered)
	})

	t.Run("nested pause and fee update fail the same way", func(t *testing.T) {
		var pauseErr, feeErr error
		adapter.onMint = func() {
			pauseErr = f.admin.Pause(ctx, owner)
			feeErr = f.admin.SetAssetFee(ctx, owner, "GOLD", 5)
			adapter.onMint = nil
		}

		require.NoError(t, f.svc.Mint(ctx, owner, "GOLD", wallet2, 2))
		require.True(t, errors.REENTRANT_CALL.Is(pauseErr))
		require.True(t, errors.REENTRANT_CALL.Is(feeErr))

		status, err := f.admin.Status(ctx)
		require.NoError(t, err)
		assert.False(t, status.Paused)
	})

	t.Run("guard released after success", func(t *testing.T) {
		require.NoError(t, f.svc.Mint(ctx, owner, "GOLD", wallet2, 1))
	})

	t.Run("guard released after delegated failure", func(t *testing.T) {
		err := f.svc.Burn(ctx, owner, "GOLD", wallet2, 100000)
		require.True(t, errors.INSUFFICIENT_BALANCE.Is(err))

		// a failed external call must not leave the guard held
		require.NoError(t, f.svc.Mint(ctx, owner, "GOLD", wallet2, 1))
	})
}
