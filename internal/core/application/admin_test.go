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

var (
	owner, _    = domain.ParseAddress("0x52908400098527886e0f7030069857d2e4169ee7")
	stranger, _ = domain.ParseAddress("0xde709f2102306220921060314715629080e2fb77")
	token, _    = domain.ParseAddress("0x8617e340b3d01fa5f11f306f4090fd50e238070d")
	custody, _  = domain.ParseAddress("0x27b1fdb04752bbc536007a920d24acb045561c26")
	wallet2, _  = domain.ParseAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
)

func newAdminFixture(t *testing.T) (application.AdminService, *mockRepoManager) {
	t.Helper()
	repo := newMockRepoManager()
	require.NoError(t, application.BootstrapState(context.Background(), repo, owner))
	return application.NewAdminService(repo, &testGuard{}), repo
}

func TestRegisterAsset(t *testing.T) {
	ctx := context.Background()
	svc, repo := newAdminFixture(t)

	t.Run("register then resolve", func(t *testing.T) {
		info, err := svc.RegisterAsset(ctx, owner, "GOLD", token, custody)
		require.NoError(t, err)
		require.Equal(t, domain.NewAssetId("GOLD").String(), info.Id)

		got, err := svc.GetAsset(ctx, "GOLD")
		require.NoError(t, err)
		assert.Equal(t, token, got.TokenAddress)
		assert.Equal(t, custody, got.CustodyWallet)
	})

	t.Run("duplicate name fails regardless of arguments", func(t *testing.T) {
		_, err := svc.RegisterAsset(ctx, owner, "GOLD", wallet2, wallet2)
		require.True(t, errors.ASSET_ALREADY_REGISTERED.Is(err))
	})

	t.Run("asset names are case sensitive", func(t *testing.T) {
		_, err := svc.RegisterAsset(ctx, owner, "gold", token, custody)
		require.NoError(t, err)

		upper, err := svc.GetAsset(ctx, "GOLD")
		require.NoError(t, err)
		lower, err := svc.GetAsset(ctx, "gold")
		require.NoError(t, err)
		assert.NotEqual(t, upper.Id, lower.Id)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		_, err := svc.RegisterAsset(ctx, owner, "", token, custody)
		require.True(t, errors.INVALID_NAME.Is(err))
	})

	t.Run("zero addresses rejected", func(t *testing.T) {
		_, err := svc.RegisterAsset(ctx, owner, "SILVER", "", custody)
		require.True(t, errors.ZERO_ADDRESS.Is(err))

		_, err = svc.RegisterAsset(ctx, owner, "SILVER", token, "")
		require.True(t, errors.ZERO_ADDRESS.Is(err))
	})

	t.Run("non-owner rejected with no state change", func(t *testing.T) {
		before, err := svc.ListAssets(ctx)
		require.NoError(t, err)

		_, err = svc.RegisterAsset(ctx, stranger, "SILVER", token, custody)
		require.True(t, errors.UNAUTHORIZED.Is(err))

		after, err := svc.ListAssets(ctx)
		require.NoError(t, err)
		assert.Equal(t, len(before), len(after))
	})

	t.Run("registration event emitted", func(t *testing.T) {
		events := repo.eventRepo.events(domain.RegistryTopic)
		require.NotEmpty(t, events)
		registered, ok := events[0].(domain.AssetRegistered)
		require.True(t, ok)
		assert.Equal(t, "GOLD", registered.Name)
		assert.Equal(t, owner, registered.Operator)
	})
}

func TestUnregisterAsset(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAdminFixture(t)

	_, err := svc.RegisterAsset(ctx, owner, "GOLD", token, custody)
	require.NoError(t, err)
	_, err = svc.RegisterAsset(ctx, owner, "SILVER", token, custody)
	require.NoError(t, err)

	t.Run("unregister removes record and index entry", func(t *testing.T) {
		before, err := svc.ListAssets(ctx)
		require.NoError(t, err)

		require.NoError(t, svc.UnregisterAsset(ctx, owner, "GOLD"))

		_, err = svc.GetAsset(ctx, "GOLD")
		require.True(t, errors.ASSET_NOT_REGISTERED.Is(err))

		after, err := svc.ListAssets(ctx)
		require.NoError(t, err)
		require.Len(t, after, len(before)-1)
		for _, info := range after {
			assert.NotEqual(t, domain.NewAssetId("GOLD").String(), info.Id)
		}

		registered, err := svc.IsAssetRegistered(ctx, "GOLD")
		require.NoError(t, err)
		assert.False(t, registered)
	})

	t.Run("unregister unknown asset fails", func(t *testing.T) {
		err := svc.UnregisterAsset(ctx, owner, "COPPER")
		require.True(t, errors.ASSET_NOT_REGISTERED.Is(err))
	})

	t.Run("non-owner rejected", func(t *testing.T) {
		err := svc.UnregisterAsset(ctx, stranger, "SILVER")
		require.True(t, errors.UNAUTHORIZED.Is(err))

		registered, err := svc.IsAssetRegistered(ctx, "SILVER")
		require.NoError(t, err)
		assert.True(t, registered)
	})
}

func TestChangeCustodyWallet(t *testing.T) {
	ctx := context.Background()
	svc, repo := newAdminFixture(t)

	_, err := svc.RegisterAsset(ctx, owner, "GOLD", token, custody)
	require.NoError(t, err)

	t.Run("updates wallet in place", func(t *testing.T) {
		require.NoError(t, svc.ChangeCustodyWallet(ctx, owner, "GOLD", wallet2))

		got, err := svc.GetAsset(ctx, "GOLD")
		require.NoError(t, err)
		assert.Equal(t, wallet2, got.CustodyWallet)
		assert.Equal(t, token, got.TokenAddress)

		events := repo.eventRepo.events(domain.RegistryTopic)
		changed, ok := events[len(events)-1].(domain.CustodyWalletChanged)
		require.True(t, ok)
		assert.Equal(t, custody, changed.OldWallet)
		assert.Equal(t, wallet2, changed.NewWallet)
	})

	t.Run("zero wallet rejected", func(t *testing.T) {
		err := svc.ChangeCustodyWallet(ctx, owner, "GOLD", "")
		require.True(t, errors.ZERO_ADDRESS.Is(err))
	})

	t.Run("unknown asset rejected", func(t *testing.T) {
		err := svc.ChangeCustodyWallet(ctx, owner, "COPPER", wallet2)
		require.True(t, errors.ASSET_NOT_REGISTERED.Is(err))
	})
}

func TestPauseUnpause(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAdminFixture(t)

	t.Run("pause gates mutating admin operations", func(t *testing.T) {
		require.NoError(t, svc.Pause(ctx, owner))

		_, err := svc.RegisterAsset(ctx, owner, "GOLD", token, custody)
		require.True(t, errors.PAUSED.Is(err))

		// reads stay available while paused
		_, err = svc.ListAssets(ctx)
		require.NoError(t, err)
	})

	t.Run("idempotent at the boolean level", func(t *testing.T) {
		require.NoError(t, svc.Pause(ctx, owner))
		require.NoError(t, svc.Unpause(ctx, owner))
		require.NoError(t, svc.Unpause(ctx, owner))
	})

	t.Run("operations succeed again after unpause", func(t *testing.T) {
		_, err := svc.RegisterAsset(ctx, owner, "GOLD", token, custody)
		require.NoError(t, err)
	})

	t.Run("non-owner cannot pause or unpause", func(t *testing.T) {
		require.True(t, errors.UNAUTHORIZED.Is(svc.Pause(ctx, stranger)))
		require.True(t, errors.UNAUTHORIZED.Is(svc.Unpause(ctx, stranger)))
	})
}

func TestFeeExtension(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAdminFixture(t)

	_, err := svc.RegisterAsset(ctx, owner, "GOLD", token, custody)
	require.NoError(t, err)

	t.Run("initialize once", func(t *testing.T) {
		require.NoError(t, svc.InitializeExtension(ctx, owner))
		err := svc.InitializeExtension(ctx, owner)
		require.True(t, errors.ALREADY_INITIALIZED.Is(err))
	})

	t.Run("set and get fee", func(t *testing.T) {
		require.NoError(t, svc.SetAssetFee(ctx, owner, "GOLD", 25))

		fee, err := svc.GetAssetFee(ctx, "GOLD")
		require.NoError(t, err)
		assert.Equal(t, uint64(25), fee)
	})

	t.Run("set fee on unregistered asset fails", func(t *testing.T) {
		err := svc.SetAssetFee(ctx, owner, "COPPER", 10)
		require.True(t, errors.ASSET_NOT_REGISTERED.Is(err))
	})

	t.Run("get fee is permissive for unknown names", func(t *testing.T) {
		fee, err := svc.GetAssetFee(ctx, "NEVER_REGISTERED")
		require.NoError(t, err)
		assert.Zero(t, fee)
	})

	t.Run("fee survives unregistration and re-registration", func(t *testing.T) {
		require.NoError(t, svc.UnregisterAsset(ctx, owner, "GOLD"))

		// stale entry still readable while unregistered
		fee, err := svc.GetAssetFee(ctx, "GOLD")
		require.NoError(t, err)
		assert.Equal(t, uint64(25), fee)

		_, err = svc.RegisterAsset(ctx, owner, "GOLD", wallet2, wallet2)
		require.NoError(t, err)

		fee, err = svc.GetAssetFee(ctx, "GOLD")
		require.NoError(t, err)
		assert.Equal(t, uint64(25), fee)
	})

	t.Run("non-owner cannot set fee", func(t *testing.T) {
		err := svc.SetAssetFee(ctx, stranger, "GOLD", 99)
		require.True(t, errors.UNAUTHORIZED.Is(err))

		fee, err := svc.GetAssetFee(ctx, "GOLD")
		require.NoError(t, err)
		assert.Equal(t, uint64(25), fee)
	})
}

func TestBootstrapState(t *testing.T) {
	ctx := context.Background()

	t.Run("first boot requires an owner", func(t *testing.T) {
		repo := newMockRepoManager()
		require.Error(t, application.BootstrapState(ctx, repo, ""))
	})

	t.Run("persisted owner wins over configured owner", func(t *testing.T) {
		repo := newMockRepoManager()
		require.NoError(t, application.BootstrapState(ctx, repo, owner))
		require.NoError(t, application.BootstrapState(ctx, repo, stranger))

		state, err := repo.stateRepo.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, owner, state.Owner)
	})
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAdminFixture(t)

	_, err := svc.RegisterAsset(ctx, owner, "GOLD", token, custody)
	require.NoError(t, err)

	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, owner, status.Owner)
	assert.False(t, status.Paused)
	assert.False(t, status.ExtensionInitialized)
	assert.Equal(t, 1, status.RegisteredAssets)
}
