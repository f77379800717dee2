package application

import (
	"context"
	"time"

	"github.com/rakesh-sdlc/ng-contracts/internal/core/domain"
	"github.com/rakesh-sdlc/ng-contracts/internal/core/ports"
	"github.com/rakesh-sdlc/ng-contracts/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type AdminService interface {
	RegisterAsset(
		ctx context.Context, operator domain.Address,
		name string, tokenAddress, custodyWallet domain.Address,
	) (*AssetInfo, error)
	UnregisterAsset(ctx context.Context, operator domain.Address, name string) error
	ChangeCustodyWallet(
		ctx context.Context, operator domain.Address, name string, newWallet domain.Address,
	) error
	Pause(ctx context.Context, operator domain.Address) error
	Unpause(ctx context.Context, operator domain.Address) error
	InitializeExtension(ctx context.Context, operator domain.Address) error
	SetAssetFee(ctx context.Context, operator domain.Address, name string, fee uint64) error
	GetAssetFee(ctx context.Context, name string) (uint64, error)
	GetAsset(ctx context.Context, name string) (*AssetInfo, error)
	GetAssetId(name string) domain.AssetId
	IsAssetRegistered(ctx context.Context, name string) (bool, error)
	ListAssets(ctx context.Context) ([]AssetInfo, error)
	ListEvents(ctx context.Context, topic string) ([]domain.Event, error)
	Status(ctx context.Context) (*ControllerStatus, error)
}

type adminService struct {
	repoManager ports.RepoManager
	guard       ports.OpGuard
}

// NewAdminService shares the reentrancy guard with the supply service so a
// token adapter calling back into the controller mid-delegation cannot
// complete a registry mutation either.
func NewAdminService(repoManager ports.RepoManager, guard ports.OpGuard) AdminService {
	return &adminService{repoManager: repoManager, guard: guard}
}

// acquireGuard claims the shared controller guard for the duration of a
// mutating registry operation. Callers must Release on every exit path.
func (a *adminService) acquireGuard() error {
	if !a.guard.TryAcquire() {
		return errors.REENTRANT_CALL.New("controller operation already in flight")
	}
	return nil
}

func (a *adminService) RegisterAsset(
	ctx context.Context, operator domain.Address,
	name string, tokenAddress, custodyWallet domain.Address,
) (*AssetInfo, error) {
	if err := a.acquireGuard(); err != nil {
		return nil, err
	}
	defer a.guard.Release()

	if _, err := requireOwner(ctx, a.repoManager, operator, false); err != nil {
		return nil, err
	}

	if len(name) == 0 {
		return nil, errors.INVALID_NAME.New("asset name is empty")
	}
	if tokenAddress.IsZero() {
		return nil, errors.ZERO_ADDRESS.New("token address is zero").
			WithMetadata(errors.AddressMetadata{Field: "token_address"})
	}
	if custodyWallet.IsZero() {
		return nil, errors.ZERO_ADDRESS.New("custody wallet is zero").
			WithMetadata(errors.AddressMetadata{Field: "custody_wallet"})
	}

	id := domain.NewAssetId(name)
	existing, err := a.repoManager.Assets().GetAsset(ctx, id)
	if err != nil {
		return nil, errors.INTERNAL_ERROR.Wrap(err)
	}
	if existing != nil {
		return nil, errors.ASSET_ALREADY_REGISTERED.New("asset %q already registered", name).
			WithMetadata(errors.AssetNameMetadata{AssetId: id.String(), Name: name})
	}

	record := domain.NewAssetRecord(name, tokenAddress, custodyWallet)
	if err := a.repoManager.Assets().AddAsset(ctx, record); err != nil {
		return nil, errors.INTERNAL_ERROR.Wrap(err)
	}

	saveEvents(ctx, a.repoManager, domain.RegistryTopic, domain.AssetRegistered{
		BaseEvent:     domain.NewBaseEvent(operator),
		AssetId:       id.String(),
		Name:          name,
		TokenAddress:  tokenAddress,
		CustodyWallet: custodyWallet,
	})

	log.Infof("registered asset %s (%s)", name, id)

	info := assetInfoFromRecord(record)
	return &info, nil
}

func (a *adminService) UnregisterAsset(
	ctx context.Context, operator domain.Address, name string,
) error {
	if err := a.acquireGuard(); err != nil {
		return err
	}
	defer a.guard.Release()

	if _, err := requireOwner(ctx, a.repoManager, operator, false); err != nil {
		return err
	}

	record, err := resolveAsset(ctx, a.repoManager, name)
	if err != nil {
		return err
	}

	// fee entries deliberately survive the registration record
	if err := a.repoManager.Assets().RemoveAsset(ctx, record.Id); err != nil {
		return errors.INTERNAL_ERROR.Wrap(err)
	}

	saveEvents(ctx, a.repoManager, domain.RegistryTopic, domain.AssetUnregistered{
		BaseEvent: domain.NewBaseEvent(operator),
		AssetId:   record.Id.String(),
		Name:      name,
	})

	log.Infof("unregistered asset %s (%s)", name, record.Id)
	return nil
}

func (a *adminService) ChangeCustodyWallet(
	ctx context.Context, operator domain.Address, name string, newWallet domain.Address,
) error {
	if err := a.acquireGuard(); err != nil {
		return err
	}
	defer a.guard.Release()

	if _, err := requireOwner(ctx, a.repoManager, operator, false); err != nil {
		return err
	}

	if newWallet.IsZero() {
		return errors.ZERO_ADDRESS.New("custody wallet is zero").
			WithMetadata(errors.AddressMetadata{Field: "custody_wallet"})
	}

	record, err := resolveAsset(ctx, a.repoManager, name)
	if err != nil {
		return err
	}

	oldWallet := record.CustodyWallet
	if err := a.repoManager.Assets().UpdateCustodyWallet(ctx, record.Id, newWallet); err != nil {
		return errors.INTERNAL_ERROR.Wrap(err)
	}

	saveEvents(ctx, a.repoManager, domain.RegistryTopic, domain.CustodyWalletChanged{
		BaseEvent: domain.NewBaseEvent(operator),
		AssetId:   record.Id.String(),
		OldWallet: oldWallet,
		NewWallet: newWallet,
	})

	log.Infof("changed custody wallet of %s from %s to %s", name, oldWallet, newWallet)
	return nil
}

func (a *adminService) Pause(ctx context.Context, operator domain.Address) error {
	return a.setPaused(ctx, operator, true)
}

func (a *adminService) Unpause(ctx context.Context, operator domain.Address) error {
	return a.setPaused(ctx, operator, false)
}

// setPaused is idempotent at the boolean level: pausing an already paused
// controller succeeds silently and emits nothing.
func (a *adminService) setPaused(
	ctx context.Context, operator domain.Address, paused bool,
) error {
	if err := a.acquireGuard(); err != nil {
		return err
	}
	defer a.guard.Release()

	state, err := requireOwner(ctx, a.repoManager, operator, true)
	if err != nil {
		return err
	}

	if state.Paused == paused {
		return nil
	}

	state.Paused = paused
	state.UpdatedAt = time.Now().Unix()
	if err := a.repoManager.State().Upsert(ctx, *state); err != nil {
		return errors.INTERNAL_ERROR.Wrap(err)
	}

	var event domain.Event
	if paused {
		event = domain.ControllerPaused{BaseEvent: domain.NewBaseEvent(operator)}
		log.Warn("controller paused")
	} else {
		event = domain.ControllerUnpaused{BaseEvent: domain.NewBaseEvent(operator)}
		log.Info("controller unpaused")
	}
	saveEvents(ctx, a.repoManager, domain.RegistryTopic, event)

	return nil
}

func (a *adminService) InitializeExtension(
	ctx context.Context, operator domain.Address,
) error {
	if err := a.acquireGuard(); err != nil {
		return err
	}
	defer a.guard.Release()

	state, err := requireOwner(ctx, a.repoManager, operator, false)
	if err != nil {
		return err
	}

	if state.ExtensionInitialized() {
		return errors.ALREADY_INITIALIZED.New(
			"fee extension already initialized at version %d", state.Version,
		)
	}

	state.Version = domain.FeeExtensionVersion
	state.UpdatedAt = time.Now().Unix()
	if err := a.repoManager.State().Upsert(ctx, *state); err != nil {
		return errors.INTERNAL_ERROR.Wrap(err)
	}

	saveEvents(ctx, a.repoManager, domain.RegistryTopic, domain.ExtensionInitialized{
		BaseEvent: domain.NewBaseEvent(operator),
		Version:   state.Version,
	})

	log.Infof("fee extension initialized at version %d", state.Version)
	return nil
}

func (a *adminService) SetAssetFee(
	ctx context.Context, operator domain.Address, name string, fee uint64,
) error {
	if err := a.acquireGuard(); err != nil {
		return err
	}
	defer a.guard.Release()

	if _, err := requireOwner(ctx, a.repoManager, operator, false); err != nil {
		return err
	}

	// existence is re-validated at call time, never cached
	record, err := resolveAsset(ctx, a.repoManager, name)
	if err != nil {
		return err
	}

	if err := a.repoManager.Fees().UpsertFee(ctx, domain.AssetFee{
		AssetId:   record.Id,
		Fee:       fee,
		UpdatedAt: time.Now().Unix(),
	}); err != nil {
		return errors.INTERNAL_ERROR.Wrap(err)
	}

	saveEvents(ctx, a.repoManager, domain.RegistryTopic, domain.AssetFeeUpdated{
		BaseEvent: domain.NewBaseEvent(operator),
		AssetId:   record.Id.String(),
		Fee:       fee,
	})

	return nil
}

// GetAssetFee is intentionally permissive: it answers 0 for ids that never
// had a fee set, including names that were never registered at all.
func (a *adminService) GetAssetFee(ctx context.Context, name string) (uint64, error) {
	fee, err := a.repoManager.Fees().GetFee(ctx, domain.NewAssetId(name))
	if err != nil {
		return 0, errors.INTERNAL_ERROR.Wrap(err)
	}
	return fee, nil
}

func (a *adminService) GetAsset(ctx context.Context, name string) (*AssetInfo, error) {
	record, err := resolveAsset(ctx, a.repoManager, name)
	if err != nil {
		return nil, err
	}
	info := assetInfoFromRecord(*record)
	return &info, nil
}

func (a *adminService) GetAssetId(name string) domain.AssetId {
	return domain.NewAssetId(name)
}

func (a *adminService) IsAssetRegistered(ctx context.Context, name string) (bool, error) {
	record, err := a.repoManager.Assets().GetAsset(ctx, domain.NewAssetId(name))
	if err != nil {
		return false, errors.INTERNAL_ERROR.Wrap(err)
	}
	return record != nil, nil
}

func (a *adminService) ListAssets(ctx context.Context) ([]AssetInfo, error) {
	ids, err := a.repoManager.Assets().ListAssetIds(ctx)
	if err != nil {
		return nil, errors.INTERNAL_ERROR.Wrap(err)
	}

	infos := make([]AssetInfo, 0, len(ids))
	for _, id := range ids {
		record, err := a.repoManager.Assets().GetAsset(ctx, id)
		if err != nil {
			return nil, errors.INTERNAL_ERROR.Wrap(err)
		}
		if record == nil {
			log.Warnf("asset %s is indexed but has no record, skipping", id)
			continue
		}
		infos = append(infos, assetInfoFromRecord(*record))
	}
	return infos, nil
}

// ListEvents replays the persisted audit trail for a topic in insertion
// order. Unknown topics answer an empty list rather than an error.
func (a *adminService) ListEvents(
	ctx context.Context, topic string,
) ([]domain.Event, error) {
	events, err := a.repoManager.Events().GetEvents(ctx, topic)
	if err != nil {
		return nil, errors.INTERNAL_ERROR.Wrap(err)
	}
	return events, nil
}

func (a *adminService) Status(ctx context.Context) (*ControllerStatus, error) {
	state, err := getState(ctx, a.repoManager)
	if err != nil {
		return nil, err
	}
	ids, err := a.repoManager.Assets().ListAssetIds(ctx)
	if err != nil {
		return nil, errors.INTERNAL_ERROR.Wrap(err)
	}
	return &ControllerStatus{
		Owner:                state.Owner,
		Paused:               state.Paused,
		Version:              state.Version,
		ExtensionInitialized: state.ExtensionInitialized(),
		RegisteredAssets:     len(ids),
	}, nil
}
