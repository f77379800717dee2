package application

import (
	"context"
	"fmt"

	"github.com/rakesh-sdlc/ng-contracts/internal/core/domain"
	"github.com/rakesh-sdlc/ng-contracts/internal/core/ports"
	"github.com/rakesh-sdlc/ng-contracts/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// BootstrapState makes sure a controller state exists before any service
// starts. The owner passed here is only used on first boot: a persisted owner
// always wins, a restart must never silently transfer ownership.
func BootstrapState(
	ctx context.Context, repoManager ports.RepoManager, owner domain.Address,
) error {
	state, err := repoManager.State().Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to get controller state: %w", err)
	}
	if state != nil {
		if !owner.IsZero() && state.Owner != owner {
			log.Warnf(
				"configured owner %s differs from persisted owner %s, keeping persisted owner",
				owner, state.Owner,
			)
		}
		return nil
	}

	if owner.IsZero() {
		return fmt.Errorf("missing owner address for first boot")
	}

	state = domain.NewControllerState(owner)
	if err := repoManager.State().Upsert(ctx, *state); err != nil {
		return fmt.Errorf("failed to persist controller state: %w", err)
	}

	log.Infof("initialized controller state with owner %s", owner)
	return nil
}

// getState loads the persisted controller state, failing if bootstrap never
// ran.
func getState(
	ctx context.Context, repoManager ports.RepoManager,
) (*domain.ControllerState, error) {
	state, err := repoManager.State().Get(ctx)
	if err != nil {
		return nil, errors.INTERNAL_ERROR.Wrap(err)
	}
	if state == nil {
		return nil, errors.INTERNAL_ERROR.New("controller state not initialized")
	}
	return state, nil
}

// requireOwner loads the state and enforces, in order, that the operator is
// the owner and that the controller is not paused. Pause and unpause skip the
// second check by passing allowPaused.
func requireOwner(
	ctx context.Context, repoManager ports.RepoManager,
	operator domain.Address, allowPaused bool,
) (*domain.ControllerState, error) {
	state, err := getState(ctx, repoManager)
	if err != nil {
		return nil, err
	}
	if operator.IsZero() || operator != state.Owner {
		return nil, errors.UNAUTHORIZED.New("caller is not the owner").
			WithMetadata(errors.OperatorMetadata{Operator: operator.String()})
	}
	if !allowPaused && state.Paused {
		return nil, errors.PAUSED.New("controller is paused")
	}
	return state, nil
}

// resolveAsset fails closed when the name is not registered.
func resolveAsset(
	ctx context.Context, repoManager ports.RepoManager, name string,
) (*domain.AssetRecord, error) {
	id := domain.NewAssetId(name)
	record, err := repoManager.Assets().GetAsset(ctx, id)
	if err != nil {
		return nil, errors.INTERNAL_ERROR.Wrap(err)
	}
	if record == nil {
		return nil, errors.ASSET_NOT_REGISTERED.New("no asset registered under %q", name).
			WithMetadata(errors.AssetNameMetadata{AssetId: id.String(), Name: name})
	}
	return record, nil
}

// saveEvents persists and dispatches record events. The mutation they
// describe has already been applied, so a failing event store is logged and
// not surfaced to the caller.
func saveEvents(
	ctx context.Context, repoManager ports.RepoManager, topic string, events ...domain.Event,
) {
	if err := repoManager.Events().Save(ctx, topic, events...); err != nil {
		log.WithError(err).Errorf("failed to save %s events", topic)
	}
}
