package ports

import "github.com/rakesh-sdlc/ng-contracts/internal/core/domain"

type RepoManager interface {
	Assets() domain.AssetRepository
	State() domain.StateRepository
	Fees() domain.FeeRepository
	Events() domain.EventRepository
	Close()
}
