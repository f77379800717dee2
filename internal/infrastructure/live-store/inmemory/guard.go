package inmemorylivestore

import (
	"sync/atomic"

	"github.com/rakesh-sdlc/ng-contracts/internal/core/ports"
)

type opGuard struct {
	locked atomic.Bool
}

// NewOpGuard returns a process-local guard. It is enough for a single-node
// deployment where all supply operations go through one service instance.
func NewOpGuard() ports.OpGuard {
	return &opGuard{}
}

func (g *opGuard) TryAcquire() bool {
	return g.locked.CompareAndSwap(false, true)
}

func (g *opGuard) Release() {
	g.locked.Store(false)
}
