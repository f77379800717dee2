package redislivestore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/rakesh-sdlc/ng-contracts/internal/core/ports"
)

const (
	opGuardKey = "supply:op-guard"

	// guardTTL bounds how long a crashed holder can keep the guard locked.
	guardTTL = 30 * time.Second
)

type opGuard struct {
	rdb *redis.Client
}

// NewOpGuard returns a guard shared through redis, for deployments running
// more than one service instance against the same token capabilities.
func NewOpGuard(rdb *redis.Client) ports.OpGuard {
	return &opGuard{rdb: rdb}
}

func (g *opGuard) TryAcquire() bool {
	ok, err := g.rdb.SetNX(context.Background(), opGuardKey, 1, guardTTL).Result()
	if err != nil {
		log.WithError(err).Warn("failed to acquire op guard")
		return false
	}
	return ok
}

func (g *opGuard) Release() {
	if err := g.rdb.Del(context.Background(), opGuardKey).Err(); err != nil {
		log.WithError(err).Warn("failed to release op guard")
	}
}
