package httpinterface

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rakesh-sdlc/ng-contracts/internal/core/application"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

// Service is the JSON admin surface of the controller. All routes live under
// /v1 and mutating ones authenticate through the X-Operator header.
type Service struct {
	server *http.Server
}

func NewService(
	address string,
	adminSvc application.AdminService,
	supplySvc application.Service,
) *Service {
	return &Service{
		server: &http.Server{
			Addr:         address,
			Handler:      newRouter(adminSvc, supplySvc),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}
}

func (s *Service) Start() error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-time.After(100 * time.Millisecond):
		log.Infof("admin interface listening on %s", s.server.Addr)
		return nil
	}
}

func (s *Service) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("failed to shut down admin interface")
	}
	log.Info("admin interface stopped")
}
