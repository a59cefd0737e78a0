// Package metrics provides HTTP services exposing client metrics.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/nspcc-dev/soroban-go/pkg/config"
	"go.uber.org/zap"
)

// Service serves metrics.
type Service struct {
	*http.Server
	config      config.BasicService
	log         *zap.Logger
	serviceType string
	done        chan struct{}
}

// NewService creates a service of the given type with the handler.
func NewService(name string, handler http.Handler, cfg config.BasicService, log *zap.Logger) *Service {
	return &Service{
		Server:      &http.Server{Addr: cfg.Address, Handler: handler},
		config:      cfg,
		serviceType: name,
		log:         log.With(zap.String("service", name)),
	}
}

// Start runs the HTTP service in a separate goroutine. It returns an error
// if the configured address can't be listened on.
func (ms *Service) Start() error {
	if !ms.config.Enabled {
		ms.log.Info("service hasn't started since it's disabled")
		return nil
	}
	ln, err := net.Listen("tcp", ms.Addr)
	if err != nil {
		return err
	}
	ms.Addr = ln.Addr().String()
	ms.done = make(chan struct{})
	ms.log.Info("service is running", zap.String("endpoint", ms.Addr))
	go func() {
		defer close(ms.done)
		err := ms.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			ms.log.Warn("service stopped", zap.Error(err))
		}
	}()
	return nil
}

// ShutDown stops the service.
func (ms *Service) ShutDown() {
	if !ms.config.Enabled || ms.done == nil {
		return
	}
	ms.log.Info("shutting down service", zap.String("endpoint", ms.Addr))
	err := ms.Shutdown(context.Background())
	if err != nil {
		ms.log.Error("can't shut service down", zap.Error(err))
	}
	<-ms.done
}
