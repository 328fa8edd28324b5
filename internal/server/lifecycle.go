// Package server runs the engine's long-lived services and shuts them down
// in reverse start order on SIGINT, SIGTERM or the first service failure.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
)

// Service is a long-running component.
type Service interface {
	// Start blocks until the service stops or fails.
	Start() error
	// Stop asks the service to return from Start.
	Stop()
}

// FuncService adapts a start/stop function pair into a Service.
type FuncService struct {
	StartFn func() error
	StopFn  func()
}

// Start calls StartFn.
func (f *FuncService) Start() error { return f.StartFn() }

// Stop calls StopFn when set.
func (f *FuncService) Stop() {
	if f.StopFn != nil {
		f.StopFn()
	}
}

// GRPCService serves a grpc.Server on a TCP address.
type GRPCService struct {
	addr   string
	srv    *grpc.Server
	logger *zap.Logger
}

// NewGRPCService wraps srv for lifecycle management.
//
// Precondition: addr is a "host:port" listen address; srv and logger are non-nil.
func NewGRPCService(addr string, srv *grpc.Server, logger *zap.Logger) *GRPCService {
	return &GRPCService{addr: addr, srv: srv, logger: logger}
}

// Start listens on the configured address and serves until Stop.
func (g *GRPCService) Start() error {
	lis, err := net.Listen("tcp", g.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", g.addr, err)
	}
	g.logger.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
	if err := g.srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// Stop drains in-flight calls, so an action already past its commit point finishes.
func (g *GRPCService) Stop() { g.srv.GracefulStop() }

// PeriodicService runs fn every interval until stopped. A failing fn is
// logged and retried on the next tick.
type PeriodicService struct {
	name     string
	interval time.Duration
	fn       func(context.Context) error
	logger   *zap.Logger
	onStop   func()

	stop chan struct{}
	once sync.Once
}

// NewPeriodicService creates a PeriodicService. onStop, when non-nil, runs once
// after the loop exits.
//
// Precondition: interval > 0; fn and logger are non-nil.
func NewPeriodicService(name string, interval time.Duration, fn func(context.Context) error, onStop func(), logger *zap.Logger) *PeriodicService {
	return &PeriodicService{
		name:     name,
		interval: interval,
		fn:       fn,
		logger:   logger,
		onStop:   onStop,
		stop:     make(chan struct{}),
	}
}

// Start runs the loop until Stop.
func (p *PeriodicService) Start() error {
	t := time.NewTicker(p.interval)
	defer t.Stop()
	for {
		select {
		case <-p.stop:
			return nil
		case <-t.C:
			ctx, cancel := context.WithTimeout(context.Background(), p.interval)
			if err := p.fn(ctx); err != nil {
				p.logger.Warn("periodic task failed", zap.String("task", p.name), zap.Error(err))
			}
			cancel()
		}
	}
}

// Stop ends the loop and runs onStop. It is safe to call more than once.
func (p *PeriodicService) Stop() {
	p.once.Do(func() {
		close(p.stop)
		if p.onStop != nil {
			p.onStop()
		}
	})
}

// Lifecycle starts services in registration order and stops them in reverse.
type Lifecycle struct {
	logger   *zap.Logger
	services []namedService
	signals  []os.Signal
	mu       sync.Mutex
}

type namedService struct {
	name    string
	service Service
}

// NewLifecycle creates a Lifecycle that shuts down on SIGINT and SIGTERM.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{logger: logger, signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM}}
}

// Add registers svc under name.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (l *Lifecycle) Add(name string, svc Service) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.services = append(l.services, namedService{name: name, service: svc})
}

// Run starts every service and blocks until a shutdown signal, ctx
// cancellation or a service failure, then stops every service.
//
// Postcondition: every service has been stopped; the first service failure, if
// any, is returned.
func (l *Lifecycle) Run(ctx context.Context) error {
	start := time.Now()

	l.mu.Lock()
	services := append([]namedService(nil), l.services...)
	l.mu.Unlock()

	ctx, stopSignals := signal.NotifyContext(ctx, l.signals...)
	defer stopSignals()

	errCh := make(chan error, len(services))
	for _, ns := range services {
		go func() {
			l.logger.Info("starting service", zap.String("service", ns.name))
			svcStart := time.Now()
			if err := ns.service.Start(); err != nil {
				l.logger.Error("service failed",
					zap.String("service", ns.name),
					zap.Error(err),
					zap.Duration("uptime", time.Since(svcStart)),
				)
				errCh <- fmt.Errorf("service %s: %w", ns.name, err)
			}
		}()
	}
	l.logger.Info("all services started",
		zap.Int("count", len(services)),
		zap.Duration("startup", time.Since(start)),
	)

	var runErr error
	select {
	case runErr = <-errCh:
		l.logger.Error("service error, shutting down", zap.Error(runErr))
	case <-ctx.Done():
		l.logger.Info("shutdown requested", zap.Error(context.Cause(ctx)))
	}

	l.shutdown(services)
	l.logger.Info("shutdown complete", zap.Duration("total_uptime", time.Since(start)))
	return runErr
}

func (l *Lifecycle) shutdown(services []namedService) {
	shutdownStart := time.Now()
	for i := len(services) - 1; i >= 0; i-- {
		ns := services[i]
		svcStart := time.Now()
		ns.service.Stop()
		l.logger.Info("service stopped",
			zap.String("service", ns.name),
			zap.Duration("elapsed", time.Since(svcStart)),
		)
	}
	l.logger.Info("all services stopped", zap.Duration("shutdown_elapsed", time.Since(shutdownStart)))
}
