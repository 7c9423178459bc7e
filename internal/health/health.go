// Package health exposes a gRPC health endpoint that reports whether the
// storefront database is reachable.
package health

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"gorm.io/gorm"

	"aheyecare/internal/logging"
)

// ServiceName is the name health checkers pass in HealthCheckRequest.Service.
const ServiceName = "aheyecare.Storefront"

// Pinger reports readiness of a dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// DBPinger pings the pool behind a gorm handle.
func DBPinger(db *gorm.DB) Pinger {
	return PingFunc(func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("sql.DB error: %w", err)
		}
		return sqlDB.PingContext(ctx)
	})
}

type Server struct {
	srv      *grpc.Server
	health   *health.Server
	pinger   Pinger
	interval time.Duration

	stopOnce sync.Once
	stop     chan struct{}
}

func NewServer(pinger Pinger, interval time.Duration) *Server {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	gs := grpc.NewServer(
		grpc.UnaryInterceptor(loggingUnaryInterceptor),
		grpc.StreamInterceptor(loggingStreamInterceptor),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	reflection.Register(gs)

	s := &Server{srv: gs, health: hs, pinger: pinger, interval: interval, stop: make(chan struct{})}
	s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

func (s *Server) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Check pings once and records the result.
func (s *Server) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := s.pinger.Ping(ctx); err != nil {
		s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
		return err
	}
	s.setStatus(healthpb.HealthCheckResponse_SERVING)
	return nil
}

// Serve checks readiness every interval and serves gRPC on lis until Stop.
func (s *Server) Serve(lis net.Listener) error {
	if err := s.Check(context.Background()); err != nil {
		logging.L().Warn().Err(err).Msg("database not ready")
	}

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := s.Check(context.Background()); err != nil {
					logging.L().Warn().Err(err).Msg("database health check failed")
				}
			case <-s.stop:
				return
			}
		}
	}()

	return s.srv.Serve(lis)
}

func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		s.health.Shutdown()
		s.srv.GracefulStop()
	})
}
