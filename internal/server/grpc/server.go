// Package grpc exposes the standard grpc.health.v1 service so orchestrators
// can probe the web server on a separate port.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/fieldcheck/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported next to the overall "".
const ServiceName = "fieldcheck.web"

// Pinger is a dependency whose reachability decides the serving status,
// typically the *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type GRPCServer struct {
	address  string
	logger   logging.Logger
	health   *health.Server
	pinger   Pinger
	interval time.Duration
}

// NewGRPCServer builds the health server. pinger may be nil, in which case
// the status stays SERVING for the life of the process.
func NewGRPCServer(a string, l logging.Logger, pinger Pinger, interval time.Duration) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		health:   health.NewServer(),
		pinger:   pinger,
		interval: interval,
	}
}

// Health exposes the underlying health server, mainly for tests.
func (s *GRPCServer) Health() healthpb.HealthServer {
	return s.health
}

func (s *GRPCServer) setStatus(st healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

// probe pings the dependency once and updates the serving status.
func (s *GRPCServer) probe(ctx context.Context) {
	if s.pinger == nil {
		s.setStatus(healthpb.HealthCheckResponse_SERVING)
		return
	}

	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.pinger.PingContext(pctx); err != nil {
		s.logger.Warn(ctx, "dependency ping failed", "error", err)
		s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
		return
	}
	s.setStatus(healthpb.HealthCheckResponse_SERVING)
}

func (s *GRPCServer) watch(ctx context.Context) {
	if s.pinger == nil || s.interval <= 0 {
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.probe(ctx)
		}
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)

	s.probe(ctx)
	go s.watch(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
