package grpc

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"messaging-service/internal/resource"
	"messaging-service/pkg/logger"
)

// ServiceName is the gRPC health service name reported for this process.
const ServiceName = "messaging.v1.Messaging"

// HealthServer keeps the standard gRPC health service in sync with the
// dependency checks that also back GET /health.
type HealthServer struct {
	*health.Server
	checks   func() []resource.NamedHealthCheck
	interval time.Duration
	timeout  time.Duration
}

// NewHealthServer 创建健康检查服务，初始状态为 NOT_SERVING，直到第一次探测完成。
func NewHealthServer(checks func() []resource.NamedHealthCheck, interval time.Duration) *HealthServer {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	s := &HealthServer{
		Server:   health.NewServer(),
		checks:   checks,
		interval: interval,
		timeout:  3 * time.Second,
	}
	s.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

func (s *HealthServer) set(status healthpb.HealthCheckResponse_ServingStatus) {
	s.SetServingStatus("", status)
	s.SetServingStatus(ServiceName, status)
}

// Probe runs every check once and publishes the result.
func (s *HealthServer) Probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	for _, hc := range s.checks() {
		if err := hc.Check(ctx); err != nil {
			logger.WithContext(ctx).WithFields(logrus.Fields{
				"check": hc.Name,
				"error": err,
			}).Warn("health probe failed")
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.set(status)
	return status
}

// Run probes until ctx is cancelled, then marks the service as shutting down.
func (s *HealthServer) Run(ctx context.Context) {
	s.Probe(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.Shutdown()
			return
		case <-ticker.C:
			s.Probe(ctx)
		}
	}
}
