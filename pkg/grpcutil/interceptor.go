package grpcutil

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"messaging-service/pkg/logger"
)

const requestIDKey = "x-request-id"

// UnaryServerRequestIDInterceptor propagates the caller's request id, or
// assigns one, and logs each call.
func UnaryServerRequestIDInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	requestID := ""
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(requestIDKey); len(ids) > 0 {
			requestID = ids[0]
		}
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}
	ctx = logger.ContextWithRequestID(ctx, requestID)
	_ = grpc.SetHeader(ctx, metadata.Pairs(requestIDKey, requestID))

	start := time.Now()
	resp, err := handler(ctx, req)
	entry := logger.WithContext(ctx).WithFields(logrus.Fields{
		"method":  info.FullMethod,
		"latency": time.Since(start).String(),
	})
	if err != nil {
		entry.WithError(err).Warn("grpc call failed")
	} else {
		entry.Debug("grpc call completed")
	}
	return resp, err
}
