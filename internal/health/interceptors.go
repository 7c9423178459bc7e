package health

import (
	"context"
	"time"

	"google.golang.org/grpc"

	"aheyecare/internal/logging"
)

func loggingUnaryInterceptor(ctx context.Context, req interface{},
	info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	start := time.Now()
	resp, err := handler(ctx, req)

	event := logging.L().Debug()
	if err != nil {
		event = logging.L().Warn().Err(err)
	}
	event.Str("method", info.FullMethod).
		Int64(logging.FieldLatency, time.Since(start).Milliseconds()).
		Msg("grpc call")

	return resp, err
}

func loggingStreamInterceptor(srv interface{}, stream grpc.ServerStream,
	info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {

	logging.L().Debug().Str("method", info.FullMethod).Msg("grpc stream started")
	err := handler(srv, stream)
	if err != nil {
		logging.L().Warn().Err(err).Str("method", info.FullMethod).Msg("grpc stream ended")
	}
	return err
}
