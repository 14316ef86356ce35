// Package grpc exposes the clinic service over gRPC.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/adhamfakhereldeen/Cyber/internal/clinic"
	"github.com/adhamfakhereldeen/Cyber/internal/logging"
	"github.com/adhamfakhereldeen/Cyber/internal/server/metrics"
	"google.golang.org/grpc"
)

// Options configure a GRPCServer.
type Options struct {
	Address          string
	SecretKey        string
	TokenTTL         time.Duration
	LoginRateLimit   float64
	LoginRateBurst   int
	Metrics          *metrics.Metrics
	ListenerOverride net.Listener
}

type GRPCServer struct {
	address   string
	listener  net.Listener
	clinic    *clinic.Service
	logger    logging.Logger
	jwtSecret []byte
	tokenTTL  time.Duration
	limiter   *RateLimiter
	metrics   *metrics.Metrics
}

func NewGRPCServer(svc *clinic.Service, l logging.Logger, opts Options) *GRPCServer {
	return &GRPCServer{
		address:   opts.Address,
		listener:  opts.ListenerOverride,
		clinic:    svc,
		logger:    l.With("module", "grpc_server"),
		jwtSecret: []byte(opts.SecretKey),
		tokenTTL:  opts.TokenTTL,
		limiter:   NewRateLimiter(opts.LoginRateLimit, opts.LoginRateBurst),
		metrics:   opts.Metrics,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	var chain []grpc.UnaryServerInterceptor
	if s.metrics != nil {
		chain = append(chain, s.metrics.UnaryInterceptor())
	}
	chain = append(chain,
		s.loggingInterceptor,
		RateLimit(s.limiter, FullMethod(MethodLogin)),
		s.accessTokenInterceptor,
	)

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(chain...))
	RegisterClinicServer(srv, s)
	return srv
}

// Run serves until ctx is cancelled, then stops gracefully.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen := s.listener
	if listen == nil {
		var err error
		// announces address
		listen, err = net.Listen("tcp", s.address)
		if err != nil {
			return err
		}
	}

	srv := s.newServer()

	go s.limiter.Cleanup(ctx, time.Minute, 3*time.Minute)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
