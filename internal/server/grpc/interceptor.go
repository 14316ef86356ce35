package grpc

import (
	"context"
	"errors"

	"github.com/adhamfakhereldeen/Cyber/internal/access"
	"github.com/adhamfakhereldeen/Cyber/internal/common"
	"github.com/adhamfakhereldeen/Cyber/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const userKey ctxKey = "user"

// public methods do not need an access token.
var public = map[string]bool{
	FullMethod(MethodPing):  true,
	FullMethod(MethodLogin): true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if public[info.FullMethod] {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	username, err := auth.GetUsernameFromToken(accessToken, s.jwtSecret)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	u, err := s.clinic.Lookup(username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, status.Error(codes.Unauthenticated, "unknown user")
		}
		return nil, s.toStatus(ctx, err)
	}

	return handler(context.WithValue(ctx, userKey, u), req)
}

// userFrom returns the user attached by accessTokenInterceptor.
func userFrom(ctx context.Context) *access.User {
	u, _ := ctx.Value(userKey).(*access.User)
	return u
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	if err != nil {
		s.logger.Debug(ctx, "rpc failed", "method", info.FullMethod, "code", status.Code(err).String())
	} else {
		s.logger.Debug(ctx, "rpc done", "method", info.FullMethod)
	}
	return resp, err
}
