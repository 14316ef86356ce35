package grpc

import (
	"context"
	"errors"

	"github.com/adhamfakhereldeen/Cyber/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var codeMap = []struct {
	err  error
	code codes.Code
}{
	{common.ErrorNotFound, codes.NotFound},
	{common.ErrConflict, codes.AlreadyExists},
	{common.ErrAlreadyExists, codes.AlreadyExists},
	{common.ErrInvalidTransition, codes.FailedPrecondition},
	{common.ErrOperationDisabled, codes.FailedPrecondition},
	{common.ErrorUnauthorized, codes.PermissionDenied},
	{common.ErrInvalidCredentials, codes.Unauthenticated},
	{common.ErrInvalidToken, codes.Unauthenticated},
	{common.ErrTokenExpired, codes.Unauthenticated},
	{common.ErrInvalidArgument, codes.InvalidArgument},
}

// toStatus converts a domain error into a gRPC status error. Unknown errors
// are logged and reported as Internal without details.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	for _, m := range codeMap {
		if errors.Is(err, m.err) {
			return status.Error(m.code, err.Error())
		}
	}
	s.logger.Error(ctx, "request failed", "error", err)
	return status.Error(codes.Internal, common.ErrorInternal.Error())
}
