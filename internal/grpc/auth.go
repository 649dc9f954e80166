package grpc

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const serviceTokenHeader = "x-service-token"

var (
	errNoServiceToken  = status.Error(codes.Unauthenticated, "service token required")
	errBadServiceToken = status.Error(codes.PermissionDenied, "service token rejected")
)

// callerGuard admits calls from campus services that present the shared
// token. Digests are compared so the check takes the same time whatever the
// length of the presented token.
type callerGuard struct {
	digest [sha256.Size]byte
}

func newCallerGuard(token string) (*callerGuard, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("identity service: service token is required")
	}
	return &callerGuard{digest: sha256.Sum256([]byte(token))}, nil
}

func (g *callerGuard) admit(ctx context.Context) error {
	md, _ := metadata.FromIncomingContext(ctx)
	presented := ""
	if values := md.Get(serviceTokenHeader); len(values) > 0 {
		presented = strings.TrimSpace(values[0])
	}
	if presented == "" {
		return errNoServiceToken
	}
	got := sha256.Sum256([]byte(presented))
	if subtle.ConstantTimeCompare(got[:], g.digest[:]) != 1 {
		return errBadServiceToken
	}
	return nil
}

// NewServiceAuthUnaryInterceptor rejects identity calls that lack the shared
// service token (Unauthenticated) or carry a different one (PermissionDenied).
func NewServiceAuthUnaryInterceptor(serviceToken string) (grpc.UnaryServerInterceptor, error) {
	guard, err := newCallerGuard(serviceToken)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, req interface{}, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if err := guard.admit(ctx); err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}, nil
}

// WithServiceToken attaches token to outgoing identity calls made with ctx.
func WithServiceToken(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, serviceTokenHeader, token)
}
