// Package grpc exposes account lookups and session verification to other
// campus services. The service is declared by hand over protobuf
// well-known types so no generated code is needed.
package grpc

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/Semicile17/Campus-Connect/internal/auth"
	"github.com/Semicile17/Campus-Connect/internal/model"
	"github.com/Semicile17/Campus-Connect/internal/repository"
)

const (
	identityServiceName = "campus.identity.v1.IdentityQuery"
	getUserMethod       = "/" + identityServiceName + "/GetUser"
	verifySessionMethod = "/" + identityServiceName + "/VerifySession"
)

type IdentityQueryServer interface {
	GetUser(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	VerifySession(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

var IdentityQueryServiceDesc = grpc.ServiceDesc{
	ServiceName: identityServiceName,
	HandlerType: (*IdentityQueryServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetUser", Handler: getUserHandler},
		{MethodName: "VerifySession", Handler: verifySessionHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "campus/identity/v1/identity.proto",
}

func RegisterIdentityQueryServer(s grpc.ServiceRegistrar, srv IdentityQueryServer) {
	s.RegisterService(&IdentityQueryServiceDesc, srv)
}

func getUserHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IdentityQueryServer).GetUser(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getUserMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(IdentityQueryServer).GetUser(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func verifySessionHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IdentityQueryServer).VerifySession(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: verifySessionMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(IdentityQueryServer).VerifySession(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// IdentityQueryClient is the caller side of IdentityQueryServiceDesc.
type IdentityQueryClient struct {
	cc grpc.ClientConnInterface
}

func NewIdentityQueryClient(cc grpc.ClientConnInterface) *IdentityQueryClient {
	return &IdentityQueryClient{cc: cc}
}

func (c *IdentityQueryClient) GetUser(ctx context.Context, id string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getUserMethod, wrapperspb.String(id), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *IdentityQueryClient) VerifySession(ctx context.Context, token string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, verifySessionMethod, wrapperspb.String(token), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (model.User, error)
}

type SessionVerifier interface {
	Verify(token string) (auth.Identity, error)
}

type IdentityServer struct {
	users    UserLookup
	verifier SessionVerifier
	logger   *slog.Logger
}

func NewIdentityServer(users UserLookup, verifier SessionVerifier, logger *slog.Logger) *IdentityServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &IdentityServer{users: users, verifier: verifier, logger: logger}
}

func (s *IdentityServer) GetUser(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	id := strings.TrimSpace(req.GetValue())
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "user id is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, status.Error(codes.InvalidArgument, "invalid user id")
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, status.Error(codes.NotFound, "user not found")
		}
		s.logger.Error("identity lookup failed", "user_id", id, "error", err)
		return nil, status.Error(codes.Internal, "failed to load user")
	}

	out, err := structpb.NewStruct(map[string]interface{}{
		"id":        user.ID,
		"name":      user.Name,
		"email":     user.Email,
		"role":      user.Role.String(),
		"createdAt": user.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to encode user")
	}
	return out, nil
}

// VerifySession answers Unauthenticated for every rejected token without
// saying why.
func (s *IdentityServer) VerifySession(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	identity, err := s.verifier.Verify(strings.TrimSpace(req.GetValue()))
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid_session")
	}
	out, err := structpb.NewStruct(map[string]interface{}{
		"id":    identity.UserID,
		"role":  identity.Role.String(),
		"email": identity.Email,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to encode session")
	}
	return out, nil
}

// NewServer builds a gRPC server with the identity service registered behind
// the service token interceptor.
func NewServer(users UserLookup, verifier SessionVerifier, serviceToken string, logger *slog.Logger) (*grpc.Server, error) {
	interceptor, err := NewServiceAuthUnaryInterceptor(serviceToken)
	if err != nil {
		return nil, err
	}
	server := grpc.NewServer(grpc.UnaryInterceptor(interceptor))
	RegisterIdentityQueryServer(server, NewIdentityServer(users, verifier, logger))
	return server, nil
}
