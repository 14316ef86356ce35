package grpc

import (
	"context"

	"github.com/adhamfakhereldeen/Cyber/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
)

// testClient calls ClinicService methods with plain maps.
type testClient struct {
	conn  grpc.ClientConnInterface
	token string
}

func newTestClient(conn grpc.ClientConnInterface) *testClient {
	return &testClient{conn: conn}
}

// Login authenticates and keeps the access token for later calls.
func (c *testClient) Login(ctx context.Context, username, password string) (map[string]any, error) {
	out, err := c.Call(ctx, MethodLogin, map[string]any{"username": username, "password": password})
	if err != nil {
		return nil, err
	}
	c.token, _ = out["access_token"].(string)
	return out, nil
}

func (c *testClient) SetToken(token string) {
	c.token = token
}

// Call invokes method with req, attaching the access token when one is set.
func (c *testClient) Call(ctx context.Context, method string, req map[string]any) (map[string]any, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, common.AccessTokenHeaderName, c.token)
	}

	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, FullMethod(method), in, out); err != nil {
		return nil, err
	}
	return out.AsMap(), nil
}
