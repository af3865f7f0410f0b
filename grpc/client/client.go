// Package client is a small client for the submission query service.
package client

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/TheFungusAmongUs/GeoBot/grpc/service"
)

type QueryClient struct {
	conn   *grpc.ClientConn
	health healthpb.HealthClient
}

// NewQueryClient connects lazily to addr without transport security.
func NewQueryClient(addr string, opts ...grpc.DialOption) (*QueryClient, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("创建 gRPC 客户端失败: %w", err)
	}
	return &QueryClient{conn: conn, health: healthpb.NewHealthClient(conn)}, nil
}

func (c *QueryClient) GetSubmission(ctx context.Context, id string) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, service.GetSubmissionMethod, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByAuthor returns the author's submissions in store order.
func (c *QueryClient) ListByAuthor(ctx context.Context, authorID string) ([]*structpb.Struct, error) {
	req, err := structpb.NewStruct(map[string]any{"author_id": authorID})
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, service.ListByAuthorMethod, req, out); err != nil {
		return nil, err
	}

	var subs []*structpb.Struct
	for _, v := range out.GetFields()["submissions"].GetListValue().GetValues() {
		if s := v.GetStructValue(); s != nil {
			subs = append(subs, s)
		}
	}
	return subs, nil
}

// Serving reports whether the query service is marked SERVING.
func (c *QueryClient) Serving(ctx context.Context) (bool, error) {
	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{Service: service.ServiceName})
	if err != nil {
		return false, err
	}
	return resp.GetStatus() == healthpb.HealthCheckResponse_SERVING, nil
}

func (c *QueryClient) Close() error {
	return c.conn.Close()
}
