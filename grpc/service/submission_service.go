package service

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/TheFungusAmongUs/GeoBot/model"
)

const (
	ServiceName = "geobot.SubmissionQuery"

	GetSubmissionMethod = "/" + ServiceName + "/GetSubmission"
	ListByAuthorMethod  = "/" + ServiceName + "/ListByAuthor"
)

// SubmissionQueryServer is the read-only query API. Requests and replies
// are Struct messages:
//
//	GetSubmission {"id": "..."}        -> submission
//	ListByAuthor  {"author_id": "..."} -> {"submissions": [...]}
type SubmissionQueryServer interface {
	GetSubmission(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListByAuthor(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// SubmissionFinder is the part of the store set the service reads from.
type SubmissionFinder interface {
	Get(id string) (*model.Submission, bool)
	FindByAuthor(authorID string) []*model.Submission
}

// SubmissionServiceImpl implements SubmissionQueryServer over the stores.
type SubmissionServiceImpl struct {
	finder            SubmissionFinder
	guildID           string
	approvalChannelID string
}

// NewSubmissionService creates a new instance of SubmissionServiceImpl
func NewSubmissionService(finder SubmissionFinder, guildID, approvalChannelID string) *SubmissionServiceImpl {
	return &SubmissionServiceImpl{finder: finder, guildID: guildID, approvalChannelID: approvalChannelID}
}

// GetSubmission retrieves a single submission by id
func (s *SubmissionServiceImpl) GetSubmission(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := ctx.Err(); err != nil {
		return nil, status.FromContextError(err).Err()
	}
	id := stringField(req, "id")
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "id must not be empty")
	}

	sub, ok := s.finder.Get(id)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "submission %s not found", id)
	}

	out, err := SubmissionToStruct(sub, s.guildID, s.approvalChannelID)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "converting submission: %v", err)
	}
	return out, nil
}

// ListByAuthor retrieves every submission of one author in store order
func (s *SubmissionServiceImpl) ListByAuthor(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := ctx.Err(); err != nil {
		return nil, status.FromContextError(err).Err()
	}
	authorID := stringField(req, "author_id")
	if authorID == "" {
		return nil, status.Error(codes.InvalidArgument, "author_id must not be empty")
	}

	list, err := SubmissionsToList(s.finder.FindByAuthor(authorID), s.guildID, s.approvalChannelID)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "converting submissions: %v", err)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"submissions": structpb.NewListValue(list),
	}}, nil
}

func stringField(s *structpb.Struct, name string) string {
	if s == nil {
		return ""
	}
	return s.GetFields()[name].GetStringValue()
}

// RegisterSubmissionQueryServer registers srv on a gRPC server.
func RegisterSubmissionQueryServer(r grpc.ServiceRegistrar, srv SubmissionQueryServer) {
	r.RegisterService(&SubmissionQueryServiceDesc, srv)
}

var SubmissionQueryServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SubmissionQueryServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetSubmission",
			Handler: unaryHandler(GetSubmissionMethod, func(srv SubmissionQueryServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
				return srv.GetSubmission(ctx, req)
			}),
		},
		{
			MethodName: "ListByAuthor",
			Handler: unaryHandler(ListByAuthorMethod, func(srv SubmissionQueryServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
				return srv.ListByAuthor(ctx, req)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "geobot/submission_query",
}

type unaryMethod func(srv SubmissionQueryServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		impl := srv.(SubmissionQueryServer)
		if interceptor == nil {
			return call(impl, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(impl, ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
