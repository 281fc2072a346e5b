package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "payoff.v1.PayoffService"

const (
	getPayoffPlanMethod        = "/" + ServiceName + "/GetPayoffPlan"
	comparePayoffMethodsMethod = "/" + ServiceName + "/ComparePayoffMethods"
)

// PayoffServiceServer is the server API for payoff.v1.PayoffService.
// Messages are google.protobuf.Struct so any gRPC client can call the
// service without generated stubs.
type PayoffServiceServer interface {
	GetPayoffPlan(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ComparePayoffMethods(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterPayoffServiceServer registers srv on s
func RegisterPayoffServiceServer(s grpc.ServiceRegistrar, srv PayoffServiceServer) {
	s.RegisterService(&payoffServiceDesc, srv)
}

var payoffServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PayoffServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetPayoffPlan", Handler: getPayoffPlanHandler},
		{MethodName: "ComparePayoffMethods", Handler: comparePayoffMethodsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "payoff/v1/payoff.proto",
}

func getPayoffPlanHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PayoffServiceServer).GetPayoffPlan(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getPayoffPlanMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PayoffServiceServer).GetPayoffPlan(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func comparePayoffMethodsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PayoffServiceServer).ComparePayoffMethods(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: comparePayoffMethodsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PayoffServiceServer).ComparePayoffMethods(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// PayoffServiceClient calls payoff.v1.PayoffService
type PayoffServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewPayoffServiceClient(cc grpc.ClientConnInterface) *PayoffServiceClient {
	return &PayoffServiceClient{cc: cc}
}

func (c *PayoffServiceClient) GetPayoffPlan(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getPayoffPlanMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *PayoffServiceClient) ComparePayoffMethods(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, comparePayoffMethodsMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
