package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Every TelemetryService message is a google.protobuf.Struct holding the same JSON body
// the HTTP API takes.
const ServiceName = "iotdashboard.v1.TelemetryService"

const (
	MethodIngestTelemetry    = "/" + ServiceName + "/IngestTelemetry"
	MethodGetPendingCommands = "/" + ServiceName + "/GetPendingCommands"
	MethodAcknowledgeCommand = "/" + ServiceName + "/AcknowledgeCommand"
	MethodPushSensorReading  = "/" + ServiceName + "/PushSensorReading"
)

type TelemetryServiceServer interface {
	IngestTelemetry(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetPendingCommands(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	AcknowledgeCommand(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	PushSensorReading(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(srv TelemetryServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryCall) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TelemetryServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(TelemetryServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var TelemetryServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TelemetryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "IngestTelemetry",
			Handler: unaryHandler(MethodIngestTelemetry, func(srv TelemetryServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
				return srv.IngestTelemetry(ctx, req)
			}),
		},
		{
			MethodName: "GetPendingCommands",
			Handler: unaryHandler(MethodGetPendingCommands, func(srv TelemetryServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
				return srv.GetPendingCommands(ctx, req)
			}),
		},
		{
			MethodName: "AcknowledgeCommand",
			Handler: unaryHandler(MethodAcknowledgeCommand, func(srv TelemetryServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
				return srv.AcknowledgeCommand(ctx, req)
			}),
		},
		{
			MethodName: "PushSensorReading",
			Handler: unaryHandler(MethodPushSensorReading, func(srv TelemetryServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
				return srv.PushSensorReading(ctx, req)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "iotdashboard/v1/telemetry.proto",
}

func RegisterTelemetryServiceServer(s grpc.ServiceRegistrar, srv TelemetryServiceServer) {
	s.RegisterService(&TelemetryServiceDesc, srv)
}

type TelemetryServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewTelemetryServiceClient(cc grpc.ClientConnInterface) *TelemetryServiceClient {
	return &TelemetryServiceClient{cc: cc}
}

func (c *TelemetryServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *TelemetryServiceClient) IngestTelemetry(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodIngestTelemetry, in, opts...)
}

func (c *TelemetryServiceClient) GetPendingCommands(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodGetPendingCommands, in, opts...)
}

func (c *TelemetryServiceClient) AcknowledgeCommand(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodAcknowledgeCommand, in, opts...)
}

func (c *TelemetryServiceClient) PushSensorReading(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodPushSensorReading, in, opts...)
}
