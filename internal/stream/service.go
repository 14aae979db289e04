// Package stream serves realtime events over a bidirectional gRPC stream.
//
// Frames in both directions are google.protobuf.Struct values. The client
// sends {"type":"authenticate","token":"<jwt>"}; the server sends
// {"type":"<event>","data":{...}}.
package stream

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName   = "couple.v1.Events"
	ConnectMethod = "/" + ServiceName + "/Connect"
)

type EventsServer interface {
	Connect(ConnectServer) error
}

type ConnectServer interface {
	Send(*structpb.Struct) error
	Recv() (*structpb.Struct, error)
	grpc.ServerStream
}

// ServiceDesc describes couple.v1.Events for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*EventsServer)(nil),
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Connect",
			Handler:       connectHandler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "couple/v1/events.proto",
}

func Register(s grpc.ServiceRegistrar, srv EventsServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func connectHandler(srv any, stream grpc.ServerStream) error {
	return srv.(EventsServer).Connect(&connectServer{stream})
}

type connectServer struct {
	grpc.ServerStream
}

func (x *connectServer) Send(m *structpb.Struct) error { return x.ServerStream.SendMsg(m) }

func (x *connectServer) Recv() (*structpb.Struct, error) {
	m := new(structpb.Struct)
	if err := x.ServerStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

type ConnectClient interface {
	Send(*structpb.Struct) error
	Recv() (*structpb.Struct, error)
	grpc.ClientStream
}

// Connect opens an events stream on cc.
func Connect(ctx context.Context, cc grpc.ClientConnInterface, opts ...grpc.CallOption) (ConnectClient, error) {
	s, err := cc.NewStream(ctx, &ServiceDesc.Streams[0], ConnectMethod, opts...)
	if err != nil {
		return nil, err
	}
	return &connectClient{s}, nil
}

type connectClient struct {
	grpc.ClientStream
}

func (x *connectClient) Send(m *structpb.Struct) error { return x.ClientStream.SendMsg(m) }

func (x *connectClient) Recv() (*structpb.Struct, error) {
	m := new(structpb.Struct)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}
