// Package server exposes the node reader over gRPC
package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ServiceName = "triedict.v1.NodeReader"

	ResolveNodeMethod   = "/" + ServiceName + "/ResolveNode"
	ReadNodeArrayMethod = "/" + ServiceName + "/ReadNodeArray"
)

// NodeReaderServer is the server API of the NodeReader service.
// Messages are protobuf well-known types, so no generated code is needed.
type NodeReaderServer interface {
	ResolveNode(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)
	ReadNodeArray(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)
}

// NodeReaderServiceDesc describes the NodeReader service for grpc.Server
var NodeReaderServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*NodeReaderServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ResolveNode", Handler: resolveNodeHandler},
		{MethodName: "ReadNodeArray", Handler: readNodeArrayHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "triedict/v1/node_reader.proto",
}

// RegisterNodeReaderServer registers srv on s
func RegisterNodeReaderServer(s grpc.ServiceRegistrar, srv NodeReaderServer) {
	s.RegisterService(&NodeReaderServiceDesc, srv)
}

func resolveNodeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.Int64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeReaderServer).ResolveNode(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ResolveNodeMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NodeReaderServer).ResolveNode(ctx, req.(*wrapperspb.Int64Value))
	}
	return interceptor(ctx, in, info, handler)
}

func readNodeArrayHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.Int64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeReaderServer).ReadNodeArray(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ReadNodeArrayMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NodeReaderServer).ReadNodeArray(ctx, req.(*wrapperspb.Int64Value))
	}
	return interceptor(ctx, in, info, handler)
}

// NodeReaderClient calls the NodeReader service
type NodeReaderClient struct {
	cc grpc.ClientConnInterface
}

// NewNodeReaderClient creates a client over cc
func NewNodeReaderClient(cc grpc.ClientConnInterface) *NodeReaderClient {
	return &NodeReaderClient{cc: cc}
}

func (c *NodeReaderClient) ResolveNode(ctx context.Context, pos int64, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ResolveNodeMethod, wrapperspb.Int64(pos), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *NodeReaderClient) ReadNodeArray(ctx context.Context, pos int64, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ReadNodeArrayMethod, wrapperspb.Int64(pos), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
