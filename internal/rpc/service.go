// Package rpc exposes the cracker over gRPC. Messages are
// google.protobuf.Struct values, so the service needs no generated code.
//
// Request fields:
//   - ciphertext: standard base64 string (Crack, CrackRepeatingKey)
//   - candidates: list of standard base64 strings (Detect)
//   - printable: optional bool (Crack, Detect)
//   - min_key_length, max_key_length: optional numbers (CrackRepeatingKey)
//
// Responses carry found, key and plaintext (base64), plus score for found
// single-byte results and index for Detect.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "xorcrack.v1.Cracker"

// Full method names.
const (
	MethodCrack             = "/" + ServiceName + "/Crack"
	MethodDetect            = "/" + ServiceName + "/Detect"
	MethodCrackRepeatingKey = "/" + ServiceName + "/CrackRepeatingKey"
)

// CrackerServer is the server API for the Cracker service.
type CrackerServer interface {
	Crack(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Detect(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CrackRepeatingKey(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes the Cracker service for grpc.Server registration.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CrackerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Crack", Handler: unaryHandler(MethodCrack, CrackerServer.Crack)},
		{MethodName: "Detect", Handler: unaryHandler(MethodDetect, CrackerServer.Detect)},
		{MethodName: "CrackRepeatingKey", Handler: unaryHandler(MethodCrackRepeatingKey, CrackerServer.CrackRepeatingKey)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "xorcrack/v1/cracker.proto",
}

// RegisterCrackerServer registers srv on s.
func RegisterCrackerServer(s grpc.ServiceRegistrar, srv CrackerServer) {
	s.RegisterService(&ServiceDesc, srv)
}

type unaryMethod func(CrackerServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CrackerServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CrackerServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
