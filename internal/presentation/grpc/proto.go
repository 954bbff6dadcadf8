package grpc

// proto.go hand-writes the service descriptor for cuotakiwi.quote.v1.QuoteService.
// Messages are the application DTOs carried by the JSON codec.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cuotakiwi/quote-service/internal/application/dto"
)

const serviceName = "cuotakiwi.quote.v1.QuoteService"

// Full method names.
const (
	MethodRequestQuote          = "/" + serviceName + "/RequestQuote"
	MethodAdjustRequestedAmount = "/" + serviceName + "/AdjustRequestedAmount"
	MethodSelectOption          = "/" + serviceName + "/SelectOption"
	MethodResetQuote            = "/" + serviceName + "/ResetQuote"
	MethodRenderQuoteSheet      = "/" + serviceName + "/RenderQuoteSheet"
)

// QuoteServiceServer is the server API for QuoteService.
type QuoteServiceServer interface {
	RequestQuote(context.Context, *dto.RequestQuoteRequest) (*dto.QuoteStateResponse, error)
	AdjustRequestedAmount(context.Context, *dto.AdjustRequestedAmountRequest) (*dto.QuoteStateResponse, error)
	SelectOption(context.Context, *dto.SelectOptionRequest) (*dto.QuoteStateResponse, error)
	ResetQuote(context.Context, *dto.ResetQuoteRequest) (*dto.QuoteStateResponse, error)
	RenderQuoteSheet(context.Context, *dto.RenderQuoteSheetRequest) (*dto.QuoteSheetResponse, error)
	mustEmbedUnimplementedQuoteServiceServer()
}

// UnimplementedQuoteServiceServer provides forward-compatible default implementations.
type UnimplementedQuoteServiceServer struct{}

func (UnimplementedQuoteServiceServer) RequestQuote(context.Context, *dto.RequestQuoteRequest) (*dto.QuoteStateResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RequestQuote not implemented")
}
func (UnimplementedQuoteServiceServer) AdjustRequestedAmount(context.Context, *dto.AdjustRequestedAmountRequest) (*dto.QuoteStateResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AdjustRequestedAmount not implemented")
}
func (UnimplementedQuoteServiceServer) SelectOption(context.Context, *dto.SelectOptionRequest) (*dto.QuoteStateResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SelectOption not implemented")
}
func (UnimplementedQuoteServiceServer) ResetQuote(context.Context, *dto.ResetQuoteRequest) (*dto.QuoteStateResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ResetQuote not implemented")
}
func (UnimplementedQuoteServiceServer) RenderQuoteSheet(context.Context, *dto.RenderQuoteSheetRequest) (*dto.QuoteSheetResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RenderQuoteSheet not implemented")
}
func (UnimplementedQuoteServiceServer) mustEmbedUnimplementedQuoteServiceServer() {}

// RegisterQuoteServiceServer registers the QuoteServiceServer with the gRPC server.
func RegisterQuoteServiceServer(s grpclib.ServiceRegistrar, srv QuoteServiceServer) {
	s.RegisterService(&quoteServiceDesc, srv)
}

var quoteServiceDesc = grpclib.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*QuoteServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "RequestQuote", Handler: unaryHandler(MethodRequestQuote, QuoteServiceServer.RequestQuote)},
		{MethodName: "AdjustRequestedAmount", Handler: unaryHandler(MethodAdjustRequestedAmount, QuoteServiceServer.AdjustRequestedAmount)},
		{MethodName: "SelectOption", Handler: unaryHandler(MethodSelectOption, QuoteServiceServer.SelectOption)},
		{MethodName: "ResetQuote", Handler: unaryHandler(MethodResetQuote, QuoteServiceServer.ResetQuote)},
		{MethodName: "RenderQuoteSheet", Handler: unaryHandler(MethodRenderQuoteSheet, QuoteServiceServer.RenderQuoteSheet)},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "cuotakiwi/quote/v1/quote.proto",
}

// unaryHandler adapts a typed server method to a grpc.MethodDesc handler.
func unaryHandler[Req, Resp any](
	fullMethod string,
	call func(QuoteServiceServer, context.Context, *Req) (*Resp, error),
) func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(QuoteServiceServer), ctx, in)
		}
		info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(QuoteServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// QuoteServiceClient is the client API for QuoteService. Calls use the JSON
// codec.
type QuoteServiceClient struct {
	cc grpclib.ClientConnInterface
}

func NewQuoteServiceClient(cc grpclib.ClientConnInterface) *QuoteServiceClient {
	return &QuoteServiceClient{cc: cc}
}

func (c *QuoteServiceClient) RequestQuote(ctx context.Context, in *dto.RequestQuoteRequest, opts ...grpclib.CallOption) (*dto.QuoteStateResponse, error) {
	out := new(dto.QuoteStateResponse)
	return out, c.invoke(ctx, MethodRequestQuote, in, out, opts)
}

func (c *QuoteServiceClient) AdjustRequestedAmount(ctx context.Context, in *dto.AdjustRequestedAmountRequest, opts ...grpclib.CallOption) (*dto.QuoteStateResponse, error) {
	out := new(dto.QuoteStateResponse)
	return out, c.invoke(ctx, MethodAdjustRequestedAmount, in, out, opts)
}

func (c *QuoteServiceClient) SelectOption(ctx context.Context, in *dto.SelectOptionRequest, opts ...grpclib.CallOption) (*dto.QuoteStateResponse, error) {
	out := new(dto.QuoteStateResponse)
	return out, c.invoke(ctx, MethodSelectOption, in, out, opts)
}

func (c *QuoteServiceClient) ResetQuote(ctx context.Context, in *dto.ResetQuoteRequest, opts ...grpclib.CallOption) (*dto.QuoteStateResponse, error) {
	out := new(dto.QuoteStateResponse)
	return out, c.invoke(ctx, MethodResetQuote, in, out, opts)
}

func (c *QuoteServiceClient) RenderQuoteSheet(ctx context.Context, in *dto.RenderQuoteSheetRequest, opts ...grpclib.CallOption) (*dto.QuoteSheetResponse, error) {
	out := new(dto.QuoteSheetResponse)
	return out, c.invoke(ctx, MethodRenderQuoteSheet, in, out, opts)
}

func (c *QuoteServiceClient) invoke(ctx context.Context, method string, in, out any, opts []grpclib.CallOption) error {
	opts = append([]grpclib.CallOption{grpclib.CallContentSubtype(codecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}
