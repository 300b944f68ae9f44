package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// ServiceName is the fully-qualified gRPC service name
const ServiceName = "ledger.v1.LedgerService"

// LedgerServiceServer is the server API for the ledger service
type LedgerServiceServer interface {
	Deposit(context.Context, *AccountAmountRequest) (*Entry, error)
	Withdraw(context.Context, *AccountAmountRequest) (*Entry, error)
	Transfer(context.Context, *TransferRequest) (*TransferResponse, error)
	GetBalance(context.Context, *AccountRequest) (*BalanceResponse, error)
	ListTransactions(context.Context, *ListTransactionsRequest) (*ListTransactionsResponse, error)
	GetSummary(context.Context, *AccountRequest) (*SummaryResponse, error)
}

// unary adapts a typed method to a grpc method handler, running interceptors.
// Requests and responses cross the wire as ledger.proto messages.
func unary[Req, Resp any, PReq wireMessage[Req], PResp wireMessage[Resp]](
	method string,
	call func(LedgerServiceServer, context.Context, PReq) (PResp, error),
) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := "/" + ServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		md := methodDescriptor(method)
		wire := dynamicpb.NewMessage(md.Input())
		if err := dec(wire); err != nil {
			return nil, err
		}
		in := PReq(new(Req))
		in.unmarshalFrom(wire)

		handler := func(ctx context.Context, req any) (any, error) {
			resp, err := call(srv.(LedgerServiceServer), ctx, req.(PReq))
			if err != nil {
				return nil, err
			}
			out := dynamicpb.NewMessage(md.Output())
			resp.marshalTo(out)
			return out, nil
		}
		if interceptor == nil {
			return handler(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, handler)
	}
}

// LedgerServiceDesc describes the ledger service for grpc.Server.RegisterService
var LedgerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LedgerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Deposit", Handler: unary("Deposit", LedgerServiceServer.Deposit)},
		{MethodName: "Withdraw", Handler: unary("Withdraw", LedgerServiceServer.Withdraw)},
		{MethodName: "Transfer", Handler: unary("Transfer", LedgerServiceServer.Transfer)},
		{MethodName: "GetBalance", Handler: unary("GetBalance", LedgerServiceServer.GetBalance)},
		{MethodName: "ListTransactions", Handler: unary("ListTransactions", LedgerServiceServer.ListTransactions)},
		{MethodName: "GetSummary", Handler: unary("GetSummary", LedgerServiceServer.GetSummary)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: ProtoPath,
}

// RegisterLedgerServiceServer registers srv on s
func RegisterLedgerServiceServer(s grpc.ServiceRegistrar, srv LedgerServiceServer) {
	s.RegisterService(&LedgerServiceDesc, srv)
}

// LedgerServiceClient is the client API for the ledger service
type LedgerServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewLedgerServiceClient creates a client for the ledger service
func NewLedgerServiceClient(cc grpc.ClientConnInterface) *LedgerServiceClient {
	return &LedgerServiceClient{cc: cc}
}

func invoke[Resp any, PResp wireMessage[Resp]](
	ctx context.Context,
	c *LedgerServiceClient,
	method string,
	in interface{ marshalTo(protoreflect.Message) },
	opts []grpc.CallOption,
) (PResp, error) {
	md := methodDescriptor(method)
	req := dynamicpb.NewMessage(md.Input())
	in.marshalTo(req)

	wire := dynamicpb.NewMessage(md.Output())
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, req, wire, opts...); err != nil {
		return nil, err
	}
	out := PResp(new(Resp))
	out.unmarshalFrom(wire)
	return out, nil
}

func (c *LedgerServiceClient) Deposit(ctx context.Context, in *AccountAmountRequest, opts ...grpc.CallOption) (*Entry, error) {
	return invoke[Entry](ctx, c, "Deposit", in, opts)
}

func (c *LedgerServiceClient) Withdraw(ctx context.Context, in *AccountAmountRequest, opts ...grpc.CallOption) (*Entry, error) {
	return invoke[Entry](ctx, c, "Withdraw", in, opts)
}

// Transfer forwards an idempotency key set as IdempotencyKeyMetadata in the
// outgoing context metadata
func (c *LedgerServiceClient) Transfer(ctx context.Context, in *TransferRequest, opts ...grpc.CallOption) (*TransferResponse, error) {
	return invoke[TransferResponse](ctx, c, "Transfer", in, opts)
}

func (c *LedgerServiceClient) GetBalance(ctx context.Context, in *AccountRequest, opts ...grpc.CallOption) (*BalanceResponse, error) {
	return invoke[BalanceResponse](ctx, c, "GetBalance", in, opts)
}

func (c *LedgerServiceClient) ListTransactions(ctx context.Context, in *ListTransactionsRequest, opts ...grpc.CallOption) (*ListTransactionsResponse, error) {
	return invoke[ListTransactionsResponse](ctx, c, "ListTransactions", in, opts)
}

func (c *LedgerServiceClient) GetSummary(ctx context.Context, in *AccountRequest, opts ...grpc.CallOption) (*SummaryResponse, error) {
	return invoke[SummaryResponse](ctx, c, "GetSummary", in, opts)
}
