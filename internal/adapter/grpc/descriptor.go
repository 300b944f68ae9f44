package grpc

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ProtoPath is the import path ledger.proto is registered under
const ProtoPath = "ledger/v1/ledger.proto"

// File describes proto/ledger/v1/ledger.proto. It is registered with
// protoregistry.GlobalFiles so server reflection can serve it.
var File = registerLedgerFile()

func registerLedgerFile() protoreflect.FileDescriptor {
	fd, err := protodesc.NewFile(ledgerFileProto(), protoregistry.GlobalFiles)
	if err != nil {
		panic(fmt.Sprintf("build %s: %v", ProtoPath, err))
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic(fmt.Sprintf("register %s: %v", ProtoPath, err))
	}
	return fd
}

// methodDescriptor returns the LedgerService method with the given name
func methodDescriptor(method string) protoreflect.MethodDescriptor {
	md := File.Services().ByName(serviceName).Methods().ByName(protoreflect.Name(method))
	if md == nil {
		panic(fmt.Sprintf("%s has no method %s", ServiceName, method))
	}
	return md
}

const (
	serviceName = "LedgerService"

	typeTimestamp  = ".google.protobuf.Timestamp"
	typeInt32Value = ".google.protobuf.Int32Value"
)

// ledgerFileProto mirrors proto/ledger/v1/ledger.proto field for field
func ledgerFileProto() *descriptorpb.FileDescriptorProto {
	str := descriptorpb.FieldDescriptorProto_TYPE_STRING
	i64 := descriptorpb.FieldDescriptorProto_TYPE_INT64
	i32 := descriptorpb.FieldDescriptorProto_TYPE_INT32
	boolean := descriptorpb.FieldDescriptorProto_TYPE_BOOL

	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String(ProtoPath),
		Package: proto.String("ledger.v1"),
		Syntax:  proto.String("proto3"),
		Dependency: []string{
			timestamppb.File_google_protobuf_timestamp_proto.Path(),
			wrapperspb.File_google_protobuf_wrappers_proto.Path(),
		},
		Options: &descriptorpb.FileOptions{
			GoPackage: proto.String("github.com/simaogato/ledger-engine/internal/adapter/grpc"),
		},
		MessageType: []*descriptorpb.DescriptorProto{
			message("AccountAmountRequest",
				scalar("account_id", 1, str),
				scalar("amount", 2, str),
			),
			message("TransferRequest",
				scalar("from_account", 1, str),
				scalar("to_account", 2, str),
				scalar("amount", 3, str),
			),
			message("AccountRequest",
				scalar("account_id", 1, str),
			),
			message("ListTransactionsRequest",
				scalar("account_id", 1, str),
				scalar("limit", 2, i32),
				scalar("cursor", 3, i32),
			),
			message("Entry",
				scalar("tx_id", 1, str),
				scalar("type", 2, str),
				scalar("amount", 3, i64),
				scalar("balance_after", 4, i64),
				embedded("timestamp", 5, typeTimestamp),
			),
			message("TransferResponse",
				scalar("tx_id", 1, str),
				scalar("status", 2, str),
			),
			message("BalanceResponse",
				scalar("account_id", 1, str),
				scalar("balance", 2, i64),
			),
			message("ListTransactionsResponse",
				scalar("account_id", 1, str),
				repeated(embedded("items", 2, ".ledger.v1.Entry")),
				scalar("total_transactions", 3, i32),
				scalar("current_cursor", 4, i32),
				embedded("next_cursor", 5, typeInt32Value),
				scalar("has_more", 6, boolean),
			),
			message("SummaryResponse",
				scalar("account_id", 1, str),
				scalar("balance", 2, i64),
				scalar("daily_transfer_total", 3, i64),
				scalar("daily_transfer_limit", 4, i64),
				scalar("daily_transfer_remaining", 5, i64),
				scalar("transaction_count", 6, i32),
				scalar("rate_limit_remaining", 7, i32),
			),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String(serviceName),
			Method: []*descriptorpb.MethodDescriptorProto{
				rpc("Deposit", "AccountAmountRequest", "Entry"),
				rpc("Withdraw", "AccountAmountRequest", "Entry"),
				rpc("Transfer", "TransferRequest", "TransferResponse"),
				rpc("GetBalance", "AccountRequest", "BalanceResponse"),
				rpc("ListTransactions", "ListTransactionsRequest", "ListTransactionsResponse"),
				rpc("GetSummary", "AccountRequest", "SummaryResponse"),
			},
		}},
	}
}

func message(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{Name: proto.String(name), Field: fields}
}

func scalar(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   typ.Enum(),
	}
}

func embedded(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
	f := scalar(name, number, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE)
	f.TypeName = proto.String(typeName)
	return f
}

func repeated(f *descriptorpb.FieldDescriptorProto) *descriptorpb.FieldDescriptorProto {
	f.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
	return f
}

func rpc(name, input, output string) *descriptorpb.MethodDescriptorProto {
	return &descriptorpb.MethodDescriptorProto{
		Name:       proto.String(name),
		InputType:  proto.String(".ledger.v1." + input),
		OutputType: proto.String(".ledger.v1." + output),
	}
}
