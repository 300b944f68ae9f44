package grpc

import (
	"time"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// Go-side views of the ledger.proto messages. Each type copies itself to and
// from the registered message of the same name.
// Amounts travel as decimal strings and are parsed server-side.

type AccountAmountRequest struct {
	AccountID string
	Amount    string
}

type TransferRequest struct {
	FromAccount string
	ToAccount   string
	Amount      string
}

type AccountRequest struct {
	AccountID string
}

type ListTransactionsRequest struct {
	AccountID string
	Limit     int32
	Cursor    int32
}

type Entry struct {
	TxID         string
	Type         string
	Amount       int64
	BalanceAfter int64
	Timestamp    time.Time
}

type TransferResponse struct {
	TxID   string
	Status string
}

type BalanceResponse struct {
	AccountID string
	Balance   int64
}

type ListTransactionsResponse struct {
	AccountID         string
	Items             []Entry
	TotalTransactions int32
	CurrentCursor     int32
	NextCursor        *int32
	HasMore           bool
}

type SummaryResponse struct {
	AccountID              string
	Balance                int64
	DailyTransferTotal     int64
	DailyTransferLimit     int64
	DailyTransferRemaining int64
	TransactionCount       int32
	RateLimitRemaining     int32
}

// wireMessage is implemented by *T for every message above
type wireMessage[T any] interface {
	*T
	marshalTo(protoreflect.Message)
	unmarshalFrom(protoreflect.Message)
}

func (r *AccountAmountRequest) marshalTo(m protoreflect.Message) {
	setString(m, "account_id", r.AccountID)
	setString(m, "amount", r.Amount)
}

func (r *AccountAmountRequest) unmarshalFrom(m protoreflect.Message) {
	r.AccountID = getString(m, "account_id")
	r.Amount = getString(m, "amount")
}

func (r *TransferRequest) marshalTo(m protoreflect.Message) {
	setString(m, "from_account", r.FromAccount)
	setString(m, "to_account", r.ToAccount)
	setString(m, "amount", r.Amount)
}

func (r *TransferRequest) unmarshalFrom(m protoreflect.Message) {
	r.FromAccount = getString(m, "from_account")
	r.ToAccount = getString(m, "to_account")
	r.Amount = getString(m, "amount")
}

func (r *AccountRequest) marshalTo(m protoreflect.Message) {
	setString(m, "account_id", r.AccountID)
}

func (r *AccountRequest) unmarshalFrom(m protoreflect.Message) {
	r.AccountID = getString(m, "account_id")
}

func (r *ListTransactionsRequest) marshalTo(m protoreflect.Message) {
	setString(m, "account_id", r.AccountID)
	setInt32(m, "limit", r.Limit)
	setInt32(m, "cursor", r.Cursor)
}

func (r *ListTransactionsRequest) unmarshalFrom(m protoreflect.Message) {
	r.AccountID = getString(m, "account_id")
	r.Limit = getInt32(m, "limit")
	r.Cursor = getInt32(m, "cursor")
}

func (e *Entry) marshalTo(m protoreflect.Message) {
	setString(m, "tx_id", e.TxID)
	setString(m, "type", e.Type)
	setInt64(m, "amount", e.Amount)
	setInt64(m, "balance_after", e.BalanceAfter)
	setTime(m, "timestamp", e.Timestamp)
}

func (e *Entry) unmarshalFrom(m protoreflect.Message) {
	e.TxID = getString(m, "tx_id")
	e.Type = getString(m, "type")
	e.Amount = getInt64(m, "amount")
	e.BalanceAfter = getInt64(m, "balance_after")
	e.Timestamp = getTime(m, "timestamp")
}

func (r *TransferResponse) marshalTo(m protoreflect.Message) {
	setString(m, "tx_id", r.TxID)
	setString(m, "status", r.Status)
}

func (r *TransferResponse) unmarshalFrom(m protoreflect.Message) {
	r.TxID = getString(m, "tx_id")
	r.Status = getString(m, "status")
}

func (r *BalanceResponse) marshalTo(m protoreflect.Message) {
	setString(m, "account_id", r.AccountID)
	setInt64(m, "balance", r.Balance)
}

func (r *BalanceResponse) unmarshalFrom(m protoreflect.Message) {
	r.AccountID = getString(m, "account_id")
	r.Balance = getInt64(m, "balance")
}

func (r *ListTransactionsResponse) marshalTo(m protoreflect.Message) {
	setString(m, "account_id", r.AccountID)
	items := m.Mutable(field(m, "items")).List()
	for i := range r.Items {
		item := items.NewElement()
		r.Items[i].marshalTo(item.Message())
		items.Append(item)
	}
	setInt32(m, "total_transactions", r.TotalTransactions)
	setInt32(m, "current_cursor", r.CurrentCursor)
	if r.NextCursor != nil {
		wrapper := m.Mutable(field(m, "next_cursor")).Message()
		setInt32(wrapper, "value", *r.NextCursor)
	}
	setBool(m, "has_more", r.HasMore)
}

func (r *ListTransactionsResponse) unmarshalFrom(m protoreflect.Message) {
	r.AccountID = getString(m, "account_id")
	items := m.Get(field(m, "items")).List()
	r.Items = make([]Entry, items.Len())
	for i := range r.Items {
		r.Items[i].unmarshalFrom(items.Get(i).Message())
	}
	r.TotalTransactions = getInt32(m, "total_transactions")
	r.CurrentCursor = getInt32(m, "current_cursor")
	r.NextCursor = nil
	if fd := field(m, "next_cursor"); m.Has(fd) {
		next := getInt32(m.Get(fd).Message(), "value")
		r.NextCursor = &next
	}
	r.HasMore = getBool(m, "has_more")
}

func (r *SummaryResponse) marshalTo(m protoreflect.Message) {
	setString(m, "account_id", r.AccountID)
	setInt64(m, "balance", r.Balance)
	setInt64(m, "daily_transfer_total", r.DailyTransferTotal)
	setInt64(m, "daily_transfer_limit", r.DailyTransferLimit)
	setInt64(m, "daily_transfer_remaining", r.DailyTransferRemaining)
	setInt32(m, "transaction_count", r.TransactionCount)
	setInt32(m, "rate_limit_remaining", r.RateLimitRemaining)
}

func (r *SummaryResponse) unmarshalFrom(m protoreflect.Message) {
	r.AccountID = getString(m, "account_id")
	r.Balance = getInt64(m, "balance")
	r.DailyTransferTotal = getInt64(m, "daily_transfer_total")
	r.DailyTransferLimit = getInt64(m, "daily_transfer_limit")
	r.DailyTransferRemaining = getInt64(m, "daily_transfer_remaining")
	r.TransactionCount = getInt32(m, "transaction_count")
	r.RateLimitRemaining = getInt32(m, "rate_limit_remaining")
}

func field(m protoreflect.Message, name protoreflect.Name) protoreflect.FieldDescriptor {
	fd := m.Descriptor().Fields().ByName(name)
	if fd == nil {
		panic("ledger.proto: " + string(m.Descriptor().FullName()) + " has no field " + string(name))
	}
	return fd
}

func setString(m protoreflect.Message, name protoreflect.Name, v string) {
	m.Set(field(m, name), protoreflect.ValueOfString(v))
}

func setInt64(m protoreflect.Message, name protoreflect.Name, v int64) {
	m.Set(field(m, name), protoreflect.ValueOfInt64(v))
}

func setInt32(m protoreflect.Message, name protoreflect.Name, v int32) {
	m.Set(field(m, name), protoreflect.ValueOfInt32(v))
}

func setBool(m protoreflect.Message, name protoreflect.Name, v bool) {
	m.Set(field(m, name), protoreflect.ValueOfBool(v))
}

// setTime writes t as a google.protobuf.Timestamp; the zero time stays unset
func setTime(m protoreflect.Message, name protoreflect.Name, t time.Time) {
	if t.IsZero() {
		return
	}
	ts := m.Mutable(field(m, name)).Message()
	setInt64(ts, "seconds", t.Unix())
	setInt32(ts, "nanos", int32(t.Nanosecond()))
}

func getString(m protoreflect.Message, name protoreflect.Name) string {
	return m.Get(field(m, name)).String()
}

func getInt64(m protoreflect.Message, name protoreflect.Name) int64 {
	return m.Get(field(m, name)).Int()
}

func getInt32(m protoreflect.Message, name protoreflect.Name) int32 {
	return int32(m.Get(field(m, name)).Int())
}

func getBool(m protoreflect.Message, name protoreflect.Name) bool {
	return m.Get(field(m, name)).Bool()
}

func getTime(m protoreflect.Message, name protoreflect.Name) time.Time {
	fd := field(m, name)
	if !m.Has(fd) {
		return time.Time{}
	}
	ts := m.Get(fd).Message()
	return time.Unix(getInt64(ts, "seconds"), int64(getInt32(ts, "nanos"))).UTC()
}
