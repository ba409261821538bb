package rpc

import (
	"encoding/json"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
)

// Request is a marketd JSON-RPC request.
// Format: {"method": "method_name", "params": {...}}
type Request struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response is the envelope every method answers with.
type Response struct {
	Result any    `json:"result,omitempty"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// SubmitParams carries a transaction for the submit method.
type SubmitParams struct {
	TxType string          `json:"tx_type"`
	Tx     json.RawMessage `json:"tx"`
}

// SubmitResult reports the engine's verdict.
type SubmitResult struct {
	EngineResult        string `json:"engine_result"`
	EngineResultCode    int    `json:"engine_result_code"`
	EngineResultMessage string `json:"engine_result_message"`
	Applied             bool   `json:"applied"`
}

// EntryParams addresses a ledger entry. Fields beyond the asset pair are
// method specific: balance wants account+quote, bid wants account, and so on.
type EntryParams struct {
	Account    string `json:"account,omitempty"`
	Quote      string `json:"quote,omitempty"`
	Collection string `json:"collection,omitempty"`
	TokenID    uint64 `json:"token_id,omitempty"`
}

// BalanceResult is the balance method's answer.
type BalanceResult struct {
	Account string `json:"account"`
	Quote   string `json:"quote"`
	Amount  uint64 `json:"amount"`
}

// TokenResult describes a whole asset.
type TokenResult struct {
	Collection  string `json:"collection"`
	TokenID     uint64 `json:"token_id"`
	Owner       string `json:"owner"`
	Approved    string `json:"approved,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// AskResult describes a whole-asset listing.
type AskResult struct {
	Collection string `json:"collection"`
	TokenID    uint64 `json:"token_id"`
	Seller     string `json:"seller"`
	Quote      string `json:"quote"`
	Price      uint64 `json:"price"`
}

// AuctionResult describes a live auction.
type AuctionResult struct {
	Collection   string `json:"collection"`
	TokenID      uint64 `json:"token_id"`
	Seller       string `json:"seller"`
	Quote        string `json:"quote"`
	ReservePrice uint64 `json:"reserve_price"`
	StartTime    int64  `json:"start_time"`
	EndTime      int64  `json:"end_time"`
	Bidder       string `json:"bidder,omitempty"`
	BidAmount    uint64 `json:"bid_amount,omitempty"`
}

// RentalResult describes a lending record.
type RentalResult struct {
	Collection  string `json:"collection"`
	TokenID     uint64 `json:"token_id"`
	Lender      string `json:"lender"`
	Quote       string `json:"quote"`
	PricePerDay uint64 `json:"price_per_day"`
	Renter      string `json:"renter,omitempty"`
	Expiry      int64  `json:"expiry,omitempty"`
}

// FeeInfoResult is the fee_info method's answer.
type FeeInfoResult struct {
	Owner           string `json:"owner"`
	FeeRecipient    string `json:"fee_recipient"`
	ProtocolFeeBps  uint32 `json:"protocol_fee_bps"`
	MinIncrementBps uint32 `json:"min_increment_bps"`
}

// ServerInfoResult is the server_info method's answer.
type ServerInfoResult struct {
	Service string   `json:"service"`
	Version string   `json:"version"`
	Methods []string `json:"methods"`
	TxTypes []string `json:"tx_types"`
}

func optionalAccount(a entry.AccountID) string {
	if a.IsZero() {
		return ""
	}
	return a.String()
}
