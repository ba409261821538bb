// Package rpc exposes the marketplace over HTTP JSON-RPC plus a websocket
// feed of applied transactions.
package rpc

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/LeJamon/goMarketd/internal/core/ledger"
	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"

	_ "github.com/LeJamon/goMarketd/internal/core/tx/all"
)

// Version is reported by server_info.
const Version = "0.1.0"

type handler func(params json.RawMessage) (any, error)

// Server handles HTTP JSON-RPC requests against the market engine.
type Server struct {
	engine  *tx.Engine
	state   ledger.View
	methods map[string]handler
}

// NewServer wires the RPC methods to an engine and its backing state.
func NewServer(engine *tx.Engine, state ledger.View) *Server {
	s := &Server{
		engine: engine,
		state:  state,
	}
	s.methods = map[string]handler{
		"submit":      s.submit,
		"balance":     s.balance,
		"token":       s.token,
		"ask":         s.ask,
		"auction":     s.auctionEntry,
		"rental":      s.rentalEntry,
		"fee_info":    s.feeInfo,
		"server_info": s.serverInfo,
	}
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, "failed to read request body")
		return
	}
	defer r.Body.Close()

	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, "invalid JSON: "+err.Error())
		return
	}
	if req.Method == "" {
		writeError(w, "missing method field")
		return
	}

	h, ok := s.methods[req.Method]
	if !ok {
		writeError(w, fmt.Sprintf("unknown method %q", req.Method))
		return
	}
	result, err := h(req.Params)
	if err != nil {
		writeError(w, err.Error())
		return
	}
	writeJSON(w, Response{Result: result, Status: "success"})
}

func writeJSON(w http.ResponseWriter, resp Response) {
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeError(w http.ResponseWriter, msg string) {
	writeJSON(w, Response{Status: "error", Error: msg})
}

func (s *Server) submit(params json.RawMessage) (any, error) {
	var p SubmitParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid submit params: %w", err)
	}
	txType, ok := tx.TypeFromName(p.TxType)
	if !ok {
		return nil, fmt.Errorf("unknown transaction type %q", p.TxType)
	}
	t, err := tx.New(txType)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(p.Tx, t); err != nil {
		return nil, fmt.Errorf("invalid %s transaction: %w", p.TxType, err)
	}

	res := s.engine.Apply(t)
	return SubmitResult{
		EngineResult:        res.String(),
		EngineResultCode:    int(res),
		EngineResultMessage: res.Message(),
		Applied:             res.Success(),
	}, nil
}

func parseEntryParams(params json.RawMessage) (*EntryParams, error) {
	var p EntryParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}
	return &p, nil
}

func (s *Server) readEntry(k keylet.Keylet) ([]byte, error) {
	data, err := s.state.Read(k)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("entry not found")
	}
	return data, nil
}

func (s *Server) balance(params json.RawMessage) (any, error) {
	p, err := parseEntryParams(params)
	if err != nil {
		return nil, err
	}
	account, err := entry.DecodeAccountID(p.Account)
	if err != nil {
		return nil, fmt.Errorf("account: %w", err)
	}
	quote, err := entry.DecodeAccountID(p.Quote)
	if err != nil {
		return nil, fmt.Errorf("quote: %w", err)
	}

	result := BalanceResult{Account: p.Account, Quote: p.Quote}
	data, err := s.state.Read(keylet.Balance(account, quote))
	if err != nil {
		return nil, err
	}
	if data != nil {
		bal, err := entry.ParseBalance(data)
		if err != nil {
			return nil, err
		}
		result.Amount = bal.Amount
	}
	return result, nil
}

func (s *Server) token(params json.RawMessage) (any, error) {
	p, err := parseEntryParams(params)
	if err != nil {
		return nil, err
	}
	collection, err := entry.DecodeAccountID(p.Collection)
	if err != nil {
		return nil, fmt.Errorf("collection: %w", err)
	}
	data, err := s.readEntry(keylet.Token(collection, p.TokenID))
	if err != nil {
		return nil, err
	}
	token, err := entry.ParseToken(data)
	if err != nil {
		return nil, err
	}
	return TokenResult{
		Collection:  p.Collection,
		TokenID:     p.TokenID,
		Owner:       token.Owner.String(),
		Approved:    optionalAccount(token.Approved),
		Fingerprint: hex.EncodeToString(token.Fingerprint),
	}, nil
}

func (s *Server) ask(params json.RawMessage) (any, error) {
	p, err := parseEntryParams(params)
	if err != nil {
		return nil, err
	}
	collection, err := entry.DecodeAccountID(p.Collection)
	if err != nil {
		return nil, fmt.Errorf("collection: %w", err)
	}
	data, err := s.readEntry(keylet.Ask(collection, p.TokenID))
	if err != nil {
		return nil, err
	}
	ask, err := entry.ParseAsk(data)
	if err != nil {
		return nil, err
	}
	return AskResult{
		Collection: p.Collection,
		TokenID:    p.TokenID,
		Seller:     ask.Seller.String(),
		Quote:      ask.Quote.String(),
		Price:      ask.Price,
	}, nil
}

func (s *Server) auctionEntry(params json.RawMessage) (any, error) {
	p, err := parseEntryParams(params)
	if err != nil {
		return nil, err
	}
	collection, err := entry.DecodeAccountID(p.Collection)
	if err != nil {
		return nil, fmt.Errorf("collection: %w", err)
	}
	data, err := s.readEntry(keylet.Auction(collection, p.TokenID))
	if err != nil {
		return nil, err
	}
	auction, err := entry.ParseAuction(data)
	if err != nil {
		return nil, err
	}
	return AuctionResult{
		Collection:   p.Collection,
		TokenID:      p.TokenID,
		Seller:       auction.Seller.String(),
		Quote:        auction.Quote.String(),
		ReservePrice: auction.ReservePrice,
		StartTime:    auction.StartTime,
		EndTime:      auction.EndTime,
		Bidder:       optionalAccount(auction.Bidder),
		BidAmount:    auction.BidAmount,
	}, nil
}

func (s *Server) rentalEntry(params json.RawMessage) (any, error) {
	p, err := parseEntryParams(params)
	if err != nil {
		return nil, err
	}
	collection, err := entry.DecodeAccountID(p.Collection)
	if err != nil {
		return nil, fmt.Errorf("collection: %w", err)
	}
	data, err := s.readEntry(keylet.Rental(collection, p.TokenID))
	if err != nil {
		return nil, err
	}
	rental, err := entry.ParseRental(data)
	if err != nil {
		return nil, err
	}
	return RentalResult{
		Collection:  p.Collection,
		TokenID:     p.TokenID,
		Lender:      rental.Lender.String(),
		Quote:       rental.Quote.String(),
		PricePerDay: rental.PricePerDay,
		Renter:      optionalAccount(rental.Renter),
		Expiry:      rental.Expiry,
	}, nil
}

func (s *Server) feeInfo(json.RawMessage) (any, error) {
	data, err := s.state.Read(keylet.FeeConfig())
	if err != nil {
		return nil, err
	}
	result := FeeInfoResult{}
	if data != nil {
		cfg, err := entry.ParseFeeConfig(data)
		if err != nil {
			return nil, err
		}
		result.Owner = optionalAccount(cfg.Owner)
		result.FeeRecipient = optionalAccount(cfg.FeeRecipient)
		result.ProtocolFeeBps = cfg.ProtocolFeeBps
		result.MinIncrementBps = cfg.MinIncrementBps
	}
	return result, nil
}

func (s *Server) serverInfo(json.RawMessage) (any, error) {
	methods := make([]string, 0, len(s.methods))
	for name := range s.methods {
		methods = append(methods, name)
	}
	sort.Strings(methods)

	types := tx.RegisteredTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return ServerInfoResult{
		Service: "marketd",
		Version: Version,
		Methods: methods,
		TxTypes: names,
	}, nil
}
