package rpc

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/LeJamon/goMarketd/internal/core/tx"
)

// AppliedEvent is the wire form of a committed transaction on the feed.
type AppliedEvent struct {
	TxType  string   `json:"tx_type"`
	Account string   `json:"account"`
	Result  string   `json:"result"`
	Touched []string `json:"touched"`
}

// Publisher fans applied-transaction events out to websocket subscribers.
// Wire it to the engine via Engine.OnApplied.
type Publisher struct {
	upgrader websocket.Upgrader

	mu   sync.Mutex
	subs map[*websocket.Conn]chan []byte
}

// NewPublisher creates an empty publisher.
func NewPublisher() *Publisher {
	return &Publisher{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		subs: make(map[*websocket.Conn]chan []byte),
	}
}

// ServeHTTP upgrades the connection and streams events until the client
// goes away.
func (p *Publisher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := p.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	// Buffered so a slow client drops events instead of stalling the
	// engine hook.
	ch := make(chan []byte, 64)
	p.mu.Lock()
	p.subs[conn] = ch
	p.mu.Unlock()

	go p.writeLoop(conn, ch)
	p.readLoop(conn)
}

func (p *Publisher) writeLoop(conn *websocket.Conn, ch chan []byte) {
	for msg := range ch {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			p.drop(conn)
			return
		}
	}
}

func (p *Publisher) readLoop(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			p.drop(conn)
			return
		}
	}
}

func (p *Publisher) drop(conn *websocket.Conn) {
	p.mu.Lock()
	ch, ok := p.subs[conn]
	if ok {
		delete(p.subs, conn)
		close(ch)
	}
	p.mu.Unlock()
	conn.Close()
}

// Publish sends an engine event to every subscriber. Called from the
// engine's OnApplied hook, so it never blocks.
func (p *Publisher) Publish(ev tx.Event) {
	touched := make([]string, 0, len(ev.Changes))
	for _, c := range ev.Changes {
		touched = append(touched, c.Keylet.Type.String())
	}
	msg, err := json.Marshal(AppliedEvent{
		TxType:  ev.Type.String(),
		Account: ev.Account.String(),
		Result:  ev.Result.String(),
		Touched: touched,
	})
	if err != nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for conn, ch := range p.subs {
		select {
		case ch <- msg:
		default:
			// Full buffer: the client is too slow, skip this event.
			_ = conn
		}
	}
}
