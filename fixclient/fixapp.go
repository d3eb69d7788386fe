/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

/*
HOT PATH - Market Data Message Processing Flow

This documents the critical performance path for processing incoming FIX market data.
Each message triggers this sequence; optimizations here have the highest impact.

┌─────────────────────────────────────────────────────────────────────────────┐
│                           NETWORK LAYER                                      │
│                    (ReadLoop reads framed messages off a net.Conn)           │
└─────────────────────────────────────────────────────────────────────────────┘
                                     │
                                     ▼
┌─────────────────────────────────────────────────────────────────────────────┐
│ [1] handleMessage() - fixapp.go                                  ENTRY POINT │
│     • Called once per decoded message                                        │
│     • Type check on MsgType (string comparison)                              │
│     • Routes to handleMarketDataMessage() for W/X message types              │
│     • Cost: ~50ns (header extraction + string compare)                       │
└─────────────────────────────────────────────────────────────────────────────┘
                                     │
                                     ▼
┌─────────────────────────────────────────────────────────────────────────────┐
│ [2] handleMarketDataMessage() - fixapp.go                        COORDINATOR │
│     • Extracts message metadata (symbol, reqId, seqNum)                      │
│     • Calls extractTrades() for parsing                                      │
│     • Calls TradeStore.AddTrades() for storage                               │
│     • Calls storeTradesToDatabase() for persistence (optional)               │
│     • Cost: ~200ns (field extractions) + downstream costs                    │
└─────────────────────────────────────────────────────────────────────────────┘
                                     │
                                     ▼
┌─────────────────────────────────────────────────────────────────────────────┐
│ [3] extractTrades() → extractTradesImproved() - parser.go            PARSER │
│     • Re-serializes the decoded message (Parser.ToBytes)                     │
│     • Calls findEntryBoundaries() to locate all 269= tags                    │
│     • Iterates entries, calls parseTradeFromSegmentFast() for each           │
│     • Cost: O(n*m) where n=entries, m=avg segment length                     │
│     • Allocations: 1 slice for boundaries + 1 slice for trades               │
└─────────────────────────────────────────────────────────────────────────────┘
                                     │
                    ┌────────────────┴────────────────┐
                    ▼                                 ▼
┌──────────────────────────────────┐  ┌──────────────────────────────────────┐
│ [3a] findEntryBoundaries()       │  │ [3b] parseTradeFromSegmentFast()     │
│      parser.go                   │  │      parser.go                       │
│ • strings.Count for pre-alloc    │  │ • Extracts 6 fields per entry        │
│ • strings.Index loop to find all │  │ • Single pass, zero allocations      │
│   "269=" occurrences             │  │ • Cost: ~50-80ns per entry           │
│ • Cost: O(m) where m=msg length  │  │ • Allocations: 0                     │
│ • Allocations: 1 (pre-sized)     │  │                                      │
└──────────────────────────────────┘  └──────────────────────────────────────┘
                                     │
                                     ▼
┌─────────────────────────────────────────────────────────────────────────────┐
│ [4] TradeStore.AddTrades() - tradestore.go                           STORAGE │
│     • Acquires write lock (sync.RWMutex)                                     │
│     • Updates subscription metadata                                          │
│     • Ring buffer insertion: O(1) per trade, zero allocations                │
│     • Cost: ~70ns per trade (dominated by mutex)                             │
│     • Allocations: 0 (ring buffer pre-allocated)                             │
└─────────────────────────────────────────────────────────────────────────────┘
                                     │
                                     ▼
┌─────────────────────────────────────────────────────────────────────────────┐
│ [5] storeTradesToDatabase() - storage.go (OPTIONAL)              PERSISTENCE │
│     • SQLite transaction with batch inserts                                  │
│     • Cost: ~1-10ms depending on batch size and disk                         │
│     • Can be made async to not block hot path                                │
└─────────────────────────────────────────────────────────────────────────────┘

PERFORMANCE CHARACTERISTICS (Apple M4 Pro benchmarks):
┌────────────────────────────────┬───────────┬────────────┬─────────────────┐
│ Operation                      │ Time      │ Allocs     │ Memory          │
├────────────────────────────────┼───────────┼────────────┼─────────────────┤
│ Parse 10 entries               │ 3.3µs     │ 1          │ 80B             │
│ Parse 100 entries              │ 33µs      │ 1          │ 896B            │
│ Store 10 trades (ring buffer)  │ 700ns     │ 0          │ 0B              │
│ Retrieve 100 trades            │ 2.8µs     │ 1          │ 18KB            │
└────────────────────────────────┴───────────┴────────────┴─────────────────┘

OPTIMIZATION NOTES:
• Ring buffer eliminates allocation on eviction (was: slice copy per trade)
• Pre-allocated boundary slice eliminates grow allocations (was: 8 allocs)
• GetRecentTrades uses two-pass to avoid O(n²) prepend (was: 999 allocs)
• Struct fields ordered for memory alignment (time.Time first, bools last)
*/

package fixclient

import (
	"io"
	"log"
	"sync/atomic"
	"time"

	"fixengine/builder"
	"fixengine/constants"
	"fixengine/database"
	"fixengine/message"
	"fixengine/parser"
)

// Config carries the identifying fields every outgoing message needs and
// the portfolio a client trades against. Business-level authentication
// (API key signing) is a counterparty-specific concern layered on top of
// this engine; see builder.BuildLogon's doc comment.
type Config struct {
	SenderCompId string
	TargetCompId string
	PortfolioId  string
	HeartBtInt   string
}

func NewConfig(senderCompId, targetCompId, portfolioId, heartBtInt string) *Config {
	return &Config{
		SenderCompId: senderCompId,
		TargetCompId: targetCompId,
		PortfolioId:  portfolioId,
		HeartBtInt:   heartBtInt,
	}
}

// FixApp is the demo client's application layer: it owns the parser
// (for both building outgoing messages and re-serializing incoming ones
// in the hot trade-extraction path), a transport to write framed
// messages to, and the local order/trade/quote state the REPL commands
// in repl.go and requests.go read and mutate.
type FixApp struct {
	Config *Config
	Parser *parser.Parser
	Delim  byte

	conn io.Writer

	OrderStore *OrderStore
	TradeStore *TradeStore
	Db         *database.MarketDataDb

	outSeqNum int64

	shouldExit    bool
	connected     bool
	lastLogonTime time.Time
}

// NewFixApp wires a FixApp around an already-constructed parser and an
// open transport. conn may be nil for tests that only exercise message
// construction and decoding.
func NewFixApp(config *Config, p *parser.Parser, conn io.Writer, db *database.MarketDataDb) *FixApp {
	return &FixApp{
		Config:     config,
		Parser:     p,
		Delim:      '\x01',
		conn:       conn,
		OrderStore: NewOrderStore(),
		TradeStore: NewTradeStore(10000, ""),
		Db:         db,
	}
}

// Send assigns the next outgoing sequence number, serializes msg and
// writes it to the transport. msg is always freed, whether or not the
// send succeeds, since ownership of its arena allocation ends here.
func (a *FixApp) Send(msg *message.Message) error {
	defer msg.Free()

	seqNum := atomic.AddInt64(&a.outSeqNum, 1)
	if serr := parser.SetInt64(msg.Root, constants.TagMsgSeqNum, seqNum); serr != nil {
		return serr
	}
	raw, perr := a.Parser.ToBytes(msg, a.Delim, 0)
	if perr != nil {
		return perr
	}
	_, err := a.conn.Write(raw)
	return err
}

// Login sends a Logon (A) message. The counterparty's Logon response is
// handled like any other incoming message, via handleMessage.
func (a *FixApp) Login() error {
	msg, err := builder.BuildLogon(a.Parser, a.Config.SenderCompId, a.Config.TargetCompId, a.Config.HeartBtInt)
	if err != nil {
		return err
	}
	return a.Send(msg)
}

// ShouldExit reports whether the REPL loop should stop, set when a
// disconnect happens shortly after logon (a likely authentication
// failure rather than a transient network blip).
func (a *FixApp) ShouldExit() bool {
	return a.shouldExit
}

// onDisconnect mirrors the teacher's OnLogout reconnection guard: if the
// session drops within 5 seconds of logging on, treat it as a rejected
// Logon rather than retry forever.
func (a *FixApp) onDisconnect(err error) {
	log.Printf("Disconnected: %v", err)
	a.connected = false

	timeSinceLogon := time.Since(a.lastLogonTime)
	if a.lastLogonTime.IsZero() || timeSinceLogon < 5*time.Second {
		log.Printf("Authentication failed. Exiting to prevent reconnection loop.")
		a.shouldExit = true
	}
}

func (a *FixApp) onLogon() {
	a.lastLogonTime = time.Now()
	a.connected = true
	log.Println("FIX logon acknowledged")
	a.displayConnectionSuccess()
	a.displayHelp()
}

// handleMessage is the entry point for every decoded application or
// session message.
// HOT PATH [1]: Called once per message read off the wire.
func (a *FixApp) handleMessage(msg *message.Message) {
	msgType := optStr(msg.Root, constants.TagMsgType)

	switch msgType {
	case constants.MsgTypeLogon:
		a.onLogon()
	case constants.MsgTypeMarketDataSnapshot, constants.MsgTypeMarketDataIncremental:
		a.handleMarketDataMessage(msg) // HOT PATH continues
	case constants.MsgTypeMarketDataReject:
		a.handleMarketDataReject(msg)
	case constants.MsgTypeExecutionReport:
		er := parseExecutionReport(msg.Root)
		a.OrderStore.UpdateOrderFromExecReport(er)
		a.displayExecutionReport(er)
	case constants.MsgTypeOrderCancelReject:
		a.displayOrderCancelReject(parseOrderCancelReject(msg.Root))
	case constants.MsgTypeQuote:
		quote := parseQuote(msg.Root)
		a.OrderStore.AddQuote(quote)
		a.displayQuote(quote)
	case constants.MsgTypeQuoteAcknowledgement:
		a.displayQuoteAck(parseQuoteAck(msg.Root))
	case constants.MsgTypeReject:
		a.displaySessionReject(parseSessionReject(msg.Root))
	case constants.MsgTypeBusinessReject:
		a.displayBusinessReject(parseBusinessReject(msg.Root))
	default:
		log.Printf("Received application message type %s", msgType)
	}
}

func (a *FixApp) handleMarketDataReject(msg *message.Message) {
	mdReqId := optStr(msg.Root, constants.TagMdReqId)
	rejReason := optStr(msg.Root, constants.TagMdReqRejReason)
	text := optStr(msg.Root, constants.TagText)

	reasonDesc := getMdReqRejReasonDesc(rejReason)

	a.displayMarketDataReject(mdReqId, rejReason, reasonDesc, text)
	a.TradeStore.RemoveSubscriptionByReqId(mdReqId)
	a.displayMarketDataRejectHelp(rejReason)
}

func getMdReqRejReasonDesc(reason string) string {
	switch reason {
	case constants.MdReqRejReasonUnknownSymbol:
		return "Unknown symbol"
	case constants.MdReqRejReasonDuplicateMdReqId:
		return "Duplicate MdReqId"
	case constants.MdReqRejReasonInsufficientBandwidth:
		return "Insufficient bandwidth"
	case constants.MdReqRejReasonInsufficientPermission:
		return "Insufficient permission"
	case constants.MdReqRejReasonInvalidSubscriptionReqType:
		return "Invalid SubscriptionRequestType"
	case constants.MdReqRejReasonInvalidMarketDepth:
		return "Invalid MarketDepth"
	case constants.MdReqRejReasonUnsupportedMdUpdateType:
		return "Unsupported MdUpdateType"
	case constants.MdReqRejReasonOther:
		return "Other"
	case constants.MdReqRejReasonUnsupportedMdEntryType:
		return "Unsupported MdEntryType"
	default:
		return "Unknown reason"
	}
}

// handleMarketDataMessage processes market data snapshots and incremental updates.
// HOT PATH [2]: Coordinates parsing, storage, and display of market data.
// Performance: ~200ns for metadata extraction + downstream costs.
func (a *FixApp) handleMarketDataMessage(msg *message.Message) {
	// HOT PATH: Extract message metadata - each GetString is a bucket-chain lookup
	msgType := optStr(msg.Root, constants.TagMsgType)
	mdReqId := optStr(msg.Root, constants.TagMdReqId)
	symbol := optStr(msg.Root, constants.TagSymbol)
	noMdEntries := optStr(msg.Root, constants.TagNoMdEntries)
	seqNum := optStr(msg.Root, constants.TagMsgSeqNum)

	isSnapshot := msgType == constants.MsgTypeMarketDataSnapshot
	isIncremental := msgType == constants.MsgTypeMarketDataIncremental

	a.displayMarketDataReceived(msgType, symbol, mdReqId, noMdEntries, seqNum)

	// HOT PATH [3]: Parse raw FIX message into Trade structs
	// Cost: O(n*m) where n=entries, m=message length
	trades := a.extractTrades(msg, symbol, mdReqId, isSnapshot, seqNum)

	// HOT PATH [4]: Store in ring buffer - O(1) per trade, zero allocs
	a.TradeStore.AddTrades(symbol, trades, isSnapshot, mdReqId)

	// HOT PATH [5]: Optional persistence - can block if sync
	// Consider making async for high-throughput scenarios
	a.storeTradesToDatabase(trades, seqNum, isSnapshot)

	// Display is not part of hot path critical section
	if isSnapshot {
		a.displaySnapshotTrades(trades, symbol)
	} else if isIncremental {
		a.displayIncrementalTrades(trades)
	}
}

// optStr reads a string field, treating "not present" as empty rather
// than an error: most fields this client reads off incoming messages
// are conditional.
func optStr(g *message.Group, tag int) string {
	v, err := parser.GetString(g, tag)
	if err != nil {
		return ""
	}
	return v
}
