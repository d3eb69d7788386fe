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

// Package builder constructs outgoing messages against a *parser.Parser,
// the generalization of the teacher's quickfix.Message-based constructors:
// every BuildX function here used to set fields on a quickfix.Header/Body
// pair, and now sets the same fields on a message.Group through the typed
// setters in fixengine/parser.
package builder

import (
	"time"

	"fixengine/constants"
	"fixengine/message"
	"fixengine/parser"
	"fixengine/protocol"
)

// setter accumulates the first failing SetString call across a sequence of
// field sets, mirroring the fail-fast discipline Parser.fail applies to its
// own last-error slot: callers build a whole message fluently and check the
// error once at the end.
type setter struct {
	g   *message.Group
	err *protocol.Error
}

func (s *setter) set(tag int, value string) {
	if s.err != nil {
		return
	}
	if err := parser.SetString(s.g, tag, value); err != nil {
		s.err = err
	}
}

// setIfNotEmpty sets a field only if the value is non-empty, for the
// conditional fields most message types carry.
func (s *setter) setIfNotEmpty(tag int, value string) {
	if value == "" {
		return
	}
	s.set(tag, value)
}

// buildHeader sets the common identifying fields every outgoing message
// carries. BeginString, MsgType and BodyLength are synthesized later by
// Parser.ToBytes, and MsgSeqNum is assigned by the session layer at send
// time, so neither is set here.
func buildHeader(s *setter, senderCompId, targetCompId string) {
	s.set(constants.TagSenderCompId, senderCompId)
	s.set(constants.TagTargetCompId, targetCompId)
	s.set(constants.TagSendingTime, time.Now().UTC().Format(constants.FixTimeFormat))
}

// --- Logon Message ---

// BuildLogon creates a Logon (A) message. Business-level authentication
// (API key signing) is a counterparty-specific concern layered on top of
// the generic engine and is left to callers that need it; this builder
// only sets the fields the FIX session layer itself defines.
func BuildLogon(p *parser.Parser, senderCompId, targetCompId, heartBtInt string) (*message.Message, *protocol.Error) {
	msg, err := p.NewMessage(constants.MsgTypeLogon)
	if err != nil {
		return nil, err
	}
	s := &setter{g: msg.Root}
	buildHeader(s, senderCompId, targetCompId)
	s.set(constants.TagEncryptMethod, constants.EncryptMethodNone)
	s.setIfNotEmpty(constants.TagHeartBtInt, heartBtInt)
	if s.err != nil {
		msg.Free()
		return nil, s.err
	}
	return msg, nil
}

// --- Market Data Request ---

func BuildMarketDataRequest(
	p *parser.Parser,
	mdReqId string,
	symbols []string,
	subscriptionRequestType string,
	marketDepth string,
	senderCompId string,
	targetCompId string,
	mdEntryTypes []string,
) (*message.Message, *protocol.Error) {
	msg, err := p.NewMessage(constants.MsgTypeMarketDataRequest)
	if err != nil {
		return nil, err
	}
	s := &setter{g: msg.Root}
	buildHeader(s, senderCompId, targetCompId)

	s.set(constants.TagMdReqId, mdReqId)
	s.set(constants.TagSubscriptionRequestType, subscriptionRequestType)
	s.set(constants.TagMarketDepth, marketDepth)
	if subscriptionRequestType == constants.SubscriptionRequestTypeSubscribe {
		s.set(constants.TagMdUpdateType, constants.MdUpdateTypeIncremental)
	}
	if s.err != nil {
		msg.Free()
		return nil, s.err
	}

	for _, entryType := range mdEntryTypes {
		inst, gerr := msg.Root.AddGroupInstance(constants.TagNoMdEntryTypes)
		if gerr != nil {
			msg.Free()
			return nil, gerr
		}
		if serr := parser.SetString(inst, constants.TagMdEntryType, entryType); serr != nil {
			msg.Free()
			return nil, serr
		}
	}

	for _, symbol := range symbols {
		inst, gerr := msg.Root.AddGroupInstance(constants.TagNoRelatedSym)
		if gerr != nil {
			msg.Free()
			return nil, gerr
		}
		if serr := parser.SetString(inst, constants.TagSymbol, symbol); serr != nil {
			msg.Free()
			return nil, serr
		}
	}
	return msg, nil
}

// --- New Order Single (D) ---

// NewOrderParams contains parameters for creating a new order.
type NewOrderParams struct {
	Account        string // Portfolio ID (required)
	ClOrdID        string // Client order ID (required)
	Symbol         string // Product pair e.g. BTC-USD (required)
	Side           string // "1" buy, "2" sell (required)
	OrdType        string // Order type (required)
	TargetStrategy string // L, M, T, V, SL, R (required)
	TimeInForce    string // 1, 3, 4, 6 (required)
	OrderQty       string // Size in base units (conditional)
	CashOrderQty   string // Size in quote units (conditional)
	Price          string // Limit price (conditional)
	StopPx         string // Stop price for stop orders (conditional)
	ExpireTime     string // For GTD/TWAP/VWAP (conditional)
	EffectiveTime  string // Start time for TWAP/VWAP (conditional)
	MaxShow        string // Display size (optional)
	ExecInst       string // "A" for post-only (conditional)
	PartRate       string // Participation rate for TWAP/VWAP (conditional)
	QuoteID        string // For RFQ orders (conditional)
	IsRaiseExact   string // Y/N for raise exact orders (optional)
}

// BuildNewOrderSingle creates a New Order Single (D) message.
//
// Example - Market order:
//
//	params := NewOrderParams{
//	    Account: "portfolio-123", ClOrdID: "order-1", Symbol: "BTC-USD",
//	    Side: constants.SideBuy, OrdType: constants.OrdTypeMarket,
//	    TargetStrategy: constants.TargetStrategyMarket,
//	    TimeInForce: constants.TimeInForceIOC, OrderQty: "0.01",
//	}
//	msg, err := BuildNewOrderSingle(p, params, senderCompId, targetCompId)
func BuildNewOrderSingle(p *parser.Parser, params NewOrderParams, senderCompId, targetCompId string) (*message.Message, *protocol.Error) {
	msg, err := p.NewMessage(constants.MsgTypeNewOrderSingle)
	if err != nil {
		return nil, err
	}
	s := &setter{g: msg.Root}
	buildHeader(s, senderCompId, targetCompId)

	s.set(constants.TagAccount, params.Account)
	s.set(constants.TagClOrdID, params.ClOrdID)
	s.set(constants.TagSymbol, params.Symbol)
	s.set(constants.TagSide, params.Side)
	s.set(constants.TagOrdType, params.OrdType)
	s.set(constants.TagTargetStrategy, params.TargetStrategy)
	s.set(constants.TagTimeInForce, params.TimeInForce)
	s.set(constants.TagTransactTime, time.Now().UTC().Format(constants.FixTimeFormat))

	s.setIfNotEmpty(constants.TagOrderQty, params.OrderQty)
	s.setIfNotEmpty(constants.TagCashOrderQty, params.CashOrderQty)
	s.setIfNotEmpty(constants.TagPrice, params.Price)
	s.setIfNotEmpty(constants.TagStopPx, params.StopPx)
	s.setIfNotEmpty(constants.TagExpireTime, params.ExpireTime)
	s.setIfNotEmpty(constants.TagEffectiveTime, params.EffectiveTime)
	s.setIfNotEmpty(constants.TagMaxShow, params.MaxShow)
	s.setIfNotEmpty(constants.TagExecInst, params.ExecInst)
	s.setIfNotEmpty(constants.TagParticipationRate, params.PartRate)
	s.setIfNotEmpty(constants.TagQuoteID, params.QuoteID)
	s.setIfNotEmpty(constants.TagIsRaiseExact, params.IsRaiseExact)

	if s.err != nil {
		msg.Free()
		return nil, s.err
	}
	return msg, nil
}

// --- Order Cancel Request (F) ---

// CancelOrderParams contains parameters for canceling an order.
type CancelOrderParams struct {
	Account      string // Portfolio ID (required)
	ClOrdID      string // Cancel request ID (required)
	OrigClOrdID  string // Original order's ClOrdID (required)
	OrderID      string // Venue order ID (required)
	Symbol       string // Product pair (required)
	Side         string // "1" buy, "2" sell (required)
	OrderQty     string // Original order quantity (conditional)
	CashOrderQty string // If originally in quote units (conditional)
}

// BuildOrderCancelRequest creates an Order Cancel Request (F) message.
func BuildOrderCancelRequest(p *parser.Parser, params CancelOrderParams, senderCompId, targetCompId string) (*message.Message, *protocol.Error) {
	msg, err := p.NewMessage(constants.MsgTypeOrderCancelRequest)
	if err != nil {
		return nil, err
	}
	s := &setter{g: msg.Root}
	buildHeader(s, senderCompId, targetCompId)

	s.set(constants.TagAccount, params.Account)
	s.set(constants.TagClOrdID, params.ClOrdID)
	s.set(constants.TagOrigClOrdID, params.OrigClOrdID)
	s.set(constants.TagOrderID, params.OrderID)
	s.set(constants.TagSymbol, params.Symbol)
	s.set(constants.TagSide, params.Side)
	s.set(constants.TagTransactTime, time.Now().UTC().Format(constants.FixTimeFormat))

	s.setIfNotEmpty(constants.TagOrderQty, params.OrderQty)
	s.setIfNotEmpty(constants.TagCashOrderQty, params.CashOrderQty)

	if s.err != nil {
		msg.Free()
		return nil, s.err
	}
	return msg, nil
}

// --- Order Cancel/Replace Request (G) ---

// ReplaceOrderParams contains parameters for modifying an order.
type ReplaceOrderParams struct {
	Account      string // Portfolio ID (required)
	ClOrdID      string // New request ID (required, must differ from OrigClOrdID)
	OrigClOrdID  string // Original order's ClOrdID (required)
	OrderID      string // Venue order ID (required)
	Symbol       string // Product pair (required)
	Side         string // Must match original (required)
	OrdType      string // Must match original (required)
	OrderQty     string // Total intended quantity including filled (conditional)
	CashOrderQty string // If originally in quote units (conditional)
	Price        string // New limit price (required)
	StopPx       string // New stop price for stop-limit (conditional)
	ExpireTime   string // New expiration (conditional)
	MaxShow      string // New display size (conditional)
}

// BuildOrderCancelReplaceRequest creates an Order Cancel/Replace Request (G) message.
func BuildOrderCancelReplaceRequest(p *parser.Parser, params ReplaceOrderParams, senderCompId, targetCompId string) (*message.Message, *protocol.Error) {
	msg, err := p.NewMessage(constants.MsgTypeOrderCancelReplace)
	if err != nil {
		return nil, err
	}
	s := &setter{g: msg.Root}
	buildHeader(s, senderCompId, targetCompId)

	s.set(constants.TagAccount, params.Account)
	s.set(constants.TagClOrdID, params.ClOrdID)
	s.set(constants.TagOrigClOrdID, params.OrigClOrdID)
	s.set(constants.TagOrderID, params.OrderID)
	s.set(constants.TagSymbol, params.Symbol)
	s.set(constants.TagSide, params.Side)
	s.set(constants.TagOrdType, params.OrdType)
	s.set(constants.TagHandlInst, constants.HandlInstAutomatedNoIntervention)
	s.set(constants.TagTransactTime, time.Now().UTC().Format(constants.FixTimeFormat))
	s.set(constants.TagPrice, params.Price)

	s.setIfNotEmpty(constants.TagOrderQty, params.OrderQty)
	s.setIfNotEmpty(constants.TagCashOrderQty, params.CashOrderQty)
	s.setIfNotEmpty(constants.TagStopPx, params.StopPx)
	s.setIfNotEmpty(constants.TagExpireTime, params.ExpireTime)
	s.setIfNotEmpty(constants.TagMaxShow, params.MaxShow)

	if s.err != nil {
		msg.Free()
		return nil, s.err
	}
	return msg, nil
}

// --- Order Status Request (H) ---

// BuildOrderStatusRequest creates an Order Status Request (H) message.
func BuildOrderStatusRequest(p *parser.Parser, orderID, clOrdID, symbol, side, senderCompId, targetCompId string) (*message.Message, *protocol.Error) {
	msg, err := p.NewMessage(constants.MsgTypeOrderStatusRequest)
	if err != nil {
		return nil, err
	}
	s := &setter{g: msg.Root}
	buildHeader(s, senderCompId, targetCompId)

	s.set(constants.TagOrderID, orderID)
	s.setIfNotEmpty(constants.TagClOrdID, clOrdID)
	s.setIfNotEmpty(constants.TagSymbol, symbol)
	s.setIfNotEmpty(constants.TagSide, side)

	if s.err != nil {
		msg.Free()
		return nil, s.err
	}
	return msg, nil
}

// --- Quote Request (R) ---

// QuoteRequestParams contains parameters for requesting a quote.
type QuoteRequestParams struct {
	QuoteReqID string // Client-selected identifier (required)
	Account    string // Portfolio ID (required)
	Symbol     string // Product pair (required)
	Side       string // "1" buy, "2" sell (required)
	OrderQty   string // Size in base units (required)
	Price      string // Limit price (required)
}

// BuildQuoteRequest creates a Quote Request (R) message for RFQ.
func BuildQuoteRequest(p *parser.Parser, params QuoteRequestParams, senderCompId, targetCompId string) (*message.Message, *protocol.Error) {
	msg, err := p.NewMessage(constants.MsgTypeQuoteRequest)
	if err != nil {
		return nil, err
	}
	s := &setter{g: msg.Root}
	buildHeader(s, senderCompId, targetCompId)

	s.set(constants.TagQuoteReqID, params.QuoteReqID)
	s.set(constants.TagAccount, params.Account)
	s.set(constants.TagSymbol, params.Symbol)
	s.set(constants.TagSide, params.Side)
	s.set(constants.TagOrderQty, params.OrderQty)
	s.set(constants.TagOrdType, constants.OrdTypeLimit)
	s.set(constants.TagPrice, params.Price)
	s.set(constants.TagTimeInForce, constants.TimeInForceFOK)

	if s.err != nil {
		msg.Free()
		return nil, s.err
	}
	return msg, nil
}

// --- Accept Quote (New Order Single with QuoteID) ---

// AcceptQuoteParams contains parameters for accepting a quote.
type AcceptQuoteParams struct {
	Account  string // Portfolio ID (required)
	ClOrdID  string // Client order ID (required)
	Symbol   string // Product pair (required)
	Side     string // "1" buy, "2" sell (required)
	QuoteID  string // From Quote message tag 117 (required)
	OrderQty string // Size in base units (required)
	Price    string // From Quote bid/offer price (required)
}

// BuildAcceptQuote creates a New Order Single (D) to accept a Quote.
func BuildAcceptQuote(p *parser.Parser, params AcceptQuoteParams, senderCompId, targetCompId string) (*message.Message, *protocol.Error) {
	msg, err := p.NewMessage(constants.MsgTypeNewOrderSingle)
	if err != nil {
		return nil, err
	}
	s := &setter{g: msg.Root}
	buildHeader(s, senderCompId, targetCompId)

	s.set(constants.TagAccount, params.Account)
	s.set(constants.TagClOrdID, params.ClOrdID)
	s.set(constants.TagSymbol, params.Symbol)
	s.set(constants.TagSide, params.Side)
	s.set(constants.TagOrdType, constants.OrdTypePreviouslyQuoted)
	s.set(constants.TagTargetStrategy, constants.TargetStrategyRFQ)
	s.set(constants.TagTimeInForce, constants.TimeInForceFOK)
	s.set(constants.TagQuoteID, params.QuoteID)
	s.set(constants.TagOrderQty, params.OrderQty)
	s.set(constants.TagPrice, params.Price)
	s.set(constants.TagTransactTime, time.Now().UTC().Format(constants.FixTimeFormat))

	if s.err != nil {
		msg.Free()
		return nil, s.err
	}
	return msg, nil
}
