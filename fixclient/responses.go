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

// Package fixclient: this file builds the order-entry response structs
// (defined in orderstore.go) from a decoded message's root group, so
// handleMessage in fixapp.go can dispatch them to OrderStore and the
// display* functions in display.go.
package fixclient

import (
	"time"

	"fixengine/constants"
	"fixengine/message"
)

func parseExecutionReport(g *message.Group) *ExecutionReport {
	return &ExecutionReport{
		ClOrdID:       optStr(g, constants.TagClOrdID),
		OrderID:       optStr(g, constants.TagOrderID),
		ExecID:        optStr(g, constants.TagExecID),
		Account:       optStr(g, constants.TagAccount),
		Symbol:        optStr(g, constants.TagSymbol),
		OrdStatus:     optStr(g, constants.TagOrdStatus),
		ExecType:      optStr(g, constants.TagExecType),
		Side:          optStr(g, constants.TagSide),
		OrdType:       optStr(g, constants.TagOrdType),
		OrderQty:      optStr(g, constants.TagOrderQty),
		CumQty:        optStr(g, constants.TagCumQty),
		LeavesQty:     optStr(g, constants.TagLeavesQty),
		CashOrderQty:  optStr(g, constants.TagCashOrderQty),
		Price:         optStr(g, constants.TagPrice),
		AvgPx:         optStr(g, constants.TagAvgPx),
		LastPx:        optStr(g, constants.TagLastPx),
		LastShares:    optStr(g, constants.TagLastShares),
		Commission:    optStr(g, constants.TagCommission),
		FilledAmt:     optStr(g, constants.TagFilledAmt),
		NetAvgPx:      optStr(g, constants.TagNetAvgPrice),
		OrdRejReason:  optStr(g, constants.TagOrdRejReason),
		Text:          optStr(g, constants.TagText),
		EffectiveTime: optStr(g, constants.TagEffectiveTime),
	}
}

func parseOrderCancelReject(g *message.Group) *OrderCancelReject {
	return &OrderCancelReject{
		ClOrdID:          optStr(g, constants.TagClOrdID),
		OrigClOrdID:      optStr(g, constants.TagOrigClOrdID),
		OrderID:          optStr(g, constants.TagOrderID),
		OrdStatus:        optStr(g, constants.TagOrdStatus),
		CxlRejReason:     optStr(g, constants.TagCxlRejReason),
		CxlRejResponseTo: optStr(g, constants.TagCxlRejResponseTo),
		Text:             optStr(g, constants.TagText),
	}
}

func parseQuote(g *message.Group) *Quote {
	q := &Quote{
		QuoteID:    optStr(g, constants.TagQuoteID),
		QuoteReqID: optStr(g, constants.TagQuoteReqID),
		Account:    optStr(g, constants.TagAccount),
		Symbol:     optStr(g, constants.TagSymbol),
		BidPx:      optStr(g, constants.TagBidPx),
		BidSize:    optStr(g, constants.TagBidSize),
		OfferPx:    optStr(g, constants.TagOfferPx),
		OfferSize:  optStr(g, constants.TagOfferSize),
	}
	if vut := optStr(g, constants.TagValidUntilTime); vut != "" {
		if t, err := time.Parse(constants.FixTimeFormat, vut); err == nil {
			q.ValidUntilTime = t
		}
	}
	return q
}

func parseQuoteAck(g *message.Group) *QuoteAck {
	return &QuoteAck{
		QuoteID:           optStr(g, constants.TagQuoteID),
		QuoteReqID:        optStr(g, constants.TagQuoteReqID),
		Account:           optStr(g, constants.TagAccount),
		Symbol:            optStr(g, constants.TagSymbol),
		QuoteAckStatus:    optStr(g, constants.TagQuoteAckStatus),
		QuoteRejectReason: optStr(g, constants.TagQuoteRejectReason),
		Text:              optStr(g, constants.TagText),
	}
}

func parseSessionReject(g *message.Group) *SessionReject {
	return &SessionReject{
		RefSeqNum:           optStr(g, constants.TagRefSeqNum),
		RefMsgType:          optStr(g, constants.TagRefMsgType),
		RefTagID:            optStr(g, constants.TagRefTagID),
		SessionRejectReason: optStr(g, constants.TagSessionRejectReason),
		Text:                optStr(g, constants.TagText),
	}
}

func parseBusinessReject(g *message.Group) *BusinessReject {
	return &BusinessReject{
		RefSeqNum:            optStr(g, constants.TagRefSeqNum),
		RefMsgType:           optStr(g, constants.TagRefMsgType),
		BusinessRejectReason: optStr(g, constants.TagBusinessRejectReason),
		Text:                 optStr(g, constants.TagText),
	}
}
