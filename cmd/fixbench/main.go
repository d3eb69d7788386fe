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

// Command fixbench is a micro-benchmark harness: create-and-free an
// ExecutionReport a fixed number of times and report elapsed microseconds,
// the same shape of measurement as the original library's perf_test.c
// (which builds 100000 messages and prints "TM <usec>").
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"fixengine/constants"
	"fixengine/dict"
	"fixengine/parser"
	"fixengine/protocol"
)

func main() {
	var (
		dictPath = flag.String("dict", "dictionaries/fix44.xml", "path to the FIX dictionary XML")
		count    = flag.Int("count", 100000, "number of messages to create and free")
	)
	flag.Parse()

	dictFile, err := os.Open(*dictPath)
	if err != nil {
		log.Fatalf("failed to open dictionary %s: %v", *dictPath, err)
	}
	d, derr := dict.Load(dictFile)
	_ = dictFile.Close()
	if derr != nil {
		log.Fatalf("failed to load dictionary: %v", derr)
	}

	p, perr := parser.New(d, parser.Config{
		PageSize:  512,
		NumPages:  2,
		MaxPages:  4,
		NumGroups: 8,
		MaxGroups: 16,
	})
	if perr != nil {
		log.Fatalf("failed to create parser: %v", perr)
	}

	start := time.Now()

	for i := 0; i < *count; i++ {
		msg, err := p.NewMessage(constants.MsgTypeExecutionReport)
		if err != nil {
			log.Fatalf("NewMessage: %v", err)
		}

		g := msg.Root
		setOrFail(parser.SetString(g, constants.TagSenderCompId, "QWERTY_12345678"))
		setOrFail(parser.SetString(g, constants.TagTargetCompId, "ABCQWE_XYZ"))
		setOrFail(parser.SetInt64(g, constants.TagMsgSeqNum, 34))
		setOrFail(parser.SetString(g, constants.TagSendingTime, "20120716-06:00:16.230"))
		setOrFail(parser.SetString(g, constants.TagOrderID, "1"))
		setOrFail(parser.SetString(g, constants.TagClOrdID, "CL_ORD_ID_1234567"))
		setOrFail(parser.SetString(g, constants.TagExecID, "FE_1_9494_1"))
		setOrFail(parser.SetChar(g, constants.TagExecType, '0'))
		setOrFail(parser.SetChar(g, constants.TagOrdStatus, '1'))
		setOrFail(parser.SetString(g, constants.TagAccount, "ZUM"))
		setOrFail(parser.SetString(g, constants.TagSymbol, "RTS-12.12"))
		setOrFail(parser.SetChar(g, constants.TagSide, '1'))
		setOrFail(parser.SetFloat(g, constants.TagOrderQty, 25))
		setOrFail(parser.SetDouble(g, constants.TagPrice, 135155.0))
		setOrFail(parser.SetFloat(g, constants.TagLastShares, 0))
		setOrFail(parser.SetDouble(g, constants.TagLastPx, 0.0))
		setOrFail(parser.SetFloat(g, constants.TagLeavesQty, 25.0))
		setOrFail(parser.SetFloat(g, constants.TagCumQty, 0))
		setOrFail(parser.SetDouble(g, constants.TagAvgPx, 0.0))
		setOrFail(parser.SetString(g, constants.TagText, "COMMENT12"))

		msg.Free()
	}

	elapsed := time.Since(start)
	fmt.Printf("TM %d\n", elapsed.Microseconds())
}

func setOrFail(err *protocol.Error) {
	if err != nil {
		log.Fatalf("set: %v", err)
	}
}
