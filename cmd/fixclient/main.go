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

// Command fixclient is an interactive demo client: it logs onto a FIX
// counterparty, streams market data, and accepts order-entry commands from
// a readline prompt. It owns the process-level wiring (flags, dictionary
// load, TCP dial) that fixclient.FixApp itself stays agnostic of.
package main

import (
	"bufio"
	"flag"
	"log"
	"net"
	"os"

	"fixengine/database"
	"fixengine/dict"
	"fixengine/fixclient"
	"fixengine/parser"
)

func main() {
	var (
		host         = flag.String("host", "127.0.0.1", "FIX counterparty host")
		port         = flag.String("port", "9878", "FIX counterparty port")
		dictPath     = flag.String("dict", "dictionaries/fix44.xml", "path to the FIX dictionary XML")
		senderCompId = flag.String("sender", "CLIENT", "SenderCompID")
		targetCompId = flag.String("target", "SERVER", "TargetCompID")
		portfolioId  = flag.String("portfolio", "", "Account/PortfolioID used on order-entry requests")
		heartBtInt   = flag.String("heartbeat", "30", "HeartBtInt (seconds)")
		dbPath       = flag.String("db", "fixclient.db", "path to the SQLite market-data database")
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
		PageSize:  4096,
		NumPages:  8,
		MaxPages:  32,
		NumGroups: 256,
		MaxGroups: 1024,
		Flags:     parser.CheckRequired,
	})
	if perr != nil {
		log.Fatalf("failed to create parser: %v", perr)
	}

	db, err := database.NewMarketDataDb(*dbPath)
	if err != nil {
		log.Fatalf("failed to open market data database: %v", err)
	}
	defer db.Close()

	addr := net.JoinHostPort(*host, *port)
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		log.Fatalf("failed to connect to %s: %v", addr, err)
	}
	defer conn.Close()

	config := fixclient.NewConfig(*senderCompId, *targetCompId, *portfolioId, *heartBtInt)
	app := fixclient.NewFixApp(config, p, conn, db)

	if err := app.Login(); err != nil {
		log.Fatalf("failed to send logon: %v", err)
	}

	go app.ReadLoop(bufio.NewReader(conn))

	fixclient.Repl(app)
}
