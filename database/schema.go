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

package database

// Table definitions for the four record kinds NewMarketDataDb persists:
// one row per created subscription/request (sessions), and one row per
// received entry for trades, order book levels, and OHLCV points.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS sessions (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id      TEXT NOT NULL,
	symbol          TEXT NOT NULL,
	request_type    TEXT NOT NULL,
	data_types      TEXT NOT NULL,
	depth           INTEGER,
	md_req_id       TEXT NOT NULL,
	created_at      DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS trades (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	symbol          TEXT NOT NULL,
	price           TEXT NOT NULL,
	size            TEXT NOT NULL,
	aggressor_side  TEXT,
	trade_time      TEXT,
	seq_num         INTEGER,
	md_req_id       TEXT NOT NULL,
	is_snapshot     BOOLEAN NOT NULL,
	received_at     DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);
CREATE INDEX IF NOT EXISTS idx_trades_md_req_id ON trades(md_req_id);

CREATE TABLE IF NOT EXISTS order_book (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	symbol          TEXT NOT NULL,
	side            TEXT NOT NULL,
	price           TEXT NOT NULL,
	size            TEXT NOT NULL,
	position        INTEGER,
	seq_num         INTEGER,
	md_req_id       TEXT NOT NULL,
	is_snapshot     BOOLEAN NOT NULL,
	received_at     DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_order_book_symbol ON order_book(symbol);
CREATE INDEX IF NOT EXISTS idx_order_book_md_req_id ON order_book(md_req_id);

CREATE TABLE IF NOT EXISTS ohlcv (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	symbol          TEXT NOT NULL,
	data_type       TEXT NOT NULL,
	value           TEXT NOT NULL,
	entry_time      TEXT,
	seq_num         INTEGER,
	md_req_id       TEXT NOT NULL,
	received_at     DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_ohlcv_symbol ON ohlcv(symbol);
`

const insertSessionQuery = `
INSERT INTO sessions (session_id, symbol, request_type, data_types, depth, md_req_id)
VALUES (?, ?, ?, ?, ?, ?)
`

const insertTradeQuery = `
INSERT INTO trades (symbol, price, size, aggressor_side, trade_time, seq_num, md_req_id, is_snapshot)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

const insertOrderBookQuery = `
INSERT INTO order_book (symbol, side, price, size, position, seq_num, md_req_id, is_snapshot)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

const insertOHLCVQuery = `
INSERT INTO ohlcv (symbol, data_type, value, entry_time, seq_num, md_req_id)
VALUES (?, ?, ?, ?, ?, ?)
`

// initSchema creates the tables and indexes above if they don't already
// exist, run once at MarketDataDb construction time.
func (mdb *MarketDataDb) initSchema() error {
	_, err := mdb.db.Exec(schemaSQL)
	return err
}
