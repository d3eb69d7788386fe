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

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestDb(t *testing.T) *MarketDataDb {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "marketdata.db")
	mdb, err := NewMarketDataDb(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mdb.Close() })
	return mdb
}

func TestCreateSession(t *testing.T) {
	mdb := newTestDb(t)

	depth := 10
	err := mdb.CreateSession("sess-1", "BTC-USD", "subscribe", "order_book", "req-1", &depth)
	require.NoError(t, err)

	var count int
	row := mdb.db.QueryRow("SELECT COUNT(*) FROM sessions WHERE session_id = ?", "sess-1")
	require.NoError(t, row.Scan(&count))
	require.Equal(t, 1, count)
}

func TestStoreTrade(t *testing.T) {
	mdb := newTestDb(t)

	err := mdb.StoreTrade("BTC-USD", "50000.00", "1.5", "1", "20250101-12:00:00", 7, "req-2", false)
	require.NoError(t, err)

	var symbol, price string
	row := mdb.db.QueryRow("SELECT symbol, price FROM trades WHERE md_req_id = ?", "req-2")
	require.NoError(t, row.Scan(&symbol, &price))
	require.Equal(t, "BTC-USD", symbol)
	require.Equal(t, "50000.00", price)
}

func TestStoreOrderBookEntry(t *testing.T) {
	mdb := newTestDb(t)

	err := mdb.StoreOrderBookEntry("ETH-USD", "bid", "3000.00", "2.0", 0, 1, "req-3", true)
	require.NoError(t, err)

	var side string
	row := mdb.db.QueryRow("SELECT side FROM order_book WHERE md_req_id = ?", "req-3")
	require.NoError(t, row.Scan(&side))
	require.Equal(t, "bid", side)
}

func TestStoreOHLCV(t *testing.T) {
	mdb := newTestDb(t)

	err := mdb.StoreOHLCV("BTC-USD", "open", "49500.00", "20250101-00:00:00", 1, "req-4")
	require.NoError(t, err)

	var dataType string
	row := mdb.db.QueryRow("SELECT data_type FROM ohlcv WHERE md_req_id = ?", "req-4")
	require.NoError(t, row.Scan(&dataType))
	require.Equal(t, "open", dataType)
}

func TestBatchOperationsUseTransaction(t *testing.T) {
	mdb := newTestDb(t)

	tx, err := mdb.BeginTransaction()
	require.NoError(t, err)

	require.NoError(t, mdb.StoreTradeBatch(tx, "BTC-USD", "50000", "1.0", "1", "20250101-12:00:00", 1, "req-5", false))
	require.NoError(t, mdb.StoreOrderBookBatch(tx, "BTC-USD", "offer", "50010", "2.0", 0, 2, "req-5", false))
	require.NoError(t, mdb.StoreOhlcvBatch(tx, "BTC-USD", "close", "50005", "20250101-12:00:00", 3, "req-5"))
	require.NoError(t, tx.Commit())

	var tradeCount, bookCount, ohlcvCount int
	require.NoError(t, mdb.db.QueryRow("SELECT COUNT(*) FROM trades WHERE md_req_id = ?", "req-5").Scan(&tradeCount))
	require.NoError(t, mdb.db.QueryRow("SELECT COUNT(*) FROM order_book WHERE md_req_id = ?", "req-5").Scan(&bookCount))
	require.NoError(t, mdb.db.QueryRow("SELECT COUNT(*) FROM ohlcv WHERE md_req_id = ?", "req-5").Scan(&ohlcvCount))
	require.Equal(t, 1, tradeCount)
	require.Equal(t, 1, bookCount)
	require.Equal(t, 1, ohlcvCount)
}

func TestInitSchemaIsIdempotent(t *testing.T) {
	mdb := newTestDb(t)
	require.NoError(t, mdb.initSchema())
	require.NoError(t, mdb.initSchema())
}
