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

package fixclient

import (
	"bufio"
	"bytes"
	"log"
)

// readMessage accumulates tag=value<delim> chunks from r until it has
// consumed the CheckSum (10=) field, returning the raw bytes of exactly
// one FIX message. Session-layer framing beyond "read to the checksum
// field" (resend requests, gap fill, heartbeats) is out of scope; this
// is the minimal framing a stream transport needs to hand whole messages
// to Parser.Decode.
func readMessage(r *bufio.Reader, delim byte) ([]byte, error) {
	var buf bytes.Buffer
	for {
		chunk, err := r.ReadBytes(delim)
		if err != nil {
			return nil, err
		}
		buf.Write(chunk)
		if bytes.HasPrefix(chunk, []byte("10=")) {
			return buf.Bytes(), nil
		}
	}
}

// ReadLoop reads and dispatches messages from r until the connection
// closes or a read error occurs, then calls onDisconnect and returns.
// ShouldExit reports true afterwards only if no logon was acknowledged or
// the last one was less than five seconds earlier. Callers typically run
// it in its own goroutine alongside Repl.
func (a *FixApp) ReadLoop(r *bufio.Reader) {
	for {
		raw, err := readMessage(r, a.Delim)
		if err != nil {
			a.onDisconnect(err)
			return
		}

		msg, _, perr := a.Parser.Decode(raw, a.Delim)
		if perr != nil {
			log.Printf("decode: %v", perr)
			continue
		}
		a.handleMessage(msg)
		msg.Free()
	}
}
