// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fossa

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Exception is a single issue-exception record as returned by the API.
// The endpoint does not publish a fixed schema, so a record is held as an
// ordered sequence of key/value pairs. Preserving the server's field order
// makes JSON export a round-trip identity and gives CSV export a stable,
// first-record-derived header.
//
// Numbers are decoded as json.Number so that values like 1 do not become
// 1.000000 on the way back out.
type Exception struct {
	keys   []string
	fields map[string]any
}

// Keys returns the record's field names in the order the server sent them.
// The returned slice is a copy.
func (e Exception) Keys() []string {
	keys := make([]string, len(e.keys))
	copy(keys, e.keys)
	return keys
}

// Get returns the value for the named field and whether the field exists.
func (e Exception) Get(key string) (any, bool) {
	v, ok := e.fields[key]
	return v, ok
}

// Len returns the number of fields in the record.
func (e Exception) Len() int {
	return len(e.keys)
}

// Set stores a value under the named field, appending the field to the key
// order if it is new. Used primarily to build records in tests.
func (e *Exception) Set(key string, value any) {
	if e.fields == nil {
		e.fields = make(map[string]any)
	}
	if _, exists := e.fields[key]; !exists {
		e.keys = append(e.keys, key)
	}
	e.fields[key] = value
}

// UnmarshalJSON decodes a JSON object into the record, recording the key
// order as the tokens arrive. Nested values are decoded as plain interface
// values; only top-level order is tracked.
func (e *Exception) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("exception record must be a JSON object, got %v", tok)
	}

	e.keys = nil
	e.fields = make(map[string]any)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", keyTok)
		}

		var value any
		if err := dec.Decode(&value); err != nil {
			return err
		}

		if _, dup := e.fields[key]; !dup {
			e.keys = append(e.keys, key)
		}
		e.fields[key] = value
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON encodes the record as a JSON object with fields emitted in
// the preserved key order.
func (e Exception) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range e.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(e.fields[key])
		if err != nil {
			return nil, fmt.Errorf("encode field %q: %w", key, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ExceptionPage represents one page of the exceptions listing. An empty
// Exceptions slice signals that pagination is exhausted; the API returns
// no explicit page count.
type ExceptionPage struct {
	Exceptions []Exception
}

// FetchOptions configures a single page fetch. The url tags produce the
// query string the API expects: filters[category], page, and count.
type FetchOptions struct {
	// Category narrows which issue exceptions are returned (for example
	// "licensing" or "security"). Passed through unvalidated; the server
	// owns the set of valid categories.
	Category string `url:"filters[category],omitempty"`

	// Page is the 1-based page number.
	Page int `url:"page"`

	// Count is the page size. Defaults to 1000 if not positive.
	Count int `url:"count"`
}

// Default values for fetch operations
const (
	defaultPageSize = 1000
)
