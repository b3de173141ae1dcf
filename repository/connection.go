/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package repository

import "reflect"

// Connection is either Live, wrapping a client, or Unavailable. The zero
// value is Unavailable.
type Connection struct {
	client Client
}

// Live wraps client. A nil client, including a typed nil pointer, yields
// Unavailable.
func Live(client Client) Connection {
	if isNilClient(client) {
		return Unavailable()
	}
	return Connection{client: client}
}

func Unavailable() Connection {
	return Connection{}
}

// Available reports whether the connection carries a client.
func (c Connection) Available() bool {
	return c.client != nil
}

// Client returns the wrapped client, or nil when unavailable.
func (c Connection) Client() Client {
	return c.client
}

func (c Connection) String() string {
	if c.Available() {
		return "live"
	}
	return "unavailable"
}

func isNilClient(client Client) bool {
	if client == nil {
		return true
	}
	v := reflect.ValueOf(client)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Interface, reflect.Func, reflect.Slice, reflect.Chan:
		return v.IsNil()
	}
	return false
}
