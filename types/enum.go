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

package types

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Common illegal/default values used by enums.
const (
	IllegalValue = -1
	IllegalName  = "unknown"
	IllegalDesc  = "unknown"
)

// BaseEnum represents a basic enum contract used by domain types.
type BaseEnum interface {
	IsValid() bool
	Number() int
	String() string
	Desc() string
	Name() string
}

// ModelName identifies one persisted entity type. External names are
// capitalized; the client registers delegates under DelegateKey.
type ModelName string

const (
	ModelMessage        ModelName = "Message"
	ModelUser           ModelName = "User"
	ModelMessageReceipt ModelName = "MessageReceipt"
)

var _ BaseEnum = ModelName("")

var modelNames = []ModelName{ModelUser, ModelMessage, ModelMessageReceipt}

var modelDescs = map[ModelName]string{
	ModelUser:           "application user",
	ModelMessage:        "message posted to a thread",
	ModelMessageReceipt: "per-user read receipt of a message",
}

// ModelNames returns the closed set of known model names.
func ModelNames() []ModelName {
	out := make([]ModelName, len(modelNames))
	copy(out, modelNames)
	return out
}

func (m ModelName) IsValid() bool { return m.Number() != IllegalValue }

func (m ModelName) Number() int {
	for i, n := range modelNames {
		if n == m {
			return i
		}
	}
	return IllegalValue
}

func (m ModelName) String() string { return string(m) }

func (m ModelName) Name() string {
	if !m.IsValid() {
		return IllegalName
	}
	return string(m)
}

func (m ModelName) Desc() string {
	if d, ok := modelDescs[m]; ok {
		return d
	}
	return IllegalDesc
}

// DelegateKey returns the name with its first character lower-cased,
// e.g. "MessageReceipt" -> "messageReceipt".
func (m ModelName) DelegateKey() string {
	return UncapitalizeString(string(m))
}

// UncapitalizeString lower-cases the first rune of s and keeps the rest.
func UncapitalizeString(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	var b strings.Builder
	b.Grow(len(s))
	b.WriteRune(unicode.ToLower(r))
	b.WriteString(s[size:])
	return b.String()
}
