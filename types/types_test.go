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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelNameDelegateKey(t *testing.T) {
	cases := map[ModelName]string{
		ModelMessage:        "message",
		ModelUser:           "user",
		ModelMessageReceipt: "messageReceipt",
		ModelName(""):       "",
		ModelName("ÉTAT"):   "éTAT",
	}
	for name, want := range cases {
		assert.Equal(t, want, name.DelegateKey(), "model %q", name)
	}
}

func TestModelNameValidity(t *testing.T) {
	assert.True(t, ModelMessageReceipt.IsValid())
	assert.Equal(t, 2, ModelMessageReceipt.Number())

	m := ModelName("message")
	assert.False(t, m.IsValid())
	assert.Equal(t, IllegalName, m.Name())
	assert.Equal(t, IllegalDesc, ModelName("Order").Desc())
}

func TestModelNamesIsACopy(t *testing.T) {
	names := ModelNames()
	require.Len(t, names, 3)
	names[0] = "Changed"
	assert.Equal(t, ModelUser, ModelNames()[0])
}

func TestPageRequestClamps(t *testing.T) {
	p := NewDefaultPageRequest(0, 0)
	assert.Equal(t, 1, p.GetPage())
	assert.Equal(t, DefaultPageSize, p.GetPageSize())
	assert.Equal(t, 0, p.GetOffset())

	p = NewPageRequestWithOrders(3, 500, []string{"id ASC"})
	assert.Equal(t, MaxPageSize, p.GetPageSize())
	assert.Equal(t, 200, p.GetOffset())

	args := p.FindMany(Where{"thread_id": "t1"})
	assert.Equal(t, 200, args.Skip)
	assert.Equal(t, MaxPageSize, args.Take)
	assert.Equal(t, []string{"id ASC"}, args.OrderBy)
	assert.Equal(t, "t1", args.Where["thread_id"])
}

func TestWhereKeysAreSorted(t *testing.T) {
	w := Where{"b": 1, "a": 2, "c": nil}
	assert.Equal(t, []string{"a", "b", "c"}, w.Keys())
	assert.Equal(t, []string{"x", "y"}, Fields{"y": 1, "x": 2}.Keys())
}

func TestJsonObjectScan(t *testing.T) {
	var obj JsonObject
	require.NoError(t, obj.Scan([]byte(`{"tag":"urgent","n":2}`)))
	assert.Equal(t, "urgent", obj["tag"])
	assert.Equal(t, float64(2), obj["n"])

	require.NoError(t, obj.Scan(nil))
	assert.NotNil(t, obj)
	assert.Empty(t, obj)

	assert.Error(t, obj.Scan(42))

	v, err := JsonObject(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = JsonObject{"a": true}.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"a":true}`, v)
}
