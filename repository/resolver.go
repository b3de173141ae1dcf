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

import (
	"fmt"

	"github.com/tomoncle/kiln/types"
)

// ResolveDelegate returns the client's delegate for model, looked up under
// the model name with its first character lower-cased. client must be
// non-nil.
func ResolveDelegate[T any](client Client, model types.ModelName) (Delegate[T], error) {
	key := model.DelegateKey()
	raw, ok := client.Delegate(key)
	if !ok {
		return nil, fmt.Errorf("%w: model %s has no delegate %q", ErrDelegateNotFound, model, key)
	}
	delegate, ok := raw.(Delegate[T])
	if !ok {
		var zero T
		return nil, fmt.Errorf("%w: delegate %q is %T, not a delegate of %T", ErrDelegateNotFound, key, raw, &zero)
	}
	return delegate, nil
}
