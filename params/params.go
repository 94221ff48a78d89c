// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package params

import (
	"fmt"
	"maps"
	"slices"
)

// Param is a single key/value entry of an encoded string.
type Param struct {
	Key   string
	Value any
}

// Params is an ordered mapping from key to value. Keys are unique.
//
// Decoded values are always one of string, []any or Params. Values passed to
// Encode may additionally be booleans, numbers, fmt.Stringer implementations,
// slices and string-keyed maps.
type Params []Param

// FromMap builds Params from m with keys in sorted order.
func FromMap(m map[string]any) Params {
	p := make(Params, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		p = append(p, Param{Key: k, Value: m[k]})
	}
	return p
}

// Of builds Params from alternating key/value arguments.
// It panics if the argument count is odd or a key is not a string.
func Of(kv ...any) Params {
	if len(kv)%2 != 0 {
		panic("params.Of: odd number of arguments")
	}
	var p Params
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("params.Of: key at position %d is %T, not string", i, kv[i]))
		}
		p.Set(key, kv[i+1])
	}
	return p
}

func (p Params) index(key string) int {
	for i := range p {
		if p[i].Key == key {
			return i
		}
	}
	return -1
}

// Get returns the value stored under key.
func (p Params) Get(key string) (any, bool) {
	if i := p.index(key); i >= 0 {
		return p[i].Value, true
	}
	return nil, false
}

// Has reports whether key is present.
func (p Params) Has(key string) bool {
	return p.index(key) >= 0
}

// Set stores value under key. An existing key keeps its position; a new key
// is appended.
func (p *Params) Set(key string, value any) {
	if i := p.index(key); i >= 0 {
		(*p)[i].Value = value
		return
	}
	*p = append(*p, Param{Key: key, Value: value})
}

// Delete removes key and returns its previous value.
func (p *Params) Delete(key string) (any, bool) {
	i := p.index(key)
	if i < 0 {
		return nil, false
	}
	v := (*p)[i].Value
	*p = slices.Delete(*p, i, i+1)
	return v, true
}

// Keys returns the keys in order.
func (p Params) Keys() []string {
	keys := make([]string, len(p))
	for i := range p {
		keys[i] = p[i].Key
	}
	return keys
}

// Clone returns a shallow copy of p.
func (p Params) Clone() Params {
	return slices.Clone(p)
}

// Encode serializes p. See the package level Encode.
func (p Params) Encode() string {
	return Encode(p)
}
