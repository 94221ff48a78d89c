// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package params

import (
	"fmt"
	"maps"
	"net/url"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// Decode parses an application/x-www-form-urlencoded string such as a URI
// query or fragment. Bracketed names (a[]=1, a[0]=1, a[x][y]=1) build nested
// values and a plain name that repeats collects its values into a list.
//
// Decode never fails. Invalid percent escapes are kept verbatim and pairs
// without a name are dropped.
func Decode(encoded string) Params {
	root := &tree{}
	for pair := range strings.SplitSeq(encoded, "&") {
		if pair == "" {
			continue
		}
		name, value, _ := strings.Cut(pair, "=")
		base, path := splitName(unescape(name))
		if base == "" {
			continue
		}
		root.insert(base, path, unescape(value), true)
	}
	out := root.params()
	for i := range out {
		out[i].Value = normalize(out[i].Value)
	}
	return out
}

// Encode serializes p in order. Nested values use bracket notation with
// explicit indexes for lists, so {"b": [2, 3]} becomes b%5B0%5D=2&b%5B1%5D=3.
// Nil values and empty collections produce no output.
func Encode(p Params) string {
	var b strings.Builder
	for _, e := range p {
		appendValue(&b, e.Key, e.Value)
	}
	return b.String()
}

// All decodes encoded. It is equivalent to Decode and exists for symmetry
// with Get.
func All(encoded string) Params {
	return Decode(encoded)
}

// Get returns the decoded value stored under key in encoded.
func Get(encoded, key string) (any, bool) {
	return Decode(encoded).Get(key)
}

type mergeConfig struct {
	replace   bool
	stringify bool
}

// MergeOption configures Merge.
type MergeOption func(*mergeConfig)

// KeepExisting makes values already present in the encoded string win over
// the merged ones; merged values only fill absent keys.
func KeepExisting() MergeOption {
	return func(c *mergeConfig) {
		c.replace = false
	}
}

// WithoutStringify disables converting fmt.Stringer values to strings before
// merging. Struct values are then encoded through their exported fields.
func WithoutStringify() MergeOption {
	return func(c *mergeConfig) {
		c.stringify = false
	}
}

// Merge decodes encoded, merges p into it and re-encodes the result.
//
// By default entries of p replace existing entries with the same key. Keys
// already present keep their position and new keys are appended in the
// order they appear in p.
func Merge(encoded string, p Params, opts ...MergeOption) string {
	cfg := &mergeConfig{replace: true, stringify: true}
	for _, opt := range opts {
		opt(cfg)
	}

	merged := Decode(encoded)
	for _, e := range p {
		if !cfg.replace && merged.Has(e.Key) {
			continue
		}
		v := e.Value
		if s, ok := v.(fmt.Stringer); ok && cfg.stringify {
			v = s.String()
		}
		merged.Set(e.Key, v)
	}
	return Encode(merged)
}

// Remove deletes key from encoded and returns the re-encoded string together
// with the removed value. When key is absent the original string is returned
// unchanged.
func Remove(encoded, key string) (string, any, bool) {
	p := Decode(encoded)
	v, ok := p.Delete(key)
	if !ok {
		return encoded, nil, false
	}
	return Encode(p), v, true
}

func unescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return strings.ReplaceAll(s, "+", " ")
}

// splitName splits "a[x][]" into "a" and ["x", ""]. An unterminated first
// bracket makes the whole name literal; text after the last closed bracket
// is ignored.
func splitName(name string) (string, []string) {
	open := strings.IndexByte(name, '[')
	if open < 0 {
		return name, nil
	}

	var path []string
	pos := open
	for pos < len(name) && name[pos] == '[' {
		end := strings.IndexByte(name[pos+1:], ']')
		if end < 0 {
			break
		}
		path = append(path, name[pos+1:pos+1+end])
		pos += end + 2
	}
	if len(path) == 0 {
		return name, nil
	}
	return name[:open], path
}

// tree accumulates decoded pairs. Each level indexes its keys and tracks
// the next free list index so that inserts stay constant time.
type tree struct {
	keys []string
	vals []any // string or *tree
	pos  map[string]int
	next int
}

func (t *tree) get(key string) (any, bool) {
	if i, ok := t.pos[key]; ok {
		return t.vals[i], true
	}
	return nil, false
}

func (t *tree) set(key string, v any) {
	if n, ok := listIndex(key); ok && n >= t.next {
		t.next = n + 1
	}
	if i, ok := t.pos[key]; ok {
		t.vals[i] = v
		return
	}
	if t.pos == nil {
		t.pos = make(map[string]int)
	}
	t.pos[key] = len(t.keys)
	t.keys = append(t.keys, key)
	t.vals = append(t.vals, v)
}

func (t *tree) nextIndex() string {
	return strconv.Itoa(t.next)
}

func (t *tree) insert(key string, path []string, value string, collect bool) {
	existing, found := t.get(key)

	if len(path) == 0 {
		if found && collect {
			switch e := existing.(type) {
			case string:
				list := &tree{}
				list.set("0", e)
				list.set("1", value)
				t.set(key, list)
			case *tree:
				e.set(e.nextIndex(), value)
			}
			return
		}
		t.set(key, value)
		return
	}

	nested, ok := existing.(*tree)
	if !ok {
		nested = &tree{}
		t.set(key, nested)
	}
	seg := path[0]
	if seg == "" {
		seg = nested.nextIndex()
	}
	nested.insert(seg, path[1:], value, false)
}

func (t *tree) params() Params {
	if len(t.keys) == 0 {
		return nil
	}
	p := make(Params, len(t.keys))
	for i, k := range t.keys {
		v := t.vals[i]
		if sub, ok := v.(*tree); ok {
			v = sub.params()
		}
		p[i] = Param{Key: k, Value: v}
	}
	return p
}

// listIndex reports whether key is a canonical non-negative integer.
func listIndex(key string) (int, bool) {
	n, err := strconv.Atoi(key)
	if err != nil || n < 0 || strconv.Itoa(n) != key {
		return 0, false
	}
	return n, true
}

// normalize turns nested Params keyed exactly 0..n-1 into []any.
func normalize(v any) any {
	p, ok := v.(Params)
	if !ok {
		return v
	}
	list := true
	for i := range p {
		p[i].Value = normalize(p[i].Value)
		if p[i].Key != strconv.Itoa(i) {
			list = false
		}
	}
	if !list {
		return p
	}
	out := make([]any, len(p))
	for i := range p {
		out[i] = p[i].Value
	}
	return out
}

func appendLeaf(b *strings.Builder, name, value string) {
	if b.Len() > 0 {
		b.WriteByte('&')
	}
	b.WriteString(url.QueryEscape(name))
	b.WriteByte('=')
	b.WriteString(url.QueryEscape(value))
}

func child(name, key string) string {
	return name + "[" + key + "]"
}

func appendValue(b *strings.Builder, name string, v any) {
	switch t := v.(type) {
	case nil:
	case string:
		appendLeaf(b, name, t)
	case []byte:
		appendLeaf(b, name, string(t))
	case bool:
		if t {
			appendLeaf(b, name, "1")
		} else {
			appendLeaf(b, name, "0")
		}
	case int:
		appendLeaf(b, name, strconv.Itoa(t))
	case int64:
		appendLeaf(b, name, strconv.FormatInt(t, 10))
	case float64:
		appendLeaf(b, name, strconv.FormatFloat(t, 'f', -1, 64))
	case float32:
		appendLeaf(b, name, strconv.FormatFloat(float64(t), 'f', -1, 32))
	case Params:
		for _, e := range t {
			appendValue(b, child(name, e.Key), e.Value)
		}
	case []any:
		for i, e := range t {
			appendValue(b, child(name, strconv.Itoa(i)), e)
		}
	case []string:
		for i, e := range t {
			appendLeaf(b, child(name, strconv.Itoa(i)), e)
		}
	case map[string]any:
		for _, k := range slices.Sorted(maps.Keys(t)) {
			appendValue(b, child(name, k), t[k])
		}
	case map[string]string:
		for _, k := range slices.Sorted(maps.Keys(t)) {
			appendLeaf(b, child(name, k), t[k])
		}
	default:
		rv := reflect.ValueOf(v)
		for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
			if rv.IsNil() {
				return
			}
			rv = rv.Elem()
		}
		// Structs are encoded field by field even when they implement
		// fmt.Stringer; Merge stringifies them beforehand unless told not to.
		if s, ok := v.(fmt.Stringer); ok && rv.Kind() != reflect.Struct {
			appendLeaf(b, name, s.String())
			return
		}
		appendReflect(b, name, rv)
	}
}

func appendReflect(b *strings.Builder, name string, rv reflect.Value) {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := range rv.Len() {
			appendValue(b, child(name, strconv.Itoa(i)), rv.Index(i).Interface())
		}
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			appendLeaf(b, name, fmt.Sprint(rv.Interface()))
			return
		}
		keys := rv.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			return strings.Compare(a.String(), b.String())
		})
		for _, k := range keys {
			appendValue(b, child(name, k.String()), rv.MapIndex(k).Interface())
		}
	case reflect.Struct:
		rt := rv.Type()
		for i := range rt.NumField() {
			f := rt.Field(i)
			if !f.IsExported() {
				continue
			}
			appendValue(b, child(name, f.Name), rv.Field(i).Interface())
		}
	case reflect.Bool:
		appendValue(b, name, rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		appendLeaf(b, name, strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		appendLeaf(b, name, strconv.FormatUint(rv.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		appendLeaf(b, name, strconv.FormatFloat(rv.Float(), 'f', -1, rv.Type().Bits()))
	case reflect.String:
		appendLeaf(b, name, rv.String())
	default:
		appendLeaf(b, name, fmt.Sprint(rv.Interface()))
	}
}
