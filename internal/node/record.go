package node

import (
	"crypto/md5"
	"iter"
	"slices"

	"github.com/google/uuid"
)

// Well-known keys every canonical node carries.
const (
	KeyName = "name"
	KeyType = "type"
)

// Record is an insertion-ordered string-keyed mapping.
// The zero value is an empty record ready to use.
type Record struct {
	keys   []string
	values map[string]any
}

// Pair is a single key/value entry used to build records literally.
type Pair struct {
	Key   string
	Value any
}

// New creates an empty record.
func New() *Record {
	return &Record{values: make(map[string]any)}
}

// Of creates a record from the given pairs, in order.
// A repeated key overwrites the earlier value but keeps its position.
func Of(pairs ...Pair) *Record {
	r := New()
	for _, p := range pairs {
		r.Set(p.Key, p.Value)
	}

	return r
}

// Len returns the number of keys in the record.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}

	return len(r.keys)
}

// Keys returns a copy of the record keys in order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}

	return slices.Clone(r.keys)
}

// All iterates over the record entries in order.
func (r *Record) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if r == nil {
			return
		}

		for _, k := range r.keys {
			if !yield(k, r.values[k]) {
				return
			}
		}
	}
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (any, bool) {
	if r == nil || r.values == nil {
		return nil, false
	}

	v, ok := r.values[key]

	return v, ok
}

// Has reports whether key is present.
func (r *Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// String returns the value under key if it is a string, or "".
func (r *Record) String(key string) string {
	v, _ := r.Get(key)
	s, _ := v.(string)

	return s
}

// Name returns the node name.
func (r *Record) Name() string {
	return r.String(KeyName)
}

// Type returns the node type.
func (r *Record) Type() string {
	return r.String(KeyType)
}

// Set stores value under key. An existing key keeps its position.
func (r *Record) Set(key string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}

	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}

	r.values[key] = value
}

// Delete removes key and reports whether it was present.
func (r *Record) Delete(key string) bool {
	if !r.Has(key) {
		return false
	}

	delete(r.values, key)
	r.keys = slices.DeleteFunc(r.keys, func(k string) bool { return k == key })

	return true
}

// Rename moves the value under from to the key to, at from's position.
// If to already exists elsewhere it is replaced. Returns false if from is
// absent.
func (r *Record) Rename(from, to string) bool {
	v, ok := r.Get(from)
	if !ok {
		return false
	}

	if from == to {
		return true
	}

	if r.Has(to) {
		r.Delete(to)
	}

	idx := slices.Index(r.keys, from)
	r.keys[idx] = to

	delete(r.values, from)
	r.values[to] = v

	return true
}

// Clone returns a deep copy of the record. Nested records, record slices and
// string slices are copied; other values are immutable scalars.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}

	out := &Record{
		keys:   slices.Clone(r.keys),
		values: make(map[string]any, len(r.values)),
	}

	for k, v := range r.values {
		out.values[k] = cloneValue(v)
	}

	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case *Record:
		return val.Clone()
	case []*Record:
		out := make([]*Record, len(val))
		for i, rec := range val {
			out[i] = rec.Clone()
		}

		return out
	case []string:
		return slices.Clone(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}

		return out
	default:
		return v
	}
}

// Truthy reports whether a field value counts as "set" for feature flags
// such as ws=true. Strings are truthy when non-empty.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case float64:
		return val != 0
	case *Record:
		return val.Len() > 0
	case []string:
		return len(val) > 0
	case []*Record:
		return len(val) > 0
	case []any:
		return len(val) > 0
	default:
		return true
	}
}

// UUID derives a stable, UUID-formatted identifier from a node name.
// The value is the MD5 digest of the name laid out as a UUID, which is what
// Shadowrocket-style clients expect in their node lists.
func UUID(name string) string {
	sum := md5.Sum([]byte(name))

	// FromBytes only fails on a length mismatch.
	id, _ := uuid.FromBytes(sum[:])

	return id.String()
}

// DuplicateNames returns node names that occur more than once, in the order
// of their first repetition.
func DuplicateNames(nodes []*Record) []string {
	seen := make(map[string]int, len(nodes))

	var dups []string

	for _, n := range nodes {
		name := n.Name()
		seen[name]++

		if seen[name] == 2 {
			dups = append(dups, name)
		}
	}

	return dups
}
