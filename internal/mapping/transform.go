package mapping

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"subio/internal/common"
	"subio/internal/node"
)

// TransformFunc reshapes a field value during unification.
type TransformFunc func(value any) (any, error)

// Built-in transform names.
const (
	TransformString = "string"
	TransformInt    = "int"
	TransformBool   = "bool"
	TransformList   = "list"
	TransformLower  = "lower"
	TransformPort   = "port"
)

// Valid port range for the port transform.
const (
	minPort = 1
	maxPort = 65535
)

// Registry holds named transforms and provides lookup.
type Registry struct {
	transforms map[string]TransformFunc
}

// NewRegistry creates a new empty transform registry.
func NewRegistry() *Registry {
	return &Registry{
		transforms: make(map[string]TransformFunc),
	}
}

// DefaultRegistry creates a registry holding the built-in transforms.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(TransformString, toString)
	r.Register(TransformInt, toInt)
	r.Register(TransformBool, toBool)
	r.Register(TransformList, toList)
	r.Register(TransformLower, toLower)
	r.Register(TransformPort, toPort)

	return r
}

// Register adds or replaces a transform.
func (r *Registry) Register(name string, fn TransformFunc) {
	r.transforms[name] = fn
}

// Get returns the transform registered under name.
func (r *Registry) Get(name string) (TransformFunc, bool) {
	if r == nil {
		return nil, false
	}

	fn, ok := r.transforms[name]

	return fn, ok
}

// Has returns true if a transform with the given name exists.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Names returns all transform names, sorted.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}

	names := make([]string, 0, len(r.transforms))
	for name := range r.transforms {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

func toString(v any) (any, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case int:
		return strconv.Itoa(val), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case []string:
		return strings.Join(val, ","), nil
	default:
		return nil, fmt.Errorf("cannot convert %T to string", v)
	}
}

func toInt(v any) (any, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case float64:
		if val != math.Trunc(val) {
			return nil, fmt.Errorf("%v is not an integer", val)
		}

		return int(val), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", val)
		}

		return i, nil
	default:
		return nil, fmt.Errorf("cannot convert %T to int", v)
	}
}

func toBool(v any) (any, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case int:
		return val != 0, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		if err != nil {
			return nil, fmt.Errorf("%q is not a boolean", val)
		}

		return b, nil
	default:
		return nil, fmt.Errorf("cannot convert %T to bool", v)
	}
}

func toList(v any) (any, error) {
	switch val := v.(type) {
	case []string:
		return val, nil
	case string:
		return common.NonEmpty(common.SplitTrim(val, ",")), nil
	case []any:
		out := make([]string, 0, len(val))

		for _, item := range val {
			s, err := toString(item)
			if err != nil {
				return nil, err
			}

			out = append(out, s.(string))
		}

		return out, nil
	case *node.Record, []*node.Record:
		return nil, fmt.Errorf("cannot convert %T to list", v)
	default:
		s, err := toString(v)
		if err != nil {
			return nil, err
		}

		return []string{s.(string)}, nil
	}
}

func toLower(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("cannot lowercase %T", v)
	}

	return strings.ToLower(s), nil
}

func toPort(v any) (any, error) {
	i, err := toInt(v)
	if err != nil {
		return nil, err
	}

	if !common.IsInRange(minPort, i.(int), maxPort) {
		return nil, fmt.Errorf("port %d out of range %d-%d", i, minPort, maxPort)
	}

	return i, nil
}
