package cache

import (
	"fmt"
	"strconv"
	"strings"
)

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = "::"

// entityKeySerializer builds composite keys of the form namespace::pk[::pk...].
// Namespacing per entity type keeps primary keys of different tables from
// colliding inside a single shared cache.
type entityKeySerializer struct{}

// NewDefaultKeySerializer creates a new instance of the default key serializer.
func NewDefaultKeySerializer() KeySerializer {
	return &entityKeySerializer{}
}

// SerializeKey builds a cache key from the namespace and primary key parts.
func (s *entityKeySerializer) SerializeKey(namespace string, args ...any) string {
	if len(args) == 0 {
		return namespace
	}

	parts := make([]string, 0, len(args)+1)
	parts = append(parts, namespace)
	for _, arg := range args {
		parts = append(parts, s.serializeValue(arg))
	}

	return strings.Join(parts, KeySeparator)
}

// NamespacePrefix returns the prefix shared by every key of namespace.
func NamespacePrefix(namespace string) string {
	return namespace + KeySeparator
}

// serializeValue formats a parsed primary key. Keys are int64 or canonical
// strings; other values use their default format.
func (s *entityKeySerializer) serializeValue(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case int64:
		return strconv.FormatInt(value, 10)
	}
	return fmt.Sprint(v)
}
