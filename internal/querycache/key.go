package querycache

import "strings"

const separator = "|"

// Key identifies a cached query: the resource name followed by the query's parameters.
type Key []string

func (k Key) String() string {
	return strings.Join(k, separator)
}

// HasPrefix reports whether k equals prefix or starts with all of its segments.
func (k Key) HasPrefix(prefix Key) bool {
	return matches(k.String(), prefix.String())
}

func matches(key, prefix string) bool {
	return key == prefix || strings.HasPrefix(key, prefix+separator)
}

// ResourceKey matches every cached query of a resource.
func ResourceKey(resource string) Key {
	return Key{resource}
}

// ListPrefix matches every cached list query of a resource.
func ListPrefix(resource string) Key {
	return Key{resource, "list"}
}

// ListKey is the key of one list query, params is the encoded query string.
func ListKey(resource string, params string) Key {
	return Key{resource, "list", params}
}

// EntityKey is the key of a single entity of a resource.
func EntityKey(resource string, id string) Key {
	return Key{resource, "id", id}
}
