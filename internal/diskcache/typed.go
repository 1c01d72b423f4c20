package diskcache

import "encoding/json"

// responseKeyPrefix namespaces the typed-JSON keyspace (§4.11's "second
// keyspace layered on top") away from the raw byte payloads stored under
// the plain content-hash key. Prefixing keeps both keyspaces inside the
// one flat directory the cache is defined over, while staying within
// the alphanumeric/hyphen/underscore charset validateKey enforces.
const responseKeyPrefix = "resp_"

// SetJSON stores v as a typed JSON payload (e.g. a parse-response) under
// key's namespaced slot.
func (c *Cache) SetJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.SetBytes(responseKeyPrefix+key, data)
}

// GetJSON reads a typed JSON payload previously stored by SetJSON into
// dst, reporting whether it was present.
func (c *Cache) GetJSON(key string, dst any) (bool, error) {
	data, ok, err := c.GetBytes(responseKeyPrefix + key)
	if err != nil || !ok {
		return false, err
	}
	return true, json.Unmarshal(data, dst)
}

// HasJSON reports whether a typed JSON payload exists under key.
func (c *Cache) HasJSON(key string) (bool, error) {
	return c.Has(responseKeyPrefix + key)
}

// RemoveJSON removes the typed JSON payload under key.
func (c *Cache) RemoveJSON(key string) error {
	return c.Remove(responseKeyPrefix + key)
}
