package authsession

import "encoding/json"

// Entry is a single key/value pair in a session's property bag.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Properties is the string-keyed property bag persisted alongside an
// authenticated session. Entries keep their insertion order, and updating an
// existing key rewrites the entry in place rather than moving or duplicating
// it, so collaborators that persist the bag verbatim (e.g. a cookie payload)
// see stable layouts across re-issues.
type Properties struct {
	entries []Entry
}

// NewProperties returns an empty property bag.
func NewProperties() *Properties {
	return &Properties{}
}

// Get returns the value stored under key.
func (p *Properties) Get(key string) (string, bool) {
	for _, e := range p.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Set stores value under key, updating an existing entry in place or
// appending a new one.
func (p *Properties) Set(key, value string) {
	if p.Update(key, value) {
		return
	}
	p.Append(key, value)
}

// Update rewrites an existing entry in place and reports whether the key was
// present. The bag is left untouched when the key is absent.
func (p *Properties) Update(key, value string) bool {
	for i := range p.entries {
		if p.entries[i].Key == key {
			p.entries[i].Value = value
			return true
		}
	}
	return false
}

// Append adds a new entry without checking for an existing key. Callers that
// must not create duplicates should use Set or Update.
func (p *Properties) Append(key, value string) {
	p.entries = append(p.entries, Entry{Key: key, Value: value})
}

// Delete removes the entry stored under key and reports whether it existed.
func (p *Properties) Delete(key string) bool {
	for i := range p.entries {
		if p.entries[i].Key == key {
			p.entries = append(p.entries[:i], p.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Entries returns a copy of the bag's entries in insertion order.
func (p *Properties) Entries() []Entry {
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Len returns the number of entries in the bag.
func (p *Properties) Len() int {
	return len(p.entries)
}

// Clone returns a deep copy of the bag.
func (p *Properties) Clone() *Properties {
	if p == nil {
		return nil
	}
	return &Properties{entries: p.Entries()}
}

// MarshalJSON encodes the bag as an ordered list of entries.
func (p *Properties) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.entries)
}

// UnmarshalJSON decodes an ordered list of entries.
func (p *Properties) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &p.entries)
}
