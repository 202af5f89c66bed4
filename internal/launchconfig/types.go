// Package launchconfig reads, merges and writes VS Code launch.json files.
//
// Documents are kept as ordered field sets with raw JSON values, so entries
// and top-level keys this tool does not manage (compounds, inputs, fields
// added by hand) survive a rewrite in their original order.
package launchconfig

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const (
	// DefaultVersion is the launch.json schema version written for new files.
	DefaultVersion = "0.2.0"

	keyVersion        = "version"
	keyConfigurations = "configurations"
	keyCompounds      = "compounds"
)

type rawFields = orderedmap.OrderedMap[string, json.RawMessage]

func newRawFields() *rawFields {
	return orderedmap.New[string, json.RawMessage]()
}

// unmarshalObject decodes a JSON object into ordered raw fields, rejecting
// any other kind of value.
func unmarshalObject(data []byte, what string) (*rawFields, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%s must be a JSON object", what)
	}
	m := newRawFields()
	if err := m.UnmarshalJSON(trimmed); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", what, err)
	}
	return m, nil
}

// encodeJSON marshals v without HTML escaping, so '&', '<' and '>' are
// written as themselves.
func encodeJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// writeObject writes fields as a JSON object. Values are copied verbatim.
func writeObject(buf *bytes.Buffer, fields *rawFields) error {
	buf.WriteByte('{')
	if fields != nil {
		first := true
		for pair := fields.Oldest(); pair != nil; pair = pair.Next() {
			if len(bytes.TrimSpace(pair.Value)) == 0 {
				return fmt.Errorf("field %q has no value", pair.Key)
			}
			if !first {
				buf.WriteByte(',')
			}
			first = false
			key, err := encodeJSON(pair.Key)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(pair.Value)
		}
	}
	buf.WriteByte('}')
	return nil
}

// LaunchJSON represents a VS Code launch.json file structure.
type LaunchJSON struct {
	// doc holds every top-level key in file order; the value stored under
	// "configurations" is stale and replaced from Configurations on output.
	doc *rawFields

	Configurations []*DebugConfiguration
}

// New returns an empty document: {"version": "0.2.0", "configurations": []}.
func New() *LaunchJSON {
	doc := newRawFields()
	doc.Set(keyVersion, mustRaw(DefaultVersion))
	doc.Set(keyConfigurations, json.RawMessage(`[]`))
	return &LaunchJSON{
		doc:            doc,
		Configurations: []*DebugConfiguration{},
	}
}

// Version returns the document's version string, or "" when absent.
func (lj *LaunchJSON) Version() string {
	raw, ok := lj.doc.Get(keyVersion)
	if !ok {
		return ""
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	return v
}

// Keys returns the top-level keys in document order.
func (lj *LaunchJSON) Keys() []string {
	keys := make([]string, 0, lj.doc.Len())
	for pair := lj.doc.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Compounds decodes the compound configurations, if any.
func (lj *LaunchJSON) Compounds() ([]CompoundConfig, error) {
	raw, ok := lj.doc.Get(keyCompounds)
	if !ok {
		return nil, nil
	}
	var compounds []CompoundConfig
	if err := json.Unmarshal(raw, &compounds); err != nil {
		return nil, fmt.Errorf("failed to parse compounds: %w", err)
	}
	return compounds, nil
}

// UnmarshalJSON implements json.Unmarshaler. The document must be an object
// and "configurations", when present, an array of objects.
func (lj *LaunchJSON) UnmarshalJSON(data []byte) error {
	doc, err := unmarshalObject(data, "launch.json")
	if err != nil {
		return err
	}

	configs := []*DebugConfiguration{}
	if raw, ok := doc.Get(keyConfigurations); ok {
		trimmed := bytes.TrimSpace(raw)
		switch {
		case bytes.Equal(trimmed, []byte("null")):
		case len(trimmed) > 0 && trimmed[0] == '[':
			if err := json.Unmarshal(trimmed, &configs); err != nil {
				return fmt.Errorf("failed to parse configurations: %w", err)
			}
			for i, cfg := range configs {
				if cfg == nil {
					return fmt.Errorf("configuration[%d] must be a JSON object", i)
				}
			}
		default:
			return fmt.Errorf("configurations must be an array")
		}
	}

	lj.doc = doc
	lj.Configurations = configs
	return nil
}

// MarshalJSON implements json.Marshaler. Top-level values other than
// "configurations" are copied verbatim.
func (lj *LaunchJSON) MarshalJSON() ([]byte, error) {
	var configs bytes.Buffer
	configs.WriteByte('[')
	for i, cfg := range lj.Configurations {
		if i > 0 {
			configs.WriteByte(',')
		}
		if err := writeObject(&configs, cfg.fields); err != nil {
			return nil, fmt.Errorf("configuration[%d]: %w", i, err)
		}
	}
	configs.WriteByte(']')

	out := newRawFields()
	if lj.doc != nil {
		for pair := lj.doc.Oldest(); pair != nil; pair = pair.Next() {
			out.Set(pair.Key, pair.Value)
		}
	}
	out.Set(keyConfigurations, configs.Bytes())

	var buf bytes.Buffer
	if err := writeObject(&buf, out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DebugConfiguration represents a single debug configuration in launch.json.
// Fields keep their file order and their original JSON encoding.
type DebugConfiguration struct {
	fields *rawFields
}

// NewDebugConfiguration returns an entry with no fields.
func NewDebugConfiguration() *DebugConfiguration {
	return &DebugConfiguration{fields: newRawFields()}
}

func (c *DebugConfiguration) ensure() {
	if c.fields == nil {
		c.fields = newRawFields()
	}
}

// Set encodes value as JSON and stores it under key. Existing keys keep their
// position; new keys go last.
func (c *DebugConfiguration) Set(key string, value interface{}) error {
	raw, err := encodeJSON(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	c.SetRaw(key, raw)
	return nil
}

// SetRaw stores already encoded JSON under key.
func (c *DebugConfiguration) SetRaw(key string, raw json.RawMessage) {
	c.ensure()
	c.fields.Set(key, raw)
}

// Raw returns the JSON encoding of key.
func (c *DebugConfiguration) Raw(key string) (json.RawMessage, bool) {
	if c.fields == nil {
		return nil, false
	}
	return c.fields.Get(key)
}

// Has reports whether key is present.
func (c *DebugConfiguration) Has(key string) bool {
	_, ok := c.Raw(key)
	return ok
}

// GetString returns key as a string, or "" when absent or not a string.
func (c *DebugConfiguration) GetString(key string) string {
	raw, ok := c.Raw(key)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Name is the entry's identity within launch.json.
func (c *DebugConfiguration) Name() string { return c.GetString("name") }

// Type is the debugger type, e.g. "cppdbg" or "lldb".
func (c *DebugConfiguration) Type() string { return c.GetString("type") }

// Request is "launch" or "attach".
func (c *DebugConfiguration) Request() string { return c.GetString("request") }

// Program is the debugged binary.
func (c *DebugConfiguration) Program() string { return c.GetString("program") }

// Keys returns the field names in order.
func (c *DebugConfiguration) Keys() []string {
	if c.fields == nil {
		return nil
	}
	keys := make([]string, 0, c.fields.Len())
	for pair := c.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Len returns the number of fields.
func (c *DebugConfiguration) Len() int {
	if c.fields == nil {
		return 0
	}
	return c.fields.Len()
}

// Replace drops every field of c and copies in the fields of other, in
// other's order.
func (c *DebugConfiguration) Replace(other *DebugConfiguration) {
	c.fields = other.Clone().fields
}

// Clone creates a deep copy of the configuration.
func (c *DebugConfiguration) Clone() *DebugConfiguration {
	clone := NewDebugConfiguration()
	if c.fields == nil {
		return clone
	}
	for pair := c.fields.Oldest(); pair != nil; pair = pair.Next() {
		clone.fields.Set(pair.Key, append(json.RawMessage(nil), pair.Value...))
	}
	return clone
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *DebugConfiguration) UnmarshalJSON(data []byte) error {
	fields, err := unmarshalObject(data, "configuration")
	if err != nil {
		return err
	}
	c.fields = fields
	return nil
}

// MarshalJSON implements json.Marshaler.
func (c *DebugConfiguration) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeObject(&buf, c.fields); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Object is an ordered JSON object for nested values such as lldb's
// sourceMap.
type Object struct {
	fields *rawFields
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{fields: newRawFields()}
}

// Set encodes value as JSON and stores it under key.
func (o *Object) Set(key string, value interface{}) error {
	raw, err := encodeJSON(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	o.fields.Set(key, raw)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeObject(&buf, o.fields); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CompoundConfig represents a compound configuration that launches multiple debug sessions.
type CompoundConfig struct {
	Name           string   `json:"name"`
	Configurations []string `json:"configurations"`
	PreLaunchTask  string   `json:"preLaunchTask,omitempty"`
	StopAll        bool     `json:"stopAll,omitempty"`
}

func mustRaw(v interface{}) json.RawMessage {
	raw, err := encodeJSON(v)
	if err != nil {
		panic(err)
	}
	return raw
}
