// Package yaml provides a YAML codec implementation.
package yaml

import (
	"bytes"

	"github.com/zoobzio/toggle"
	"gopkg.in/yaml.v3"
)

// DefaultIndent matches the two-space style of hand-written config files.
const DefaultIndent = 2

// yamlCodec implements toggle.Codec for YAML.
type yamlCodec struct {
	indent int
}

// Option configures the YAML codec.
type Option func(*yamlCodec)

// WithIndent sets the number of spaces used for each nesting level on output.
func WithIndent(spaces int) Option {
	return func(c *yamlCodec) {
		c.indent = spaces
	}
}

// New returns a YAML codec.
func New(opts ...Option) toggle.Codec {
	c := &yamlCodec{indent: DefaultIndent}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Marshal encodes v as YAML.
func (c *yamlCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(c.indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes YAML data into v.
func (c *yamlCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}
