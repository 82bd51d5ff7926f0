// Package xml provides an XML codec implementation.
//
// Toggle sections appear as elements whose first child is <enable>.
package xml

import (
	"encoding/xml"

	"github.com/zoobzio/toggle"
)

// xmlCodec implements toggle.Codec for XML.
type xmlCodec struct {
	indent string
	header bool
}

// Option configures the XML codec.
type Option func(*xmlCodec)

// WithIndent pretty-prints output, using indent for each nesting level.
func WithIndent(indent string) Option {
	return func(c *xmlCodec) {
		c.indent = indent
	}
}

// WithHeader prefixes output with the standard XML declaration.
func WithHeader() Option {
	return func(c *xmlCodec) {
		c.header = true
	}
}

// New returns an XML codec.
func New(opts ...Option) toggle.Codec {
	c := &xmlCodec{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ContentType returns the MIME type for XML.
func (c *xmlCodec) ContentType() string {
	return "application/xml"
}

// Marshal encodes v as XML.
func (c *xmlCodec) Marshal(v any) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if c.indent != "" {
		data, err = xml.MarshalIndent(v, "", c.indent)
	} else {
		data, err = xml.Marshal(v)
	}
	if err != nil {
		return nil, err
	}
	if c.header {
		data = append([]byte(xml.Header), data...)
	}
	return data, nil
}

// Unmarshal decodes XML data into v.
func (c *xmlCodec) Unmarshal(data []byte, v any) error {
	return xml.Unmarshal(data, v)
}
