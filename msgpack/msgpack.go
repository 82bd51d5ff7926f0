// Package msgpack provides a MessagePack codec implementation.
//
// Struct fields are keyed by their msgpack tag, or the Go field name when
// there is none; toggle sections use the same rule for their payloads.
// Encoder options set here also apply to the payloads of enabled sections.
package msgpack

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/toggle"
)

// msgpackCodec implements toggle.Codec for MessagePack.
type msgpackCodec struct {
	sortMapKeys bool
	compactInts bool
}

// Option configures the MessagePack codec.
type Option func(*msgpackCodec)

// WithSortedMapKeys writes Go map entries in key order, for byte-stable output.
func WithSortedMapKeys() Option {
	return func(c *msgpackCodec) {
		c.sortMapKeys = true
	}
}

// WithCompactInts writes every integer in its smallest encoding.
func WithCompactInts() Option {
	return func(c *msgpackCodec) {
		c.compactInts = true
	}
}

// New returns a MessagePack codec.
func New(opts ...Option) toggle.Codec {
	c := &msgpackCodec{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ContentType returns the MIME type for MessagePack.
func (c *msgpackCodec) ContentType() string {
	return "application/msgpack"
}

// Marshal encodes v as MessagePack.
func (c *msgpackCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(c.sortMapKeys)
	enc.UseCompactInts(c.compactInts)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes MessagePack data into v.
func (c *msgpackCodec) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}
