// Package bson provides a BSON codec implementation.
//
// BSON documents must be maps at the top level, so Marshal accepts structs,
// maps and bson.D values only. A nil value marshals as an empty document,
// which unmarshals back to a zero value with every section off.
package bson

import (
	"github.com/zoobzio/toggle"
	"go.mongodb.org/mongo-driver/bson"
)

// bsonCodec implements toggle.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec.
func New() toggle.Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes v as BSON.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	if v == nil {
		return bson.Marshal(bson.D{})
	}
	return bson.Marshal(v)
}

// Unmarshal decodes BSON data into v.
func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	return bson.Unmarshal(data, v)
}
