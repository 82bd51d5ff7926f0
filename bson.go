package toggle

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// UnmarshalBSONValue implements bson.ValueUnmarshaler, which the driver
// prefers for struct fields. A BSON null leaves the section untouched; any
// type other than an embedded document is not a section.
func (e *Enable[T]) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null:
		return nil
	case bsontype.EmbeddedDocument:
		return e.UnmarshalBSON(data)
	default:
		return newSectionError(ErrNotSection, formatBSON, "", fmt.Errorf("got BSON %s", t))
	}
}

// UnmarshalBSON implements bson.Unmarshaler for a section decoded on its own.
// Empty input leaves the section untouched.
func (e *Enable[T]) UnmarshalBSON(data []byte) error {
	if len(data) == 0 {
		return nil
	}

	entries, err := bsonEntries(data)
	if err != nil {
		return newSectionError(ErrNotSection, formatBSON, "", err)
	}

	// Decoding into structs keeps the last of repeated keys.
	on, rest, err := split(formatBSON, entries, lastWins, bsonBool)
	if err != nil {
		return err
	}
	if !on {
		*e = Off[T]()
		return nil
	}

	section, err := bson.Marshal(bsonDocument(rest))
	if err != nil {
		return err
	}

	var v T
	if err := bson.Unmarshal(section, &v); err != nil {
		return err
	}
	*e = On(v)
	return nil
}

// MarshalBSON implements bson.Marshaler.
func (e Enable[T]) MarshalBSON() ([]byte, error) {
	doc := bson.D{{Key: DiscriminantKey, Value: e.on}}
	if !e.on {
		return bson.Marshal(doc)
	}

	// bson.Marshal only accepts document-shaped values at the top level.
	payload, err := bson.Marshal(e.value)
	if err != nil {
		return nil, err
	}
	entries, err := bsonEntries(payload)
	if err != nil {
		return nil, newSectionError(ErrPayloadShape, formatBSON, "", err)
	}
	if err := reservedKey(formatBSON, entries); err != nil {
		return nil, err
	}

	return bson.Marshal(append(doc, bsonDocument(entries)...))
}

// bsonEntries splits a BSON document into its elements in source order.
func bsonEntries(data []byte) ([]entry[bson.RawValue], error) {
	elems, err := bson.Raw(data).Elements()
	if err != nil {
		return nil, err
	}
	entries := make([]entry[bson.RawValue], 0, len(elems))
	for _, el := range elems {
		entries = append(entries, entry[bson.RawValue]{key: el.Key(), raw: el.Value()})
	}
	return entries, nil
}

// bsonDocument rebuilds an ordered document from entries without re-decoding values.
func bsonDocument(entries []entry[bson.RawValue]) bson.D {
	doc := make(bson.D, 0, len(entries))
	for _, en := range entries {
		doc = append(doc, bson.E{Key: en.key, Value: en.raw})
	}
	return doc
}

// bsonBool accepts only the BSON boolean type.
func bsonBool(raw bson.RawValue) (bool, error) {
	b, ok := raw.BooleanOK()
	if !ok {
		return false, fmt.Errorf("got BSON %s", raw.Type)
	}
	return b, nil
}
