package toggle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

var jsonNull = []byte("null")

// UnmarshalJSON implements json.Unmarshaler.
// A JSON null leaves the section untouched, following encoding/json convention.
func (e *Enable[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		return nil
	}

	entries, ok, err := jsonEntries(data)
	if err != nil {
		return err
	}
	if !ok {
		return newSectionError(ErrNotSection, formatJSON, "", nil)
	}

	// encoding/json keeps the last of repeated keys.
	on, rest, err := split(formatJSON, entries, lastWins, jsonBool)
	if err != nil {
		return err
	}
	if !on {
		*e = Off[T]()
		return nil
	}

	section, err := jsonObject(rest)
	if err != nil {
		return err
	}

	var v T
	if err := json.Unmarshal(section, &v); err != nil {
		return err
	}
	*e = On(v)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (e Enable[T]) MarshalJSON() ([]byte, error) {
	head := []entry[json.RawMessage]{
		{key: DiscriminantKey, raw: json.RawMessage(strconv.FormatBool(e.on))},
	}
	if !e.on {
		return jsonObject(head)
	}

	payload, err := json.Marshal(e.value)
	if err != nil {
		return nil, err
	}
	entries, ok, err := jsonEntries(payload)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newSectionError(ErrPayloadShape, formatJSON, "", nil)
	}
	if err := reservedKey(formatJSON, entries); err != nil {
		return nil, err
	}

	return jsonObject(append(head, entries...))
}

// jsonEntries reads a JSON object into its members in source order.
// ok is false when data holds some other JSON value.
func jsonEntries(data []byte) (entries []entry[json.RawMessage], ok bool, err error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, false, err
	}
	if d, isDelim := tok.(json.Delim); !isDelim || d != '{' {
		return nil, false, nil
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, true, err
		}
		key, isString := tok.(string)
		if !isString {
			return nil, true, fmt.Errorf("unexpected object key %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, true, err
		}
		entries = append(entries, entry[json.RawMessage]{key: key, raw: raw})
	}
	return entries, true, nil
}

// jsonObject writes entries back out as a JSON object, keeping their order.
func jsonObject(entries []entry[json.RawMessage]) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, en := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(en.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(en.raw)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// jsonBool reads a discriminant value. Null is refused explicitly since
// encoding/json would leave the target at false.
func jsonBool(raw json.RawMessage) (bool, error) {
	if bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		return false, fmt.Errorf("got null")
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, err
	}
	return b, nil
}
