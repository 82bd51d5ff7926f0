package toggle

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// DecodeMsgpack implements msgpack.CustomDecoder.
// msgpack/v5 resets a section to Off on nil before this hook runs; called
// directly, a nil leaves the section untouched.
func (e *Enable[T]) DecodeMsgpack(dec *msgpack.Decoder) error {
	entries, ok, err := msgpackEntries(dec)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	// Decoding into maps keeps the last of repeated keys.
	on, rest, err := split(formatMsgpack, entries, lastWins, msgpackBool)
	if err != nil {
		return err
	}
	if !on {
		*e = Off[T]()
		return nil
	}

	section, err := msgpackMap(rest)
	if err != nil {
		return err
	}

	var v T
	if err := msgpack.Unmarshal(section, &v); err != nil {
		return err
	}
	*e = On(v)
	return nil
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (e Enable[T]) EncodeMsgpack(enc *msgpack.Encoder) error {
	var entries []entry[msgpack.RawMessage]
	if e.on {
		payload, err := msgpackPayload(enc, e.value)
		if err != nil {
			return err
		}
		var ok bool
		entries, ok, err = msgpackEntries(msgpack.NewDecoder(bytes.NewReader(payload)))
		if errors.Is(err, ErrNotSection) || (err == nil && !ok) {
			return newSectionError(ErrPayloadShape, formatMsgpack, "", nil)
		}
		if err != nil {
			return err
		}
		if err := reservedKey(formatMsgpack, entries); err != nil {
			return err
		}
	}

	if err := enc.EncodeMapLen(len(entries) + 1); err != nil {
		return err
	}
	if err := enc.EncodeString(DiscriminantKey); err != nil {
		return err
	}
	if err := enc.EncodeBool(e.on); err != nil {
		return err
	}
	for _, en := range entries {
		if err := enc.EncodeString(en.key); err != nil {
			return err
		}
		if err := enc.Encode(en.raw); err != nil {
			return err
		}
	}
	return nil
}

// msgpackPayload encodes v into a separate buffer using enc's own settings,
// so options such as sorted map keys apply inside sections too. The string
// dictionary, if any, is suspended for the payload and restored afterwards.
func msgpackPayload(enc *msgpack.Encoder, v any) ([]byte, error) {
	var buf bytes.Buffer
	w := enc.Writer()
	err := enc.WithDict(nil, func(enc *msgpack.Encoder) error {
		enc.ResetWriter(&buf)
		defer enc.ResetWriter(w)
		return enc.Encode(v)
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// msgpackEntries reads one map from dec, keeping each value as raw bytes.
// ok is false for a nil value.
func msgpackEntries(dec *msgpack.Decoder) (entries []entry[msgpack.RawMessage], ok bool, err error) {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return nil, false, newSectionError(ErrNotSection, formatMsgpack, "", err)
	}
	if n < 0 {
		return nil, false, nil
	}

	entries = make([]entry[msgpack.RawMessage], 0, n)
	for i := 0; i < n; i++ {
		key, err := dec.DecodeString()
		if err != nil {
			return nil, true, err
		}
		raw, err := dec.DecodeRaw()
		if err != nil {
			return nil, true, err
		}
		entries = append(entries, entry[msgpack.RawMessage]{key: key, raw: raw})
	}
	return entries, true, nil
}

// msgpackMap writes entries back out as a msgpack map, keeping their order.
func msgpackMap(entries []entry[msgpack.RawMessage]) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := enc.EncodeMapLen(len(entries)); err != nil {
		return nil, err
	}
	for _, en := range entries {
		if err := enc.EncodeString(en.key); err != nil {
			return nil, err
		}
		if err := enc.Encode(en.raw); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// msgpackBool accepts only the msgpack true and false codes.
func msgpackBool(raw msgpack.RawMessage) (bool, error) {
	if len(raw) != 1 {
		return false, fmt.Errorf("got %d byte value", len(raw))
	}
	switch raw[0] {
	case msgpcode.True:
		return true, nil
	case msgpcode.False:
		return false, nil
	default:
		return false, fmt.Errorf("invalid code=%x", raw[0])
	}
}
