package toggle

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// UnmarshalXML implements xml.Unmarshaler.
// The discriminant is the child element <enable>.
func (e *Enable[T]) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	entries, ok, err := xmlEntries(d)
	if err != nil {
		return err
	}
	if !ok {
		return newSectionError(ErrNotSection, formatXML, start.Name.Local, nil)
	}

	// encoding/xml overwrites a scalar field on every repeated element.
	on, rest, err := split(formatXML, entries, lastWins, xmlBool)
	if err != nil {
		return err
	}
	if !on {
		*e = Off[T]()
		return nil
	}

	stream := make([]xml.Token, 0, 2+len(rest))
	stream = append(stream, start)
	for _, en := range rest {
		stream = append(stream, en.raw...)
	}
	stream = append(stream, start.End())

	var v T
	if err := xml.NewTokenDecoder(&tokenReader{tokens: stream}).Decode(&v); err != nil {
		return err
	}
	*e = On(v)
	return nil
}

// MarshalXML implements xml.Marshaler.
// The payload's own root element is dropped; its attributes move to start.
func (e Enable[T]) MarshalXML(enc *xml.Encoder, start xml.StartElement) error {
	var body []entry[[]xml.Token]
	if e.on {
		payload, err := xml.Marshal(e.value)
		if err != nil {
			return err
		}
		d := xml.NewDecoder(bytes.NewReader(payload))
		root, err := xmlRoot(d)
		if err != nil {
			return newSectionError(ErrPayloadShape, formatXML, "", err)
		}
		var ok bool
		body, ok, err = xmlEntries(d)
		if err != nil {
			return err
		}
		if !ok {
			return newSectionError(ErrPayloadShape, formatXML, root.Name.Local, nil)
		}
		if err := reservedKey(formatXML, body); err != nil {
			return err
		}
		start.Attr = append(append([]xml.Attr{}, start.Attr...), root.Attr...)
	}

	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if err := enc.EncodeElement(e.on, xml.StartElement{Name: xml.Name{Local: DiscriminantKey}}); err != nil {
		return err
	}
	for _, en := range body {
		for _, tok := range en.raw {
			if err := enc.EncodeToken(tok); err != nil {
				return err
			}
		}
	}
	return enc.EncodeToken(start.End())
}

// xmlEntries reads the children of the element whose start tag was just
// consumed, up to and including its end tag. Each child element becomes one
// entry holding its full token run. ok is false when the element carries
// text of its own, which makes it a scalar rather than a section.
func xmlEntries(d *xml.Decoder) (entries []entry[[]xml.Token], ok bool, err error) {
	ok = true
	var (
		cur   []xml.Token
		key   string
		depth int
	)
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, false, err
		}
		tok = xml.CopyToken(tok)

		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				key = t.Name.Local
				cur = nil
			}
			depth++
			cur = append(cur, t)
		case xml.EndElement:
			if depth == 0 {
				return entries, ok, nil
			}
			depth--
			cur = append(cur, t)
			if depth == 0 {
				entries = append(entries, entry[[]xml.Token]{key: key, raw: cur})
				cur = nil
			}
		case xml.CharData:
			if depth == 0 {
				if len(bytes.TrimSpace(t)) > 0 {
					ok = false
				}
				continue
			}
			cur = append(cur, t)
		default:
			if depth > 0 {
				cur = append(cur, tok)
			}
		}
	}
}

// xmlRoot advances d to the first start element.
func xmlRoot(d *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := d.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se.Copy(), nil
		}
	}
}

// xmlBool reads a discriminant element with encoding/xml's boolean rules.
func xmlBool(tokens []xml.Token) (bool, error) {
	var text strings.Builder
	for _, tok := range tokens[1 : len(tokens)-1] {
		switch t := tok.(type) {
		case xml.StartElement:
			return false, fmt.Errorf("unexpected element <%s>", t.Name.Local)
		case xml.CharData:
			text.Write(t)
		}
	}
	return strconv.ParseBool(strings.TrimSpace(text.String()))
}

// tokenReader replays buffered tokens as an xml.TokenReader.
type tokenReader struct {
	tokens []xml.Token
	pos    int
}

func (r *tokenReader) Token() (xml.Token, error) {
	if r.pos >= len(r.tokens) {
		return nil, io.EOF
	}
	tok := r.tokens[r.pos]
	r.pos++
	return tok, nil
}
