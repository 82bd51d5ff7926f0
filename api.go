// Package toggle provides a switchable section type for structured documents.
//
// Enable[T] wraps a payload T behind a single boolean key, "enable", that sits
// inline with T's own fields. When the key is true the remaining fields must
// decode as a complete T. When it is false the section is off and every other
// field is ignored, whatever its shape.
//
// # Document Shape
//
//	server:
//	  tls:
//	    enable: true
//	    cert: /etc/tls/cert.pem
//	    key: /etc/tls/key.pem
//	  metrics:
//	    enable: false
//	    port: not-even-a-number
//
// The discriminant may appear anywhere in the map. Encoding always writes it
// first, followed by T's fields in T's own order when the section is on.
//
// # Basic Usage
//
//	type TLS struct {
//	    Cert string `yaml:"cert"`
//	    Key  string `yaml:"key"`
//	}
//
//	type Server struct {
//	    TLS toggle.Enable[TLS] `yaml:"tls"`
//	}
//
//	var s Server
//	_ = yaml.Unmarshal(data, &s)
//
//	if tls, ok := s.TLS.Get(); ok {
//	    serveTLS(tls.Cert, tls.Key)
//	}
//
// # Formats
//
// Enable[T] carries the hooks of every supported format, so it works with the
// format libraries directly:
//
//   - YAML via gopkg.in/yaml.v3 (yaml.Unmarshaler, yaml.Marshaler)
//   - JSON via encoding/json (json.Unmarshaler, json.Marshaler)
//   - MessagePack via github.com/vmihailenco/msgpack/v5 (CustomDecoder, CustomEncoder)
//   - BSON via go.mongodb.org/mongo-driver/bson (bson.ValueUnmarshaler, bson.Unmarshaler, bson.Marshaler)
//   - XML via encoding/xml (xml.Unmarshaler, xml.Marshaler), with <enable> as a child element
//
// A null section follows each library's null policy. YAML, JSON and BSON leave
// the field as it was; msgpack/v5 resets it to Off before the hook runs.
//
// The payload of an enabled section is decoded by a fresh decoder of the same
// format, so settings on the caller's decoder do not reach it. In particular
// yaml KnownFields(true), json DisallowUnknownFields and msgpack
// DisallowUnknownFields apply to the fields around a section but not to the
// fields of T inside it. Implement T's own unmarshal hook if T must be strict.
//
// # Codec Providers
//
// Codec implementations for whole documents are available as subpackages:
//
//   - json - JSON encoding (application/json)
//   - xml - XML encoding (application/xml)
//   - yaml - YAML encoding (application/yaml)
//   - msgpack - MessagePack encoding (application/msgpack)
//   - bson - BSON encoding (application/bson)
//
// # Documents
//
// Document[T] loads and dumps a whole configuration type through a Codec and
// reports which sections ended up on:
//
//	doc, _ := toggle.NewDocument[Config](yaml.New())
//	cfg, err := doc.Load(ctx, data)
//	for _, s := range doc.Sections(cfg) {
//	    fmt.Println(s.Path, s.Enabled)
//	}
//
// # Errors
//
// Failures raised by the wrapper itself are *SectionError values wrapping one of
// ErrMissingDiscriminant, ErrTypeMismatch, ErrDuplicateKey, ErrNotSection,
// ErrPayloadShape or ErrReservedKey. Errors produced while decoding T inside an
// enabled section are returned exactly as the format library reported them.
package toggle

// Codec provides content-type aware marshaling.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}

// Toggle is implemented by every Enable[T].
// Document uses it to find sections without knowing their payload types.
type Toggle interface {
	IsEnabled() bool
}
