package toggle

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// yamlPair keeps key and value nodes together so a section can be rebuilt.
type yamlPair struct {
	key   *yaml.Node
	value *yaml.Node
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (e *Enable[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	if node.Kind != yaml.MappingNode {
		se := newSectionError(ErrNotSection, formatYAML, "", nil)
		se.Line = node.Line
		return se
	}

	entries := make([]entry[yamlPair], 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		entries = append(entries, entry[yamlPair]{
			key:  k.Value,
			raw:  yamlPair{key: k, value: v},
			line: k.Line,
		})
	}

	// yaml.v3 rejects repeated mapping keys, so the discriminant does too.
	on, rest, err := split(formatYAML, entries, rejectDuplicates, yamlBool)
	if err != nil {
		return err
	}
	if !on {
		*e = Off[T]()
		return nil
	}

	section := *node
	section.Content = make([]*yaml.Node, 0, 2*len(rest))
	for _, en := range rest {
		section.Content = append(section.Content, en.raw.key, en.raw.value)
	}

	var v T
	if err := section.Decode(&v); err != nil {
		return err
	}
	*e = On(v)
	return nil
}

// yamlBool reads a discriminant value. Only scalars resolving to !!bool are
// accepted; yaml.v3 would otherwise turn null into false and YAML 1.1 words
// such as "yes" or "off" into booleans.
func yamlBool(p yamlPair) (bool, error) {
	n := p.value
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!bool" {
		return false, fmt.Errorf("got %s", n.ShortTag())
	}
	var b bool
	if err := n.Decode(&b); err != nil {
		return false, err
	}
	return b, nil
}

// MarshalYAML implements yaml.Marshaler.
func (e Enable[T]) MarshalYAML() (any, error) {
	out := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: DiscriminantKey},
			{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(e.on)},
		},
	}
	if !e.on {
		return out, nil
	}

	var payload yaml.Node
	if err := payload.Encode(e.value); err != nil {
		return nil, err
	}
	if payload.Kind != yaml.MappingNode {
		return nil, newSectionError(ErrPayloadShape, formatYAML, "", fmt.Errorf("got %s", payload.ShortTag()))
	}
	for i := 0; i+1 < len(payload.Content); i += 2 {
		if payload.Content[i].Value == DiscriminantKey {
			return nil, newSectionError(ErrReservedKey, formatYAML, DiscriminantKey, nil)
		}
	}

	out.Content = append(out.Content, payload.Content...)
	return out, nil
}
