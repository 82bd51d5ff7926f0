package toggle_test

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zoobzio/toggle"
	toggletest "github.com/zoobzio/toggle/testing"
	"gopkg.in/yaml.v3"
)

var errMissingField = errors.New("missing required field")

// strictInside refuses documents that leave out either field.
type strictInside struct {
	Thing uint32
	Other string
}

type strictWire struct {
	Thing *uint32 `yaml:"thing" json:"thing"`
	Other *string `yaml:"other" json:"other"`
}

func (s *strictInside) fill(w strictWire) error {
	if w.Thing == nil {
		return fmt.Errorf("thing: %w", errMissingField)
	}
	if w.Other == nil {
		return fmt.Errorf("other: %w", errMissingField)
	}
	s.Thing, s.Other = *w.Thing, *w.Other
	return nil
}

func (s *strictInside) UnmarshalYAML(node *yaml.Node) error {
	var w strictWire
	if err := node.Decode(&w); err != nil {
		return err
	}
	return s.fill(w)
}

func (s *strictInside) UnmarshalJSON(data []byte) error {
	var w strictWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	return s.fill(w)
}

// clash encodes a key that collides with the discriminant.
type clash struct {
	Enable bool   `yaml:"enable" json:"enable" msgpack:"enable" bson:"enable" xml:"enable"`
	Name   string `yaml:"name" json:"name" msgpack:"name" bson:"name" xml:"name"`
}

// nested carries a section inside a section payload.
type nested struct {
	Label string                          `yaml:"label" json:"label" msgpack:"label" bson:"label" xml:"label"`
	Inner toggle.Enable[toggletest.Inside] `yaml:"inner" json:"inner" msgpack:"inner" bson:"inner" xml:"inner"`
}
