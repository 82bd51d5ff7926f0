// Package testing provides fixtures for toggle tests.
package testing

import (
	"encoding/xml"

	"github.com/zoobzio/toggle"
)

// Inside is a payload with two required fields.
type Inside struct {
	Thing uint32 `json:"thing" yaml:"thing" msgpack:"thing" bson:"thing" xml:"thing"`
	Other string `json:"other" yaml:"other" msgpack:"other" bson:"other" xml:"other"`
}

// Outside holds a single toggle section.
type Outside struct {
	XMLName xml.Name              `json:"-" yaml:"-" msgpack:"-" bson:"-" xml:"outside"`
	Inside  toggle.Enable[Inside] `json:"inside" yaml:"inside" msgpack:"inside" bson:"inside" xml:"inside"`
}

// Great returns the payload shared by most fixtures.
func Great() Inside {
	return Inside{Thing: 1, Other: "Great"}
}

// Enabled returns an Outside with its section on.
func Enabled() Outside {
	return Outside{Inside: toggle.On(Great())}
}

// Disabled returns an Outside with its section off.
func Disabled() Outside {
	return Outside{Inside: toggle.Off[Inside]()}
}

// Server is a configuration with nested and pointer-held sections.
type Server struct {
	Name    string                  `json:"name" yaml:"name"`
	TLS     toggle.Enable[TLS]      `json:"tls" yaml:"tls"`
	Metrics toggle.Enable[Metrics]  `json:"metrics" yaml:"metrics"`
	Limits  *Limits                 `json:"limits,omitempty" yaml:"limits,omitempty"`
	Audit   *toggle.Enable[Metrics] `json:"audit,omitempty" yaml:"audit,omitempty"`
}

// TLS is a section payload that holds a section of its own.
type TLS struct {
	Cert       string                    `json:"cert" yaml:"cert"`
	Key        string                    `json:"key" yaml:"key"`
	ClientAuth toggle.Enable[ClientAuth] `json:"client_auth" yaml:"client_auth"`
}

// ClientAuth is the innermost payload.
type ClientAuth struct {
	CA string `json:"ca" yaml:"ca"`
}

// Metrics is a flat payload.
type Metrics struct {
	Port int    `json:"port" yaml:"port"`
	Path string `json:"path" yaml:"path"`
}

// Limits is a plain struct that carries a section.
type Limits struct {
	RateLimit toggle.Enable[RateLimit] `json:"rate_limit" yaml:"rate_limit"`
}

// RateLimit is a flat payload.
type RateLimit struct {
	PerSecond int `json:"per_second" yaml:"per_second"`
}

// ServerYAML is a Server document with TLS and client auth on, metrics off.
const ServerYAML = `name: edge
tls:
  enable: true
  cert: /etc/tls/cert.pem
  key: /etc/tls/key.pem
  client_auth:
    enable: true
    ca: /etc/tls/ca.pem
metrics:
  enable: false
  port: not-a-number
limits:
  rate_limit:
    enable: false
`
