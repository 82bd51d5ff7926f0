package toggle_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/zoobzio/toggle"
	toggletest "github.com/zoobzio/toggle/testing"
	"gopkg.in/yaml.v3"
)

func encodeYAML(t *testing.T, v any) string {
	t.Helper()
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	return buf.String()
}

func TestYAML_Disabled(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"flag only", "inside:\n  enable: false\n"},
		{"extra fields", "inside:\n  enable: false\n  thing: 1\n  other: Great\n"},
		{"malformed fields", "inside:\n  enable: false\n  thing: [not, a, number]\n  bogus: {x: 1}\n"},
		{"flag last", "inside:\n  thing: nope\n  enable: false\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out toggletest.Outside
			if err := yaml.Unmarshal([]byte(tt.input), &out); err != nil {
				t.Fatalf("Unmarshal() error: %v", err)
			}
			if out.Inside.IsEnabled() {
				t.Errorf("section should be off, got %s", out.Inside)
			}
		})
	}
}

func TestYAML_Enabled(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"flag first", "inside:\n  enable: true\n  thing: 1\n  other: Great\n"},
		{"flag middle", "inside:\n  thing: 1\n  enable: true\n  other: Great\n"},
		{"flag last", "inside:\n  thing: 1\n  other: Great\n  enable: true\n"},
		{"flow style", "inside: {other: Great, enable: true, thing: 1}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out toggletest.Outside
			if err := yaml.Unmarshal([]byte(tt.input), &out); err != nil {
				t.Fatalf("Unmarshal() error: %v", err)
			}
			got, ok := out.Inside.Get()
			if !ok {
				t.Fatal("section should be on")
			}
			if got != toggletest.Great() {
				t.Errorf("payload = %+v, want %+v", got, toggletest.Great())
			}
		})
	}
}

func TestYAML_EnabledRequiresPayload(t *testing.T) {
	var out struct {
		Inside toggle.Enable[strictInside] `yaml:"inside"`
	}
	err := yaml.Unmarshal([]byte("inside:\n  enable: true\n  thing: 1\n"), &out)
	if !errors.Is(err, errMissingField) {
		t.Fatalf("Unmarshal() error = %v, want %v", err, errMissingField)
	}
	var se *toggle.SectionError
	if errors.As(err, &se) {
		t.Errorf("payload error should not be wrapped in SectionError, got %v", se)
	}

	// The same payload decodes once the section is off.
	if err := yaml.Unmarshal([]byte("inside:\n  enable: false\n  thing: 1\n"), &out); err != nil {
		t.Fatalf("Unmarshal(off) error: %v", err)
	}
	if out.Inside.IsEnabled() {
		t.Error("section should be off")
	}
}

func TestYAML_PayloadErrorPassesThrough(t *testing.T) {
	var out toggletest.Outside
	err := yaml.Unmarshal([]byte("inside:\n  enable: true\n  thing: abc\n  other: Great\n"), &out)
	var te *yaml.TypeError
	if !errors.As(err, &te) {
		t.Fatalf("Unmarshal() error = %v, want *yaml.TypeError", err)
	}
	if errors.Is(err, toggle.ErrTypeMismatch) {
		t.Error("payload error should not report a discriminant mismatch")
	}
}

func TestYAML_MissingDiscriminant(t *testing.T) {
	tests := []string{
		"inside:\n  thing: 1\n  other: Great\n",
		"inside: {}\n",
		"inside:\n  enabled: true\n",
	}

	for _, input := range tests {
		var out toggletest.Outside
		err := yaml.Unmarshal([]byte(input), &out)
		if !errors.Is(err, toggle.ErrMissingDiscriminant) {
			t.Errorf("Unmarshal(%q) error = %v, want ErrMissingDiscriminant", input, err)
		}
	}
}

func TestYAML_TypeMismatch(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"word", "inside:\n  enable: maybe\n"},
		{"number", "inside:\n  enable: 1\n"},
		{"null", "inside:\n  enable: ~\n"},
		{"empty", "inside:\n  enable:\n  thing: 1\n"},
		{"sequence", "inside:\n  enable: [true]\n"},
		{"mapping", "inside:\n  enable: {on: true}\n"},
		{"quoted", "inside:\n  enable: \"true\"\n"},
		{"yaml 1.1 word", "inside:\n  enable: yes\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out toggletest.Outside
			err := yaml.Unmarshal([]byte(tt.input), &out)
			if !errors.Is(err, toggle.ErrTypeMismatch) {
				t.Fatalf("Unmarshal() error = %v, want ErrTypeMismatch", err)
			}
			var se *toggle.SectionError
			if !errors.As(err, &se) {
				t.Fatal("error should be a SectionError")
			}
			if se.Line != 2 {
				t.Errorf("Line = %d, want 2", se.Line)
			}
		})
	}
}

func TestYAML_DuplicateDiscriminant(t *testing.T) {
	var out toggletest.Outside
	err := yaml.Unmarshal([]byte("inside:\n  enable: true\n  thing: 1\n  enable: false\n"), &out)
	if !errors.Is(err, toggle.ErrDuplicateKey) {
		t.Fatalf("Unmarshal() error = %v, want ErrDuplicateKey", err)
	}
	var se *toggle.SectionError
	if errors.As(err, &se) && se.Line != 4 {
		t.Errorf("Line = %d, want 4", se.Line)
	}
}

func TestYAML_NotSection(t *testing.T) {
	tests := []string{
		"inside: 3\n",
		"inside: [1, 2]\n",
		"inside: enabled\n",
	}

	for _, input := range tests {
		var out toggletest.Outside
		err := yaml.Unmarshal([]byte(input), &out)
		if !errors.Is(err, toggle.ErrNotSection) {
			t.Errorf("Unmarshal(%q) error = %v, want ErrNotSection", input, err)
		}
	}
}

func TestYAML_NullSection(t *testing.T) {
	for _, input := range []string{"inside: ~\n", "inside:\n", "{}\n"} {
		var out toggletest.Outside
		if err := yaml.Unmarshal([]byte(input), &out); err != nil {
			t.Fatalf("Unmarshal(%q) error: %v", input, err)
		}
		if out.Inside.IsEnabled() {
			t.Errorf("Unmarshal(%q) section should be off", input)
		}
	}
}

func TestYAML_Alias(t *testing.T) {
	input := "base: &b\n  enable: true\n  thing: 1\n  other: Great\ninside: *b\n"
	var out toggletest.Outside
	if err := yaml.Unmarshal([]byte(input), &out); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if got, ok := out.Inside.Get(); !ok || got != toggletest.Great() {
		t.Errorf("Inside = %s, want on(%+v)", out.Inside, toggletest.Great())
	}
}

func TestYAML_Marshal(t *testing.T) {
	tests := []struct {
		name string
		in   toggletest.Outside
		want string
	}{
		{"enabled", toggletest.Enabled(), "inside:\n  enable: true\n  thing: 1\n  other: Great\n"},
		{"disabled", toggletest.Disabled(), "inside:\n  enable: false\n"},
		{"zero", toggletest.Outside{}, "inside:\n  enable: false\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := encodeYAML(t, tt.in); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestYAML_MarshalNested(t *testing.T) {
	in := nested{Label: "outer", Inner: toggle.On(toggletest.Great())}
	want := "label: outer\ninner:\n  enable: true\n  thing: 1\n  other: Great\n"
	if got := encodeYAML(t, in); got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}

	var back nested
	if err := yaml.Unmarshal([]byte(want), &back); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if back != in {
		t.Errorf("round-trip = %+v, want %+v", back, in)
	}
}

func TestYAML_MarshalPayloadShape(t *testing.T) {
	_, err := yaml.Marshal(toggle.On(3))
	if !errors.Is(err, toggle.ErrPayloadShape) {
		t.Errorf("Marshal() error = %v, want ErrPayloadShape", err)
	}

	// An off section never looks at its payload.
	data, err := yaml.Marshal(toggle.Off[int]())
	if err != nil {
		t.Fatalf("Marshal(off) error: %v", err)
	}
	if !strings.Contains(string(data), "enable: false") {
		t.Errorf("Marshal(off) = %q", data)
	}
}

func TestYAML_MarshalReservedKey(t *testing.T) {
	_, err := yaml.Marshal(toggle.On(clash{Enable: true, Name: "x"}))
	if !errors.Is(err, toggle.ErrReservedKey) {
		t.Errorf("Marshal() error = %v, want ErrReservedKey", err)
	}
}

func TestYAML_RoundTrip(t *testing.T) {
	for _, in := range []toggletest.Outside{toggletest.Enabled(), toggletest.Disabled()} {
		data, err := yaml.Marshal(in)
		if err != nil {
			t.Fatalf("Marshal() error: %v", err)
		}
		var out toggletest.Outside
		if err := yaml.Unmarshal(data, &out); err != nil {
			t.Fatalf("Unmarshal() error: %v", err)
		}
		if out != in {
			t.Errorf("round-trip = %+v, want %+v", out, in)
		}
	}
}

func TestYAML_KnownFieldsStopsAtSection(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"unknown field around section", "extra: 1\ninside:\n  enable: true\n  thing: 1\n  other: Great\n", true},
		{"unknown field inside section", "inside:\n  enable: true\n  thing: 1\n  other: Great\n  extra: 1\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := yaml.NewDecoder(strings.NewReader(tt.input))
			dec.KnownFields(true)

			var out toggletest.Outside
			err := dec.Decode(&out)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !out.Inside.IsEnabled() {
				t.Error("section should be on")
			}
		})
	}
}
