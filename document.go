package toggle

import (
	"context"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/zoobzio/sentinel"
)

// Document loads and dumps a configuration type T through a Codec.
//
// Documents are safe for concurrent use. The section plan for T is built once
// at construction from sentinel metadata.
type Document[T any] struct {
	codec Codec

	// Immutable after construction
	plans    []sectionPlan
	typeName string
}

// SectionState reports one toggle section found in a loaded value.
type SectionState struct {
	Path    string // Dotted Go field path, e.g. "Server.TLS"
	Enabled bool
}

// sectionPlan locates one Toggle field inside a struct type.
type sectionPlan struct {
	index      []int // reflect.Value.Field access path
	name       string
	ptrIndices []int // positions in index where a pointer is dereferenced
}

var (
	toggleType = reflect.TypeFor[Toggle]()

	// planCache holds section plans for payload types met while walking.
	planCache sync.Map // reflect.Type -> []sectionPlan
)

// NewDocument creates a Document for type T.
func NewDocument[T any](codec Codec) (*Document[T], error) {
	rt := reflect.TypeFor[T]()

	d := &Document[T]{
		codec:    codec,
		typeName: rt.String(),
	}

	if rt.Kind() == reflect.Struct {
		spec := sentinel.Scan[T]()
		d.typeName = spec.TypeName
		d.plans = buildSectionPlans(spec, nil, nil, "", map[reflect.Type]bool{rt: true})
	}

	emitDocumentCreated(context.Background(), codec.ContentType(), d.typeName, len(d.plans))
	return d, nil
}

// Load unmarshals data into a new T.
// Errors from the codec, including any SectionError, are wrapped in a CodecError.
func (d *Document[T]) Load(ctx context.Context, data []byte) (*T, error) {
	start := time.Now()
	emitLoadStart(ctx, d.codec.ContentType(), d.typeName)

	var (
		retErr            error
		enabled, disabled int
	)
	defer func() {
		emitLoadComplete(ctx, d.codec.ContentType(), d.typeName,
			len(data), time.Since(start), enabled, disabled, retErr)
	}()

	var obj T
	if err := d.codec.Unmarshal(data, &obj); err != nil {
		retErr = newCodecError(ErrUnmarshal, err)
		return nil, retErr
	}

	enabled, disabled = countSections(d.Sections(&obj))
	return &obj, nil
}

// Dump marshals obj. A nil obj marshals as the codec's null value.
func (d *Document[T]) Dump(ctx context.Context, obj *T) ([]byte, error) {
	start := time.Now()
	emitDumpStart(ctx, d.codec.ContentType(), d.typeName)

	var (
		retErr            error
		retData           []byte
		enabled, disabled int
	)
	defer func() {
		emitDumpComplete(ctx, d.codec.ContentType(), d.typeName,
			len(retData), time.Since(start), enabled, disabled, retErr)
	}()

	if obj == nil {
		data, err := d.codec.Marshal(nil)
		if err != nil {
			retErr = newCodecError(ErrMarshal, err)
			return nil, retErr
		}
		retData = data
		return retData, nil
	}

	enabled, disabled = countSections(d.Sections(obj))

	data, err := d.codec.Marshal(obj)
	if err != nil {
		retErr = newCodecError(ErrMarshal, err)
		return nil, retErr
	}
	retData = data
	return retData, nil
}

// Sections lists every toggle section in obj, in field order.
// Sections inside an enabled payload follow their parent; sections inside a
// disabled payload, or behind a nil pointer, are not reported.
func (d *Document[T]) Sections(obj *T) []SectionState {
	if obj == nil {
		return nil
	}
	return collectSections(reflect.ValueOf(obj).Elem(), d.plans, "")
}

// ContentType returns the codec's MIME type.
func (d *Document[T]) ContentType() string {
	return d.codec.ContentType()
}

// collectSections evaluates plans against rv and descends into enabled payloads.
func collectSections(rv reflect.Value, plans []sectionPlan, prefix string) []SectionState {
	var states []SectionState
	for _, plan := range plans {
		field, ok := getField(rv, plan)
		if !ok {
			continue
		}

		path := plan.name
		if prefix != "" {
			path = prefix + "." + plan.name
		}

		t, ok := field.Interface().(Toggle)
		if !ok {
			continue
		}
		states = append(states, SectionState{Path: path, Enabled: t.IsEnabled()})
		if !t.IsEnabled() {
			continue
		}

		pc, ok := field.Interface().(payloadCarrier)
		if !ok {
			continue
		}
		inner := pc.payload()
		for inner.IsValid() && (inner.Kind() == reflect.Ptr || inner.Kind() == reflect.Interface) {
			if inner.IsNil() {
				inner = reflect.Value{}
				break
			}
			inner = inner.Elem()
		}
		if !inner.IsValid() || inner.Kind() != reflect.Struct {
			continue
		}
		states = append(states, collectSections(inner, plansFor(inner.Type()), path)...)
	}
	return states
}

// plansFor returns the cached section plans for a payload struct type.
func plansFor(rt reflect.Type) []sectionPlan {
	if cached, ok := planCache.Load(rt); ok {
		return cached.([]sectionPlan)
	}
	spec := scanNestedType(rt)
	if spec == nil {
		return nil
	}
	plans := buildSectionPlans(*spec, nil, nil, "", map[reflect.Type]bool{rt: true})
	actual, _ := planCache.LoadOrStore(rt, plans)
	return actual.([]sectionPlan)
}

// buildSectionPlans records every Toggle field, recursing into nested structs
// and pointers to structs. Payload types behind a Toggle are planned lazily,
// only once a section is known to be on.
func buildSectionPlans(spec sentinel.Metadata, parentIndex, ptrIndices []int, namePrefix string, seen map[reflect.Type]bool) []sectionPlan {
	var plans []sectionPlan
	for _, field := range spec.Fields {
		fullIndex := append(append([]int{}, parentIndex...), field.Index...)
		fullName := field.Name
		if namePrefix != "" {
			fullName = namePrefix + "." + field.Name
		}

		// Pointer to a toggle section; checked first since *Enable[T] is a Toggle too
		if field.Kind == sentinel.KindPointer && field.ReflectType.Elem().Implements(toggleType) {
			plans = append(plans, sectionPlan{
				index:      fullIndex,
				name:       fullName,
				ptrIndices: append(append([]int{}, ptrIndices...), len(fullIndex)-1),
			})
			continue
		}

		if field.Kind != sentinel.KindInterface && field.ReflectType.Implements(toggleType) {
			plans = append(plans, sectionPlan{index: fullIndex, name: fullName, ptrIndices: ptrIndices})
			continue
		}

		// Handle nested structs
		if field.Kind == sentinel.KindStruct && !seen[field.ReflectType] {
			nestedSpec := scanNestedType(field.ReflectType)
			if nestedSpec != nil {
				seen[field.ReflectType] = true
				plans = append(plans, buildSectionPlans(*nestedSpec, fullIndex, ptrIndices, fullName, seen)...)
				delete(seen, field.ReflectType)
			}
			continue
		}

		// Handle pointer to struct
		if field.Kind == sentinel.KindPointer && field.ReflectType.Elem().Kind() == reflect.Struct && !seen[field.ReflectType.Elem()] {
			elem := field.ReflectType.Elem()
			nestedSpec := scanNestedType(elem)
			if nestedSpec != nil {
				seen[elem] = true
				newPtrIndices := append(append([]int{}, ptrIndices...), len(fullIndex)-1)
				plans = append(plans, buildSectionPlans(*nestedSpec, fullIndex, newPtrIndices, fullName, seen)...)
				delete(seen, elem)
			}
		}
	}
	return plans
}

// scanNestedType returns field metadata for a struct type met below T.
// Types sentinel has already scanned are reused when the package matches,
// since its cache is keyed by bare type name. Anything else gets a shallow
// scan of exported fields, which is all plan building needs.
func scanNestedType(rt reflect.Type) *sentinel.Metadata {
	if rt.Kind() != reflect.Struct {
		return nil
	}
	if meta, ok := sentinel.Lookup(rt.Name()); ok && meta.PackageName == rt.PkgPath() {
		return &meta
	}

	meta := sentinel.Metadata{TypeName: rt.Name(), PackageName: rt.PkgPath()}
	for i := range rt.NumField() {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		meta.Fields = append(meta.Fields, sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			Kind:        fieldKind(sf.Type),
			ReflectType: sf.Type,
			Index:       sf.Index,
		})
	}
	return &meta
}

// fieldKind maps a Go type onto sentinel's coarse field kinds.
func fieldKind(t reflect.Type) sentinel.FieldKind {
	switch t.Kind() {
	case reflect.Struct:
		return sentinel.KindStruct
	case reflect.Ptr:
		return sentinel.KindPointer
	case reflect.Slice, reflect.Array:
		return sentinel.KindSlice
	case reflect.Map:
		return sentinel.KindMap
	case reflect.Interface:
		return sentinel.KindInterface
	default:
		return sentinel.KindScalar
	}
}

// getField follows plan.index from rv. ok is false when a pointer on the way
// is nil, in which case the section is absent rather than off.
func getField(rv reflect.Value, plan sectionPlan) (reflect.Value, bool) {
	cur := rv
	for i, idx := range plan.index {
		cur = cur.Field(idx)
		if !slices.Contains(plan.ptrIndices, i) {
			continue
		}
		if cur.IsNil() {
			return reflect.Value{}, false
		}
		cur = cur.Elem()
	}
	return cur, true
}

// countSections tallies enabled and disabled sections.
func countSections(states []SectionState) (enabled, disabled int) {
	for _, s := range states {
		if s.Enabled {
			enabled++
		} else {
			disabled++
		}
	}
	return enabled, disabled
}
