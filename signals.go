package toggle

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for document events.
var (
	SignalDocumentCreated = capitan.NewSignal("toggle.document.created", "Document instantiated")
	SignalLoadStart       = capitan.NewSignal("toggle.load.start", "Load operation beginning")
	SignalLoadComplete    = capitan.NewSignal("toggle.load.complete", "Load operation finished")
	SignalDumpStart       = capitan.NewSignal("toggle.dump.start", "Dump operation beginning")
	SignalDumpComplete    = capitan.NewSignal("toggle.dump.complete", "Dump operation finished")
)

// Keys for typed event data.
var (
	KeyContentType   = capitan.NewStringKey("content_type")
	KeyTypeName      = capitan.NewStringKey("type_name")
	KeySize          = capitan.NewIntKey("size")
	KeyDuration      = capitan.NewDurationKey("duration")
	KeyError         = capitan.NewErrorKey("error")
	KeySectionCount  = capitan.NewIntKey("section_count")
	KeyEnabledCount  = capitan.NewIntKey("enabled_count")
	KeyDisabledCount = capitan.NewIntKey("disabled_count")
)

// emitDocumentCreated emits an event when a document is created.
func emitDocumentCreated(ctx context.Context, contentType, typeName string, sections int) {
	capitan.Emit(ctx, SignalDocumentCreated,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeySectionCount.Field(sections),
	)
}

// emitLoadStart emits an event when load begins.
func emitLoadStart(ctx context.Context, contentType, typeName string) {
	capitan.Emit(ctx, SignalLoadStart,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
	)
}

// emitLoadComplete emits an event when load finishes.
func emitLoadComplete(ctx context.Context, contentType, typeName string, size int, duration time.Duration, enabled, disabled int, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
		KeyEnabledCount.Field(enabled),
		KeyDisabledCount.Field(disabled),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalLoadComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalLoadComplete, fields...)
	}
}

// emitDumpStart emits an event when dump begins.
func emitDumpStart(ctx context.Context, contentType, typeName string) {
	capitan.Emit(ctx, SignalDumpStart,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
	)
}

// emitDumpComplete emits an event when dump finishes.
func emitDumpComplete(ctx context.Context, contentType, typeName string, size int, duration time.Duration, enabled, disabled int, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
		KeyEnabledCount.Field(enabled),
		KeyDisabledCount.Field(disabled),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalDumpComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalDumpComplete, fields...)
	}
}
