package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys for protocol engine spans, following OpenTelemetry
// semantic convention style (a domain-specific "ifc." prefix in place of
// the teacher's "fs."/"nfs." ones).
const (
	AttrCommand   = "ifc.command"    // manifest name, e.g. "aircraft/0/altitude"
	AttrCommandID = "ifc.command_id" // resolved manifest command id
	AttrSession   = "ifc.session"    // "command" or "poll"
	AttrWireType  = "ifc.wire_type"  // Boolean, Integer, Float, Double, String, Long, Invokable
	AttrPeer      = "ifc.peer"       // host:port dialed
)

func Command(name string) attribute.KeyValue { return attribute.String(AttrCommand, name) }
func CommandID(id int32) attribute.KeyValue  { return attribute.Int64(AttrCommandID, int64(id)) }
func Session(kind string) attribute.KeyValue { return attribute.String(AttrSession, kind) }
func WireType(t string) attribute.KeyValue   { return attribute.String(AttrWireType, t) }
func Peer(addr string) attribute.KeyValue    { return attribute.String(AttrPeer, addr) }

// StartCommandSpan starts a span for one get/set/run/poll cycle, named
// "ifc.<op>" and tagged with the manifest name up front.
func StartCommandSpan(ctx context.Context, op, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	all := append([]attribute.KeyValue{Command(name)}, attrs...)
	return StartSpan(ctx, op, trace.WithAttributes(all...))
}
