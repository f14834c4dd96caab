package hierarchy

import (
	"github.com/devicelab-dev/ui-inspector/pkg/element"
	"github.com/devicelab-dev/ui-inspector/pkg/logger"
)

// Tracer observes builder decisions at well-defined points. The builder
// itself performs no logging; callers inject a tracer when they want
// diagnostics. The default is a no-op.
type Tracer interface {
	// NodeAttached is called when a parent/child relation is established.
	NodeAttached(child, parent *element.UIElement, reason AttachReason)

	// FallbackTriggered is called when a hidden element enters semantic
	// resolution, naming the rule that matched (or "none").
	FallbackTriggered(elem *element.UIElement, rule string)

	// RootSelected is called once per build with the chosen root.
	RootSelected(elem *element.UIElement, reason string)
}

type nopTracer struct{}

func (nopTracer) NodeAttached(_, _ *element.UIElement, _ AttachReason) {}
func (nopTracer) FallbackTriggered(_ *element.UIElement, _ string)     {}
func (nopTracer) RootSelected(_ *element.UIElement, _ string)          {}

// NopTracer discards all trace events.
var NopTracer Tracer = nopTracer{}

// LogTracer forwards trace events to the global logger at debug level.
type LogTracer struct{}

// NodeAttached logs an attachment decision.
func (LogTracer) NodeAttached(child, parent *element.UIElement, reason AttachReason) {
	logger.Debug("attached %q -> %q (%s)", child.Label(), parent.Label(), reason)
}

// FallbackTriggered logs a hidden-element fallback decision.
func (LogTracer) FallbackTriggered(elem *element.UIElement, rule string) {
	logger.Debug("hidden fallback for %q: %s", elem.Label(), rule)
}

// RootSelected logs the chosen root.
func (LogTracer) RootSelected(elem *element.UIElement, reason string) {
	logger.Debug("root selected: %q (%s)", elem.Label(), reason)
}
