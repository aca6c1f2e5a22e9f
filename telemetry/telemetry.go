// Package telemetry provides sinks for the non-fatal errors raised while reconciling.
package telemetry

import (
	"time"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/getsentry/sentry-go"
	"github.com/oomph-ac/motion/oerror"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// Reporter receives non-fatal errors.
type Reporter interface {
	Report(err error)
}

// Multi forwards reports to every reporter in the list.
type Multi []Reporter

// Report ...
func (m Multi) Report(err error) {
	for _, r := range m {
		if r != nil {
			r.Report(err)
		}
	}
}

// LogReporter logs every report as a warning.
type LogReporter struct {
	log logrus.FieldLogger
}

// NewLogReporter returns a reporter logging to log with the given fields attached.
func NewLogReporter(log logrus.FieldLogger, fields logrus.Fields) *LogReporter {
	return &LogReporter{log: log.WithFields(fields)}
}

// Report ...
func (r *LogReporter) Report(err error) {
	r.log.WithField("kind", oerror.KindOf(err).String()).Warn(err.Error())
}

// SentryReporter captures every report as a sentry exception on a dedicated hub.
type SentryReporter struct {
	hub *sentry.Hub
}

// NewSentryReporter returns a reporter capturing on a clone of hub, or of the current hub if
// hub is nil. tags are set on the scope of the clone in insertion order.
func NewSentryReporter(hub *sentry.Hub, tags *orderedmap.OrderedMap[string, string]) *SentryReporter {
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub = hub.Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		if tags == nil {
			return
		}
		for _, key := range tags.Keys() {
			val, _ := tags.Get(key)
			scope.SetTag(key, val)
		}
	})
	return &SentryReporter{hub: hub}
}

// Report ...
func (r *SentryReporter) Report(err error) {
	r.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("kind", oerror.KindOf(err).String())
		r.hub.CaptureException(err)
	})
}

// Flush waits for buffered events to be sent.
func (r *SentryReporter) Flush(timeout time.Duration) bool {
	return r.hub.Flush(timeout)
}

// Counters counts reports by error kind. It is safe for concurrent use.
type Counters struct {
	total  atomic.Uint64
	byKind [8]atomic.Uint64
}

// Report ...
func (c *Counters) Report(err error) {
	c.total.Inc()
	if k := oerror.KindOf(err); int(k) < len(c.byKind) {
		c.byKind[k].Inc()
	}
}

// Total returns the number of reports received.
func (c *Counters) Total() uint64 {
	return c.total.Load()
}

// Count returns the number of reports of kind k received.
func (c *Counters) Count(k oerror.Kind) uint64 {
	if int(k) >= len(c.byKind) {
		return 0
	}
	return c.byKind[k].Load()
}
