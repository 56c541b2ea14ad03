// Package logging wraps a blobstore.Store with a decorator that logs
// every call: one line per Load or Save, with duration and outcome.
package logging

import (
	"context"

	"github.com/agentrecall/temporalcore/blobstore"
	"github.com/agentrecall/temporalcore/internal/clock"
	"github.com/agentrecall/temporalcore/internal/logging"
)

var log = logging.Module("temporalcore/blobstore/logging")

// Option configures a Wrapper.
type Option func(*Wrapper)

// Prefix sets a string included in every log line, to distinguish
// multiple wrapped stores in the same process.
func Prefix(p string) Option {
	return func(w *Wrapper) { w.prefix = p }
}

// Wrapper logs Load/Save calls made against an underlying Store.
type Wrapper struct {
	base   blobstore.Store
	prefix string
}

// NewWrapper returns a Store that logs every call to base before
// delegating to it.
func NewWrapper(base blobstore.Store, opts ...Option) *Wrapper {
	w := &Wrapper{base: base}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Wrapper) Load(ctx context.Context, ref blobstore.Ref) ([]byte, error) {
	t0 := clock.Now()
	data, err := w.base.Load(ctx, ref)
	log(ctx).Debugw(w.prefix+"load", "ref", ref, "bytes", len(data), "err", err, "duration", clock.Now().Sub(t0))
	return data, err
}

func (w *Wrapper) Save(ctx context.Context, data []byte) (blobstore.Ref, error) {
	t0 := clock.Now()
	ref, err := w.base.Save(ctx, data)
	log(ctx).Debugw(w.prefix+"save", "ref", ref, "bytes", len(data), "err", err, "duration", clock.Now().Sub(t0))
	return ref, err
}
