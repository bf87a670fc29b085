package container

import (
	"github.com/sagahold/essedit/cursor"
	"github.com/sagahold/essedit/internal/options"
	"github.com/sagahold/essedit/refid"
)

// Analysis is the optional external collaborator interface spec.md §6
// describes: given a (plugin, form id) it can resolve a human-readable
// display name, and given a plugin it can list the mods that provide
// records the save references. Every core field and operation works
// without one; the core never calls into it except where callers ask it
// to (ResetHavok, CleanseFormLists take it only to match the documented
// signature shape for a future analysis-aware caller).
type Analysis interface {
	Name(plugin *refid.Plugin, formID uint32) (string, bool)
	Providers(plugin *refid.Plugin) []string
}

// ProgressSink receives Advance calls at section boundaries during Open
// and Write, per spec.md §6.
type ProgressSink interface {
	Advance(n int)
}

// config is the private target functional options mutate. Modeled on the
// teacher's internal/options package: Open/Write never take raw bools or
// struct literals directly, only Option values built by the With*
// constructors below.
type config struct {
	bestEffort bool
	analysis   Analysis
	progress   ProgressSink
	vmDecode   func(c *cursor.Cursor) (any, error)
	vmWrite    func(c *cursor.Cursor, v any)
}

func newConfig() *config { return &config{} }

func (cfg *config) advance(n int) {
	if cfg.progress != nil {
		cfg.progress.Advance(n)
	}
}

// Option configures Open or Write.
type Option = options.Option[*config]

// WithBestEffort toggles tolerant change-form body parsing: a decode
// failure substitutes a DefaultData body carrying the raw bytes instead of
// surfacing a typed error, per spec.md §4.9/§7.
func WithBestEffort(v bool) Option {
	return options.NoError[*config](func(cfg *config) { cfg.bestEffort = v })
}

// WithAnalysis injects an Analysis provider for callers that want
// human-readable names attached to diagnostics.
func WithAnalysis(a Analysis) Option {
	return options.NoError[*config](func(cfg *config) { cfg.analysis = a })
}

// WithProgress injects a ProgressSink whose Advance method is called at
// section boundaries.
func WithProgress(p ProgressSink) Option {
	return options.NoError[*config](func(cfg *config) { cfg.progress = p })
}

// WithVMCodec injects the scripting-VM sub-block's parser/writer pair.
// Without one, the VM-state global-data block (type 1001) is stored
// opaquely, per spec.md §4.11 and §6.
func WithVMCodec(decode func(c *cursor.Cursor) (any, error), write func(c *cursor.Cursor, v any)) Option {
	return options.NoError[*config](func(cfg *config) {
		cfg.vmDecode = decode
		cfg.vmWrite = write
	})
}
