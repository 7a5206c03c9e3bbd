package federate

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/gridfed/cosim/codec"
	"github.com/gridfed/cosim/errs"
	"github.com/gridfed/cosim/internal/hash"
	"github.com/gridfed/cosim/internal/options"
	"github.com/gridfed/cosim/units"
	"github.com/gridfed/cosim/value"
)

// Registry owns all inputs of a federate and runs the per-cycle update
// scan. Inputs are kept in registration order, which fixes callback
// dispatch order, and are additionally indexed by handle and by the
// 64-bit hash of their display name.
//
// The registry is single-threaded by contract: all mutations and the scan
// run on the federate's own goroutine.
type Registry struct {
	core  Core
	codec *codec.Codec
	log   *zap.Logger
	mode  Mode

	inputs   []*Input
	byHandle map[Handle]*Input
	byName   map[uint64]*Input
}

// RegistryOption configures a Registry.
type RegistryOption = options.Option[*Registry]

// WithLogger attaches a structured logger for scan and dispatch events.
// The default logger discards everything.
func WithLogger(log *zap.Logger) RegistryOption {
	return options.NoError(func(r *Registry) {
		r.log = log
	})
}

// WithCodec replaces the value codec used to decode raw buffers and encode
// defaults.
func WithCodec(c *codec.Codec) RegistryOption {
	return options.NoError(func(r *Registry) {
		r.codec = c
	})
}

// NewRegistry creates the input registry for a federate backed by core.
func NewRegistry(core Core, opts ...RegistryOption) (*Registry, error) {
	r := &Registry{
		core:     core,
		codec:    codec.Default(),
		log:      zap.NewNop(),
		mode:     ModeStartup,
		byHandle: make(map[Handle]*Input),
		byName:   make(map[uint64]*Input),
	}
	if err := options.Apply(r, opts...); err != nil {
		return nil, err
	}

	return r, nil
}

// InputOption configures an input at registration time.
type InputOption = options.Option[*Input]

// WithUnits requests output units for the input's values. The expression
// must parse; commensurability with the publication's units is checked when
// source information arrives.
func WithUnits(expr string) InputOption {
	return options.New(func(in *Input) error {
		if _, err := units.Parse(expr); err != nil {
			return err
		}
		in.outputUnits = expr

		return nil
	})
}

// WithLocalName sets the federate-local alias.
func WithLocalName(name string) InputOption {
	return options.NoError(func(in *Input) {
		in.localName = name
	})
}

// WithInfo attaches an informational blob.
func WithInfo(info string) InputOption {
	return options.NoError(func(in *Input) {
		in.info = info
	})
}

// WithPolicy selects the multi-input reduction policy.
func WithPolicy(p Policy) InputOption {
	return options.NoError(func(in *Input) {
		in.policy = p
	})
}

// WithMinimumChange enables change detection with the given threshold.
func WithMinimumChange(delta float64) InputOption {
	return options.NoError(func(in *Input) {
		in.SetMinimumChange(delta)
	})
}

// WithCustomCodec installs the user codec for a custom-typed input, with an
// optional comparator enabling change detection.
func WithCustomCodec(cc CustomCodec, cmp Comparator) InputOption {
	return options.NoError(func(in *Input) {
		in.custom = cc
		in.comparator = cmp
	})
}

// Register declares an input during the startup phase. The type name is one
// of the primary type names, "custom", or "def" to infer the type from the
// first publication.
func (r *Registry) Register(name, typeName string, opts ...InputOption) (*Input, error) {
	if r.mode != ModeStartup {
		return nil, fmt.Errorf("%w: register %q in %s mode", errs.ErrLifecycle, name, r.mode)
	}
	kind, err := value.ParseKind(typeName)
	if err != nil {
		return nil, err
	}

	in := &Input{
		reg:        r,
		core:       r.core,
		handle:     InvalidHandle,
		name:       name,
		typeName:   typeName,
		targetKind: kind,
		bridge:     units.Identity(),
	}
	if err := options.Apply(in, opts...); err != nil {
		return nil, err
	}
	if kind == value.KindCustom && in.custom == nil {
		return nil, fmt.Errorf("%w: input %q needs a codec", errs.ErrCustomType, name)
	}

	handle, err := r.core.RegisterInput(name, typeName, in.outputUnits)
	if err != nil {
		return nil, err
	}
	in.handle = handle

	r.inputs = append(r.inputs, in)
	r.byHandle[handle] = in
	r.byName[hash.ID(name)] = in
	r.log.Debug("input registered",
		zap.String("name", name),
		zap.String("type", typeName),
		zap.Int32("handle", int32(handle)))

	return in, nil
}

// Input returns the input owning h, or nil.
func (r *Registry) Input(h Handle) *Input {
	return r.byHandle[h]
}

// InputByName returns the input with the given display name, or nil.
func (r *Registry) InputByName(name string) *Input {
	return r.byName[hash.ID(name)]
}

// Inputs returns all inputs in registration order. The slice is shared;
// callers must not mutate it.
func (r *Registry) Inputs() []*Input {
	return r.inputs
}

// Mode returns the current lifecycle phase.
func (r *Registry) Mode() Mode {
	return r.mode
}

// EnterInitializing moves the federate from startup to initializing.
func (r *Registry) EnterInitializing() error {
	return r.advance(ModeStartup, ModeInitializing)
}

// EnterExecuting moves the federate from initializing to executing. Shape
// mutations are rejected from here on.
func (r *Registry) EnterExecuting() error {
	return r.advance(ModeInitializing, ModeExecuting)
}

// Finalize ends the federate. Inputs remain readable; updates stop.
func (r *Registry) Finalize() error {
	if r.mode == ModeFinalized {
		return nil
	}
	r.mode = ModeFinalized

	return nil
}

func (r *Registry) advance(from, to Mode) error {
	if r.mode != from {
		return fmt.Errorf("%w: cannot enter %s from %s", errs.ErrLifecycle, to, r.mode)
	}
	r.mode = to
	r.log.Debug("mode change", zap.Stringer("mode", to))

	return nil
}

// ProcessUpdates runs one cycle of the update scan after a time-advance
// call has returned. For every input with a pending raw buffer it decodes,
// reduces, converts and change-checks the new value, then dispatches
// callbacks in registration order: per input the typed callback first, the
// update notice second, and at most one dispatch per input per cycle no
// matter how many buffers arrived.
func (r *Registry) ProcessUpdates(t value.Time) {
	if r.mode != ModeExecuting {
		return
	}

	var pending []*Input
	updated := 0
	for _, in := range r.inputs {
		if in.closed || !r.core.IsUpdated(in.handle) {
			continue
		}
		if !in.ingest(t) {
			continue
		}
		updated++
		if in.cb != nil || in.notice != nil {
			pending = append(pending, in)
		}
	}
	r.log.Debug("update scan",
		zap.Int("observable", updated),
		zap.Int("dispatches", len(pending)),
		zap.Float64("time", t.Seconds()))

	for _, in := range pending {
		if in.cb != nil {
			in.cb.fire(in, in.stored, t)
		}
		if in.notice != nil {
			in.notice(in, t)
		}
	}
}
