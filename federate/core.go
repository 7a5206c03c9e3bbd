package federate

import "github.com/gridfed/cosim/value"

// Handle is the opaque stable identifier a core assigns to an interface.
type Handle int32

// InvalidHandle marks an interface that has no core-side identity.
const InvalidHandle Handle = -1

// Core is the surface this layer consumes from a federate core. The core
// may be concurrent internally, but it presents a synchronous contract:
// once a time-advance call returns, the set of updated handles and their
// raw buffers is frozen until the next advance.
//
// All raw buffers are self-describing (see the codec package); the core
// moves bytes and never interprets them.
type Core interface {
	// RegisterInput creates an input endpoint and returns its handle.
	RegisterInput(name, typeName, units string) (Handle, error)

	// Raw returns the most recent raw buffer for h.
	Raw(h Handle) ([]byte, error)

	// RawAll returns this cycle's raw buffers for h, one per connected
	// source in target registration order. Cores with single-source inputs
	// return a one-element slice.
	RawAll(h Handle) ([][]byte, error)

	// IsUpdated reports whether h has a raw buffer pending since the last
	// consumption.
	IsUpdated(h Handle) bool

	// InjectionType and InjectionUnits describe the publication feeding h.
	// Both are empty until the first byte of source information is known.
	InjectionType(h Handle) string
	InjectionUnits(h Handle) string

	// ExtractionType and ExtractionUnits echo the declaration made at
	// registration time.
	ExtractionType(h Handle) string
	ExtractionUnits(h Handle) string

	// LastUpdateTime returns the simulation time of the newest raw buffer.
	LastUpdateTime(h Handle) value.Time

	// AddTarget and RemoveTarget attach and detach publications by name.
	AddTarget(h Handle, name string) error
	RemoveTarget(h Handle, name string) error

	// SetOption and Option forward opaque interface options.
	SetOption(h Handle, code, val int32) error
	Option(h Handle, code int32) (int32, error)

	// SetDefaultRaw installs the raw buffer returned before any publication
	// arrives.
	SetDefaultRaw(h Handle, data []byte) error

	// SetNotification installs a core-driven update callback for h.
	SetNotification(h Handle, fn func(Handle, value.Time)) error

	// CloseInterface severs h. Further operations on h are errors.
	CloseInterface(h Handle) error
}

// Option codes understood by this layer. All codes, known or not, are
// forwarded to the core; OptionStrictConversion additionally arms the
// per-input saturation report.
const (
	OptionOnlyUpdateOnChange int32 = 1
	OptionConnectionRequired int32 = 2
	OptionStrictConversion   int32 = 3
)
