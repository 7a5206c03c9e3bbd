package federate

import (
	"fmt"

	"github.com/gridfed/cosim/errs"
	"github.com/gridfed/cosim/units"
	"github.com/gridfed/cosim/value"
)

// CustomCodec decodes raw buffers for inputs declared with a non-primary
// type. Custom payloads bypass the tagged container entirely.
type CustomCodec interface {
	Decode(data []byte) (any, error)
	Encode(v any) ([]byte, error)
}

// Comparator reports whether two custom values are equal. Supplying one
// enables change detection for a custom-typed input.
type Comparator func(a, b any) bool

// Input is a federate-local endpoint receiving typed values from one or
// more publications. It owns per-subscription state: the most recent
// decoded value, the conversion policy, change detection and the callback
// slot. All methods must be called from the federate's own goroutine.
type Input struct {
	reg    *Registry
	core   Core
	handle Handle

	name      string
	localName string
	info      string

	targetKind  value.Kind
	typeName    string
	outputUnits string

	// source information, loaded lazily on first delivery because the
	// feeding publication may connect after the input is declared.
	sourceLoaded  bool
	injectionType string
	injectionUnit string
	bridge        units.Bridge

	targets []string
	policy  Policy

	delta       float64
	changeCheck bool
	strict      bool

	stored     value.Value
	populated  bool
	hasUpdate  bool
	lastTime   value.Time
	pendingErr error

	custom      CustomCodec
	comparator  Comparator
	customValue any

	cb     *callback
	notice func(*Input, value.Time)

	closed bool
}

// callback is the tagged union of the nine typed callback signatures: one
// kind plus one adapter closure that converts the stored value before
// invoking the user function.
type callback struct {
	kind value.Kind
	fire func(*Input, value.Value, value.Time)
}

// Handle returns the core-assigned identifier.
func (in *Input) Handle() Handle {
	return in.handle
}

// Name returns the display name.
func (in *Input) Name() string {
	return in.name
}

// LocalName returns the federate-local alias, falling back to the display
// name.
func (in *Input) LocalName() string {
	if in.localName != "" {
		return in.localName
	}
	return in.name
}

// Info returns the informational blob attached to the input.
func (in *Input) Info() string {
	return in.info
}

// SetInfo replaces the informational blob.
func (in *Input) SetInfo(s string) {
	in.info = s
}

// TargetKind returns the declared target kind, KindUnknown when the type is
// inferred from the publication.
func (in *Input) TargetKind() value.Kind {
	return in.targetKind
}

// InjectionType returns the type name of the connected publication, empty
// until the first delivery.
func (in *Input) InjectionType() string {
	in.loadSourceInfo()
	return in.injectionType
}

// InjectionUnits returns the unit expression of the connected publication,
// empty until the first delivery.
func (in *Input) InjectionUnits() string {
	in.loadSourceInfo()
	return in.injectionUnit
}

// Units returns the output units requested for this input.
func (in *Input) Units() string {
	return in.outputUnits
}

// SetDefault installs the value returned by readers before any publication
// arrives. It is a lifecycle error once the federate is executing.
func (in *Input) SetDefault(v value.Value) error {
	if err := in.mutable(); err != nil {
		return err
	}
	if in.targetKind == value.KindCustom {
		return fmt.Errorf("%w: use SetDefaultRaw for custom-typed input %q", errs.ErrCustomType, in.name)
	}
	data, err := in.reg.codec.Encode(v)
	if err != nil {
		return err
	}
	if err := in.core.SetDefaultRaw(in.handle, data); err != nil {
		return err
	}
	in.stored = v
	in.populated = true

	return nil
}

// SetDefaultRaw installs a raw default buffer without interpretation, for
// custom-typed inputs.
func (in *Input) SetDefaultRaw(data []byte) error {
	if err := in.mutable(); err != nil {
		return err
	}
	return in.core.SetDefaultRaw(in.handle, data)
}

// SetMinimumChange enables change detection with threshold d when d >= 0.
// A negative d disables detection and wipes the remembered threshold.
func (in *Input) SetMinimumChange(d float64) {
	if d < 0 {
		in.changeCheck = false
		in.delta = 0
		return
	}
	in.changeCheck = true
	in.delta = d
}

// EnableChangeDetection toggles detection while preserving the remembered
// threshold.
func (in *Input) EnableChangeDetection(enabled bool) {
	in.changeCheck = enabled
}

// MinimumChange returns the current threshold; meaningful only while
// change detection is enabled.
func (in *Input) MinimumChange() float64 {
	return in.delta
}

// AddTarget attaches a publication by name. The order of additions fixes
// the operand order seen by the multi-input reduction.
func (in *Input) AddTarget(name string) error {
	if in.closed {
		return fmt.Errorf("%w: %q", errs.ErrClosed, in.name)
	}
	if in.reg.mode >= ModeExecuting {
		return fmt.Errorf("%w: add-target on %q in %s mode", errs.ErrLifecycle, in.name, in.reg.mode)
	}
	if err := in.core.AddTarget(in.handle, name); err != nil {
		return err
	}
	in.targets = append(in.targets, name)

	return nil
}

// RemoveTarget detaches a previously attached publication.
func (in *Input) RemoveTarget(name string) error {
	if in.closed {
		return fmt.Errorf("%w: %q", errs.ErrClosed, in.name)
	}
	if in.reg.mode >= ModeExecuting {
		return fmt.Errorf("%w: remove-target on %q in %s mode", errs.ErrLifecycle, in.name, in.reg.mode)
	}
	if err := in.core.RemoveTarget(in.handle, name); err != nil {
		return err
	}
	for i, t := range in.targets {
		if t == name {
			in.targets = append(in.targets[:i], in.targets[i+1:]...)
			break
		}
	}

	return nil
}

// Targets returns the attached publication names in registration order.
func (in *Input) Targets() []string {
	return in.targets
}

// SetOption forwards an option code to the core. OptionStrictConversion is
// additionally interpreted locally to arm the saturation report.
func (in *Input) SetOption(code, val int32) error {
	if code == OptionStrictConversion {
		in.strict = val != 0
	}
	return in.core.SetOption(in.handle, code, val)
}

// Option reads an option code back from the core.
func (in *Input) Option(code int32) (int32, error) {
	return in.core.Option(in.handle, code)
}

// OnUpdateNotice installs the untyped notification callback. It fires at
// the dispatch point of any cycle in which an update is observable, after
// the typed callback, and receives the timestamp but not the value.
func (in *Input) OnUpdateNotice(fn func(*Input, value.Time)) error {
	if err := in.reconfigurable(); err != nil {
		return err
	}
	in.notice = fn

	return nil
}

// setCallback installs the single typed callback slot.
func (in *Input) setCallback(k value.Kind, fire func(*Input, value.Value, value.Time)) error {
	if err := in.reconfigurable(); err != nil {
		return err
	}
	if in.targetKind == value.KindCustom {
		return fmt.Errorf("%w: typed callback on custom input %q", errs.ErrCallbackType, in.name)
	}
	in.cb = &callback{kind: k, fire: fire}

	return nil
}

// OnDouble installs a double-typed update callback, replacing any installed
// typed callback.
func (in *Input) OnDouble(fn func(*Input, float64, value.Time)) error {
	return in.setCallback(value.KindDouble, func(i *Input, v value.Value, t value.Time) {
		fn(i, v.AsDouble(), t)
	})
}

// OnInt installs an integer-typed update callback.
func (in *Input) OnInt(fn func(*Input, int64, value.Time)) error {
	return in.setCallback(value.KindInt, func(i *Input, v value.Value, t value.Time) {
		fn(i, v.AsInt(), t)
	})
}

// OnString installs a string-typed update callback.
func (in *Input) OnString(fn func(*Input, string, value.Time)) error {
	return in.setCallback(value.KindString, func(i *Input, v value.Value, t value.Time) {
		fn(i, v.AsString(), t)
	})
}

// OnComplex installs a complex-typed update callback.
func (in *Input) OnComplex(fn func(*Input, complex128, value.Time)) error {
	return in.setCallback(value.KindComplex, func(i *Input, v value.Value, t value.Time) {
		fn(i, v.AsComplex(), t)
	})
}

// OnVector installs a vector-typed update callback.
func (in *Input) OnVector(fn func(*Input, []float64, value.Time)) error {
	return in.setCallback(value.KindVector, func(i *Input, v value.Value, t value.Time) {
		fn(i, v.AsVector(), t)
	})
}

// OnComplexVector installs a complex-vector-typed update callback.
func (in *Input) OnComplexVector(fn func(*Input, []complex128, value.Time)) error {
	return in.setCallback(value.KindComplexVector, func(i *Input, v value.Value, t value.Time) {
		fn(i, v.AsComplexVector(), t)
	})
}

// OnNamedPoint installs a named-point-typed update callback.
func (in *Input) OnNamedPoint(fn func(*Input, value.NamedPoint, value.Time)) error {
	return in.setCallback(value.KindNamedPoint, func(i *Input, v value.Value, t value.Time) {
		fn(i, v.AsNamed(), t)
	})
}

// OnBool installs a boolean-typed update callback.
func (in *Input) OnBool(fn func(*Input, bool, value.Time)) error {
	return in.setCallback(value.KindBool, func(i *Input, v value.Value, t value.Time) {
		fn(i, v.AsBool(), t)
	})
}

// OnTime installs a time-typed update callback.
func (in *Input) OnTime(fn func(*Input, value.Time, value.Time)) error {
	return in.setCallback(value.KindTime, func(i *Input, v value.Value, t value.Time) {
		fn(i, v.AsTime(), t)
	})
}

// CallbackKind returns the value kind of the installed typed callback, or
// KindUnknown when no typed callback is installed.
func (in *Input) CallbackKind() value.Kind {
	if in.cb == nil {
		return value.KindUnknown
	}
	return in.cb.kind
}

// CheckUpdate reports whether a new value is observable under the current
// change-detection policy, materialising any pending raw buffer into the
// stored value. With assume set, the core is not consulted: the caller
// asserts the registry scan has already decoded this cycle.
func (in *Input) CheckUpdate(assume bool) bool {
	if in.closed {
		return in.hasUpdate
	}
	if !assume && in.core.IsUpdated(in.handle) {
		in.ingest(in.core.LastUpdateTime(in.handle))
	}

	return in.hasUpdate
}

// IsUpdated is the side-effect-free form of CheckUpdate. Because it has no
// licence to decode, it may report true for a pending publication that the
// change detector would still filter out; callers needing the
// authoritative answer use CheckUpdate.
func (in *Input) IsUpdated() bool {
	if in.hasUpdate {
		return true
	}
	return !in.closed && in.core.IsUpdated(in.handle)
}

// ClearUpdate clears the has-update flag without consuming the value.
func (in *Input) ClearUpdate() {
	in.hasUpdate = false
}

// LastUpdateTime returns the simulation time of the most recent observable
// update.
func (in *Input) LastUpdateTime() value.Time {
	return in.lastTime
}

// Value returns the stored tagged value converted to the declared target
// kind, surfacing any error recorded since the previous read. Before the
// first publication it returns the default value. Custom-typed inputs have
// no tagged value; use CustomValue for them.
func (in *Input) Value() (value.Value, error) {
	if in.targetKind == value.KindCustom {
		return value.Value{}, fmt.Errorf("%w: tagged read on custom input %q", errs.ErrCustomType, in.name)
	}
	err := in.pendingErr
	in.pendingErr = nil
	v := in.stored
	if in.targetKind.Primary() {
		v = v.Convert(in.targetKind)
	}

	return v, err
}

// ValueRef returns a borrowed view of the stored tagged value without
// conversion. The reference is valid until the next decode on this input.
func (in *Input) ValueRef() *value.Value {
	return &in.stored
}

// CustomValue returns the opaquely stored value of a custom-typed input.
func (in *Input) CustomValue() (any, error) {
	if in.targetKind != value.KindCustom {
		return nil, fmt.Errorf("%w: input %q is %s-typed", errs.ErrCustomType, in.name, in.targetKind)
	}
	err := in.pendingErr
	in.pendingErr = nil

	return in.customValue, err
}

// Double returns the stored value as a double.
func (in *Input) Double() (float64, error) {
	v, err := in.read()
	return v.AsDouble(), err
}

// Int returns the stored value as a signed 64-bit integer.
func (in *Input) Int() (int64, error) {
	v, err := in.read()
	return v.AsInt(), err
}

// Text returns the stored value in its canonical string form.
func (in *Input) Text() (string, error) {
	v, err := in.read()
	return v.AsString(), err
}

// Complex returns the stored value as a complex number.
func (in *Input) Complex() (complex128, error) {
	v, err := in.read()
	return v.AsComplex(), err
}

// Vector returns the stored value as a sequence of doubles.
func (in *Input) Vector() ([]float64, error) {
	v, err := in.read()
	return v.AsVector(), err
}

// ComplexVector returns the stored value as a sequence of complex numbers.
func (in *Input) ComplexVector() ([]complex128, error) {
	v, err := in.read()
	return v.AsComplexVector(), err
}

// NamedPoint returns the stored value as a named point.
func (in *Input) NamedPoint() (value.NamedPoint, error) {
	v, err := in.read()
	return v.AsNamed(), err
}

// Bool returns the stored value as a boolean.
func (in *Input) Bool() (bool, error) {
	v, err := in.read()
	return v.AsBool(), err
}

// Time returns the stored value as a simulation time.
func (in *Input) Time() (value.Time, error) {
	v, err := in.read()
	return v.AsTime(), err
}

// Char returns the first byte of the stored value's string form, or zero
// for an empty string.
func (in *Input) Char() (byte, error) {
	s, err := in.Text()
	if s == "" {
		return 0, err
	}
	return s[0], err
}

func (in *Input) read() (value.Value, error) {
	err := in.pendingErr
	in.pendingErr = nil

	return in.stored, err
}

// Raw returns the most recent raw buffer held by the core for this input.
func (in *Input) Raw() ([]byte, error) {
	if in.closed {
		return nil, fmt.Errorf("%w: %q", errs.ErrClosed, in.name)
	}
	return in.core.Raw(in.handle)
}

// RawSize returns the byte length of the most recent raw buffer.
func (in *Input) RawSize() int {
	data, err := in.Raw()
	if err != nil {
		return 0
	}
	return len(data)
}

// StringSize returns the payload size of the stored value as if it were
// read as a string.
func (in *Input) StringSize() int {
	return len(in.stored.AsString())
}

// VectorSize returns the element count of the stored value as if it were
// read as a vector.
func (in *Input) VectorSize() int {
	return len(in.stored.AsVector())
}

// Close severs the input from the core. Close is idempotent; reads keep
// returning the last stored value and updates stop.
func (in *Input) Close() error {
	if in.closed {
		return nil
	}
	in.closed = true

	return in.core.CloseInterface(in.handle)
}

// Closed reports whether Close has been called.
func (in *Input) Closed() bool {
	return in.closed
}

func (in *Input) mutable() error {
	if in.closed {
		return fmt.Errorf("%w: %q", errs.ErrClosed, in.name)
	}
	if in.reg.mode >= ModeExecuting {
		return fmt.Errorf("%w: set-default on %q in %s mode", errs.ErrLifecycle, in.name, in.reg.mode)
	}
	return nil
}

func (in *Input) reconfigurable() error {
	if in.closed {
		return fmt.Errorf("%w: %q", errs.ErrClosed, in.name)
	}
	if in.reg.mode >= ModeExecuting {
		return fmt.Errorf("%w: reconfigure %q in %s mode", errs.ErrLifecycle, in.name, in.reg.mode)
	}
	return nil
}

// loadSourceInfo pulls the injection type and units from the core the first
// time they are needed and builds the unit bridge. Publications may connect
// after the input is declared, so this cannot happen at construction.
func (in *Input) loadSourceInfo() {
	if in.sourceLoaded || in.closed {
		return
	}
	injType := in.core.InjectionType(in.handle)
	injUnits := in.core.InjectionUnits(in.handle)
	if injType == "" && injUnits == "" {
		return // no source information yet; retry on next delivery
	}

	in.injectionType = injType
	in.injectionUnit = injUnits
	in.sourceLoaded = true

	bridge, err := units.ParseBridge(injUnits, in.outputUnits)
	if err != nil {
		in.bridge = units.Identity()
		in.pendingErr = fmt.Errorf("input %q: %w", in.name, err)
		return
	}
	in.bridge = bridge

	if in.targetKind == value.KindUnknown {
		if k, err := value.ParseKind(injType); err == nil && k.Primary() {
			in.targetKind = k
		}
	}
}

// ingest decodes this cycle's raw buffers, reduces them under the
// multi-input policy, applies the unit bridge and change detection, and
// stores the result. It reports whether the update became observable.
func (in *Input) ingest(t value.Time) bool {
	if in.closed {
		return false
	}
	in.loadSourceInfo()

	bufs, err := in.core.RawAll(in.handle)
	if err != nil || len(bufs) == 0 {
		return false
	}

	if in.targetKind == value.KindCustom {
		return in.ingestCustom(bufs[len(bufs)-1], t)
	}

	vals := make([]value.Value, 0, len(bufs))
	for _, buf := range bufs {
		v, err := in.reg.codec.Decode(buf)
		if err != nil {
			in.pendingErr = fmt.Errorf("input %q: %d byte buffer: %w", in.name, len(buf), err)
			return false
		}
		vals = append(vals, v)
	}

	reduced, err := Reduce(in.policy, vals)
	if err != nil {
		in.pendingErr = fmt.Errorf("input %q: %w", in.name, err)
		return false
	}

	converted, saturated := in.bridge.Apply(reduced)
	if saturated && in.strict {
		in.pendingErr = fmt.Errorf("input %q: %w", in.name, errs.ErrSaturation)
	}
	if !converted.ConvertibleTo(in.targetKind) {
		in.pendingErr = fmt.Errorf("input %q: %d byte buffer: cannot interpret %q as %s: %w",
			in.name, len(bufs[len(bufs)-1]), converted.AsString(), in.targetKind, errs.ErrDecode)
	}

	if in.changeCheck && in.populated && !Changed(in.stored, converted, in.delta) {
		in.hasUpdate = false
		return false
	}

	in.stored = converted
	in.populated = true
	in.hasUpdate = true
	in.lastTime = t

	return true
}

// ingestCustom hands the raw buffer to the user codec and stores the result
// opaquely. Change detection applies only when a comparator is supplied.
func (in *Input) ingestCustom(buf []byte, t value.Time) bool {
	if in.custom == nil {
		in.pendingErr = fmt.Errorf("input %q: %w: no codec registered", in.name, errs.ErrCustomType)
		return false
	}
	v, err := in.custom.Decode(buf)
	if err != nil {
		in.pendingErr = fmt.Errorf("input %q: %d byte buffer: %w: %v", in.name, len(buf), errs.ErrDecode, err)
		return false
	}
	if in.comparator != nil && in.customValue != nil && in.comparator(in.customValue, v) {
		in.hasUpdate = false
		return false
	}

	in.customValue = v
	in.hasUpdate = true
	in.lastTime = t

	return true
}
