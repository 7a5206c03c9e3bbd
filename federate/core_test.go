package federate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridfed/cosim/codec"
	"github.com/gridfed/cosim/value"
)

// fakeCore is an in-memory federate core: buffers are pushed in by the test
// and frozen until consumed, matching the synchronous contract.
type fakeCore struct {
	ifaces []*fakeIface
}

type fakeIface struct {
	name     string
	typeName string
	units    string

	injType  string
	injUnits string

	pending  [][]byte
	last     []byte
	def      []byte
	updateAt value.Time

	opts    map[int32]int32
	targets []string
	closed  bool
	notify  func(Handle, value.Time)
}

func newFakeCore() *fakeCore {
	return &fakeCore{}
}

func (c *fakeCore) iface(h Handle) (*fakeIface, error) {
	if h < 0 || int(h) >= len(c.ifaces) {
		return nil, fmt.Errorf("fake core: no interface %d", h)
	}
	return c.ifaces[h], nil
}

func (c *fakeCore) push(h Handle, data []byte, t value.Time) {
	f := c.ifaces[h]
	f.pending = append(f.pending, data)
	f.updateAt = t
}

func (c *fakeCore) RegisterInput(name, typeName, units string) (Handle, error) {
	c.ifaces = append(c.ifaces, &fakeIface{
		name:     name,
		typeName: typeName,
		units:    units,
		opts:     make(map[int32]int32),
	})
	return Handle(len(c.ifaces) - 1), nil
}

func (c *fakeCore) Raw(h Handle) ([]byte, error) {
	f, err := c.iface(h)
	if err != nil {
		return nil, err
	}
	if f.last != nil {
		return f.last, nil
	}
	return f.def, nil
}

func (c *fakeCore) RawAll(h Handle) ([][]byte, error) {
	f, err := c.iface(h)
	if err != nil {
		return nil, err
	}
	out := f.pending
	f.pending = nil
	if len(out) > 0 {
		f.last = out[len(out)-1]
	}
	return out, nil
}

func (c *fakeCore) IsUpdated(h Handle) bool {
	f, err := c.iface(h)
	return err == nil && len(f.pending) > 0
}

func (c *fakeCore) InjectionType(h Handle) string  { return c.ifaces[h].injType }
func (c *fakeCore) InjectionUnits(h Handle) string { return c.ifaces[h].injUnits }
func (c *fakeCore) ExtractionType(h Handle) string { return c.ifaces[h].typeName }
func (c *fakeCore) ExtractionUnits(h Handle) string {
	return c.ifaces[h].units
}

func (c *fakeCore) LastUpdateTime(h Handle) value.Time {
	return c.ifaces[h].updateAt
}

func (c *fakeCore) AddTarget(h Handle, name string) error {
	f, err := c.iface(h)
	if err != nil {
		return err
	}
	f.targets = append(f.targets, name)
	return nil
}

func (c *fakeCore) RemoveTarget(h Handle, name string) error {
	f, err := c.iface(h)
	if err != nil {
		return err
	}
	for i, t := range f.targets {
		if t == name {
			f.targets = append(f.targets[:i], f.targets[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("fake core: %q is not a target of %d", name, h)
}

func (c *fakeCore) SetOption(h Handle, code, val int32) error {
	f, err := c.iface(h)
	if err != nil {
		return err
	}
	f.opts[code] = val
	return nil
}

func (c *fakeCore) Option(h Handle, code int32) (int32, error) {
	f, err := c.iface(h)
	if err != nil {
		return 0, err
	}
	return f.opts[code], nil
}

func (c *fakeCore) SetDefaultRaw(h Handle, data []byte) error {
	f, err := c.iface(h)
	if err != nil {
		return err
	}
	f.def = data
	return nil
}

func (c *fakeCore) SetNotification(h Handle, fn func(Handle, value.Time)) error {
	f, err := c.iface(h)
	if err != nil {
		return err
	}
	f.notify = fn
	return nil
}

func (c *fakeCore) CloseInterface(h Handle) error {
	f, err := c.iface(h)
	if err != nil {
		return err
	}
	f.closed = true
	return nil
}

var _ Core = (*fakeCore)(nil)

// ==============================================================================
// Shared helpers
// ==============================================================================

func encodeValue(t *testing.T, v value.Value) []byte {
	t.Helper()
	data, err := codec.Default().Encode(v)
	require.NoError(t, err)
	return data
}

// publish pushes an encoded value for the input's handle at time sec.
func publish(t *testing.T, core *fakeCore, in *Input, v value.Value, sec float64) {
	t.Helper()
	core.push(in.Handle(), encodeValue(t, v), value.TimeFromSeconds(sec))
}

// newExecutingInput builds a registry with one registered input and walks
// the lifecycle into executing mode.
func newExecutingInput(t *testing.T, typeName string, opts ...InputOption) (*Registry, *fakeCore, *Input) {
	t.Helper()
	core := newFakeCore()
	reg, err := NewRegistry(core)
	require.NoError(t, err)

	in, err := reg.Register("test/input", typeName, opts...)
	require.NoError(t, err)

	require.NoError(t, reg.EnterInitializing())
	require.NoError(t, reg.EnterExecuting())

	return reg, core, in
}
