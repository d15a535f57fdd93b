package inspect

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jortiz-slac/pcdsdevices/pkg/lodcm"
	"github.com/jortiz-slac/pcdsdevices/pkg/model"
	"github.com/jortiz-slac/pcdsdevices/pkg/xray"
)

// createTestDevice creates a diamond LODCM with diagnostics out.
func createTestDevice(t *testing.T) *lodcm.LODCM {
	t.Helper()
	l := lodcm.New("XPP:LOM", "xpp_lom", lodcm.Options{
		Offsets: lodcm.Offsets{"th1_c": 23},
	})
	l.SimSetFirstStates()
	lodcm.SimSetReflections(l.Tower1, xray.Reflection{1, 1, 1}, xray.Reflection{1, 1, 1})
	lodcm.SimSetReflections(l.Tower2, xray.Reflection{1, 1, 1}, xray.Reflection{1, 1, 1})
	return l
}

func mustPath(t *testing.T, s string) *Path {
	t.Helper()
	p, err := ParsePath(s)
	require.NoError(t, err)
	return p
}

func TestInspectDevice(t *testing.T) {
	l := createTestDevice(t)
	insp := NewInspector(l.Device)
	assert.Same(t, l.Device, insp.Device())

	tree := insp.InspectDevice()
	assert.Equal(t, "xpp_lom", tree.Name)
	assert.Equal(t, "XPP:LOM", tree.Prefix)

	paths := map[string]SignalInfo{}
	for _, sig := range tree.Signals {
		paths[sig.Path] = sig
	}
	require.Contains(t, paths, "tower1.h1n_state.state")
	require.Contains(t, paths, "calc.energy")
	assert.Equal(t, "XPP:LOM:E:ENERGY", paths["calc.energy"].PV)
	assert.Equal(t, "keV", paths["calc.energy"].Units)

	out := insp.FormatDeviceTree(tree, nil)
	assert.True(t, strings.HasPrefix(out, "Device: xpp_lom\nPrefix: XPP:LOM\n---\n"))
}

func TestInspectPath(t *testing.T) {
	insp := NewInspector(createTestDevice(t).Device)

	infos, err := insp.Inspect(mustPath(t, "yag.state"))
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "OUT", infos[0].Value)

	infos, err = insp.Inspect(mustPath(t, "calc.th1_c"))
	require.NoError(t, err)
	var names []string
	for _, info := range infos {
		names = append(names, info.Path)
	}
	assert.Contains(t, names, "calc.th1_c.motor.user_readback")
	assert.Contains(t, names, "calc.th1_c.user_offset")

	_, err = insp.Inspect(mustPath(t, "tower3"))
	assert.ErrorIs(t, err, model.ErrComponentNotFound)
}

func TestRead(t *testing.T) {
	insp := NewInspector(createTestDevice(t).Device)

	tests := []struct {
		path string
		want any
	}{
		{"tower1.h1n_state", "C"},
		{"tower1.h1n_state.state", "C"},
		{"foil", "OUT"},
		{"calc.th1_c", -23.0},
		{"calc.th1_c.user_offset", 23.0},
		{"calc.z1_c", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := insp.Read(mustPath(t, tt.path))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := insp.Read(mustPath(t, "tower1"))
	assert.ErrorIs(t, err, ErrNotReadable)
}

func TestMove(t *testing.T) {
	ctx := context.Background()
	l := createTestDevice(t)
	insp := NewInspector(l.Device)

	_, err := insp.Move(ctx, mustPath(t, "yag"), "IN", model.MoveOptions{Wait: true})
	require.NoError(t, err)
	assert.Equal(t, "YAG", l.Yag.Position())
	assert.Equal(t, []string{"MAIN"}, l.Destination())

	_, err = insp.Move(ctx, mustPath(t, "calc.th1_c"), "77", model.MoveOptions{Wait: true})
	require.NoError(t, err)
	assert.InDelta(t, 100.0, l.Energy.Th1C.Motor().Position(), 1e-9)

	_, err = insp.Move(ctx, mustPath(t, "calc.th1_c"), "far", model.MoveOptions{})
	assert.ErrorIs(t, err, ErrBadValue)

	_, err = insp.Move(ctx, mustPath(t, "calc.energy"), "10", model.MoveOptions{})
	assert.ErrorIs(t, err, ErrNotMovable)
}

func TestWrite(t *testing.T) {
	l := createTestDevice(t)
	insp := NewInspector(l.Device)

	require.NoError(t, insp.Write(mustPath(t, "diode.state"), "IN"))
	assert.Equal(t, "IN", l.Diode.Position())

	require.NoError(t, insp.Write(mustPath(t, "calc.z1_c.high_limit"), "500"))
	_, high := l.Energy.Z1C.Limits()
	assert.Equal(t, 500.0, high)

	err := insp.Write(mustPath(t, "calc.th1_c.user_offset"), "0")
	assert.ErrorIs(t, err, model.ErrSignalNotWritable)

	err = insp.Write(mustPath(t, "calc.z1_c.high_limit"), "high")
	assert.ErrorIs(t, err, ErrBadValue)

	err = insp.Write(mustPath(t, "tower1"), "C")
	assert.ErrorIs(t, err, ErrNotMovable)
}

func TestComponentPaths(t *testing.T) {
	l := createTestDevice(t)

	paths := ComponentPaths(l.Device)
	assert.Contains(t, paths, "tower1")
	assert.Contains(t, paths, "tower1.h1n_state.state")
	assert.Contains(t, paths, "calc.th2_si.motor.low_limit")
	assert.NotContains(t, paths, "calc.tower1")

	matches := CompletePath(l.Device, "TOWER2.Y")
	assert.Equal(t, []string{"tower2.y2_state", "tower2.y2_state.state"}, matches)
}
