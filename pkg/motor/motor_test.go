package motor

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/jortiz-slac/pcdsdevices/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMotorMove(t *testing.T) {
	ctx := context.Background()
	m := New("TST:MMS:01", "tst_mms")

	assert.Equal(t, 0.0, m.Position())

	st, err := m.Move(ctx, 12.5, model.MoveOptions{Wait: true})
	require.NoError(t, err)
	assert.True(t, st.Success())
	assert.Equal(t, 12.5, m.Position())
	assert.Equal(t, 12.5, m.Setpoint())
}

func TestMotorLimits(t *testing.T) {
	ctx := context.Background()
	m := New("TST:MMS:01", "tst_mms", WithLimits(-5, 5))

	_, err := m.Move(ctx, 6, model.MoveOptions{})
	assert.ErrorIs(t, err, ErrLimitViolation)
	assert.Equal(t, 0.0, m.Position())

	_, err = m.Move(ctx, -5, model.MoveOptions{})
	assert.NoError(t, err)
}

func TestMotorRejectsNaN(t *testing.T) {
	m := New("TST:MMS:01", "tst_mms")
	_, err := m.Move(context.Background(), math.NaN(), model.MoveOptions{})
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

func TestMotorSettle(t *testing.T) {
	ctx := context.Background()
	m := New("TST:MMS:01", "tst_mms", WithSettle(20*time.Millisecond))

	st, err := m.Move(ctx, 3, model.MoveOptions{})
	require.NoError(t, err)
	assert.False(t, st.Finished())

	require.NoError(t, st.WaitTimeout(ctx, time.Second))
	assert.Equal(t, 3.0, m.Position())
}

func TestMotorSettleTimeout(t *testing.T) {
	m := New("TST:MMS:01", "tst_mms", WithSettle(time.Second))

	_, err := m.Move(context.Background(), 3, model.MoveOptions{Wait: true, Timeout: 10 * time.Millisecond})
	assert.ErrorIs(t, err, model.ErrStatusTimeout)
}

func TestOffsetMotor(t *testing.T) {
	ctx := context.Background()
	m := NewOffsetMotor("TST:LOM:TH1C", "th1_c", 23)

	assert.Equal(t, 23.0, m.Offset())
	assert.Equal(t, -23.0, m.Position())

	var moved any
	_, err := m.Move(ctx, 77, model.MoveOptions{Wait: true, MovedCB: func(obj any) { moved = obj }})
	require.NoError(t, err)

	assert.Equal(t, 100.0, m.Motor().Position())
	assert.Equal(t, 77.0, m.Position())
	assert.Same(t, m, moved)
}

func TestOffsetMotorOffsetIsReadOnly(t *testing.T) {
	m := NewOffsetMotor("TST:LOM:TH1C", "th1_c", 23)

	c, err := m.Component("user_offset")
	require.NoError(t, err)
	sig := c.(*model.Signal)

	assert.ErrorIs(t, sig.Put(1.0), model.ErrSignalNotWritable)
	assert.Equal(t, 23.0, m.Offset())
}

func TestOffsetMotorConversions(t *testing.T) {
	m := NewOffsetMotor("TST", "tst", -2.5)
	assert.Equal(t, 12.5, m.Forward(10))
	assert.Equal(t, 10.0, m.Inverse(12.5))
}
