// Package motor implements simulated motor records and the offset pseudo
// motor used by the crystal towers.
package motor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/jortiz-slac/pcdsdevices/pkg/model"
)

// Motor errors.
var (
	ErrLimitViolation = errors.New("target outside soft limits")
	ErrInvalidTarget  = errors.New("invalid motor target")
)

// Option configures a Motor.
type Option func(*Motor)

// WithLimits sets the soft limits. Equal limits disable the check.
func WithLimits(low, high float64) Option {
	return func(m *Motor) {
		_ = m.lowLimit.SimPut(low)
		_ = m.highLimit.SimPut(high)
	}
}

// WithSettle delays move completion, as a real stage would take time.
func WithSettle(d time.Duration) Option {
	return func(m *Motor) { m.settle = d }
}

// WithUnits sets the engineering units of the position signals.
func WithUnits(units string) Option {
	return func(m *Motor) {
		m.setpoint.Metadata().Units = units
		m.readback.Metadata().Units = units
	}
}

// Motor is a simulated motor record.
type Motor struct {
	*model.Device

	setpoint  *model.Signal
	readback  *model.Signal
	lowLimit  *model.Signal
	highLimit *model.Signal
	settle    time.Duration
}

// New creates a motor at position 0.
func New(prefix, name string, opts ...Option) *Motor {
	m := &Motor{
		Device: model.NewDevice(prefix, name),
		setpoint: model.NewSignal(&model.SignalMetadata{
			Name:    "user_setpoint",
			PV:      prefix,
			Type:    model.DataTypeFloat,
			Access:  model.AccessReadWrite,
			Default: 0.0,
		}),
		readback: model.NewSignal(&model.SignalMetadata{
			Name:    "user_readback",
			PV:      prefix + ".RBV",
			Type:    model.DataTypeFloat,
			Access:  model.AccessReadOnly,
			Default: 0.0,
		}),
		lowLimit: model.NewSignal(&model.SignalMetadata{
			Name:    "low_limit",
			PV:      prefix + ".LLM",
			Type:    model.DataTypeFloat,
			Access:  model.AccessReadWrite,
			Default: 0.0,
		}),
		highLimit: model.NewSignal(&model.SignalMetadata{
			Name:    "high_limit",
			PV:      prefix + ".HLM",
			Type:    model.DataTypeFloat,
			Access:  model.AccessReadWrite,
			Default: 0.0,
		}),
	}
	m.MustAdd("user_setpoint", m.setpoint)
	m.MustAdd("user_readback", m.readback)
	m.MustAdd("low_limit", m.lowLimit)
	m.MustAdd("high_limit", m.highLimit)

	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Position returns the readback position.
func (m *Motor) Position() float64 {
	v, _ := m.readback.Float()
	return v
}

// Setpoint returns the last requested position.
func (m *Motor) Setpoint() float64 {
	v, _ := m.setpoint.Float()
	return v
}

// Readback returns the readback signal.
func (m *Motor) Readback() *model.Signal {
	return m.readback
}

// Limits returns the soft limits.
func (m *Motor) Limits() (low, high float64) {
	low, _ = m.lowLimit.Float()
	high, _ = m.highLimit.Float()
	return low, high
}

// CheckValue validates a target against the soft limits.
func (m *Motor) CheckValue(pos float64) error {
	if math.IsNaN(pos) || math.IsInf(pos, 0) {
		return fmt.Errorf("%s: %w: %v", m.Name(), ErrInvalidTarget, pos)
	}
	low, high := m.Limits()
	if low == high {
		return nil
	}
	if pos < low || pos > high {
		return fmt.Errorf("%s: %w: %v not in [%v, %v]", m.Name(), ErrLimitViolation, pos, low, high)
	}
	return nil
}

// Move drives the motor to pos.
func (m *Motor) Move(ctx context.Context, pos float64, opts model.MoveOptions) (*model.Status, error) {
	if err := m.CheckValue(pos); err != nil {
		m.LogError(err, "move")
		return nil, err
	}

	from := m.Position()
	m.Logger().Debug("moving motor", "from", from, "to", pos)
	m.LogMove(formatPosition(from), formatPosition(pos))

	if err := m.setpoint.Put(pos); err != nil {
		m.LogError(err, "move")
		return nil, err
	}

	st := model.NewStatus(m)
	if m.settle <= 0 {
		m.arrive(st, pos)
	} else {
		go func() {
			timer := time.NewTimer(m.settle)
			defer timer.Stop()
			select {
			case <-timer.C:
				m.arrive(st, pos)
			case <-ctx.Done():
				st.MarkFinished(ctx.Err())
			}
		}()
	}
	return model.Complete(ctx, st, opts)
}

func (m *Motor) arrive(st *model.Status, pos float64) {
	st.MarkFinished(m.readback.SimPut(pos))
}

func formatPosition(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
