package motor

import (
	"context"

	"github.com/jortiz-slac/pcdsdevices/pkg/model"
)

// OffsetMotor is a pseudo motor whose position is the real motor position
// minus a fixed calibration offset.
type OffsetMotor struct {
	*model.Device

	motor      *Motor
	userOffset *model.Signal
}

// NewOffsetMotor wraps a new real motor at prefix. The offset cannot be
// changed afterwards.
func NewOffsetMotor(prefix, name string, offset float64, opts ...Option) *OffsetMotor {
	m := &OffsetMotor{
		Device: model.NewDevice(prefix, name),
		motor:  New(prefix, name+"_motor", opts...),
		userOffset: model.NewSignal(&model.SignalMetadata{
			Name:        "user_offset",
			PV:          prefix + ":OFFSET",
			Type:        model.DataTypeFloat,
			Access:      model.AccessRead,
			Default:     offset,
			Description: "Calibration offset subtracted from the real position",
		}),
	}
	m.MustAdd("motor", m.motor)
	m.MustAdd("user_offset", m.userOffset)
	return m
}

// Motor returns the real motor.
func (m *OffsetMotor) Motor() *Motor {
	return m.motor
}

// Offset returns the calibration offset.
func (m *OffsetMotor) Offset() float64 {
	v, _ := m.userOffset.Float()
	return v
}

// Position returns the pseudo position: real position minus offset.
func (m *OffsetMotor) Position() float64 {
	return m.Forward(m.motor.Position())
}

// Forward converts a real position into a pseudo position.
func (m *OffsetMotor) Forward(realPos float64) float64 {
	return realPos - m.Offset()
}

// Inverse converts a pseudo position into a real position.
func (m *OffsetMotor) Inverse(pseudo float64) float64 {
	return pseudo + m.Offset()
}

// CheckValue validates a pseudo target against the real motor's limits.
func (m *OffsetMotor) CheckValue(pos float64) error {
	return m.motor.CheckValue(m.Inverse(pos))
}

// Move drives the real motor so that the pseudo position becomes pos.
func (m *OffsetMotor) Move(ctx context.Context, pos float64, opts model.MoveOptions) (*model.Status, error) {
	st, err := m.motor.Move(ctx, m.Inverse(pos), model.MoveOptions{})
	if err != nil {
		return nil, err
	}
	// Report completion against the pseudo motor, not the real one.
	pseudo := model.AndStatus(m, st)
	return model.Complete(ctx, pseudo, opts)
}
