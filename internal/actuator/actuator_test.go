package actuator

import (
	"testing"
	"time"

	"github.com/jmylchreest/sunrised/internal/errors"
	"github.com/jmylchreest/sunrised/pkg/light"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	changes []light.PropertyValue
}

func (r *recorder) notify(pv light.PropertyValue) {
	r.changes = append(r.changes, pv)
}

func (r *recorder) powers() []light.Power {
	var out []light.Power
	for _, c := range r.changes {
		if p, ok := c.(light.PowerValue); ok {
			out = append(out, light.Power(p))
		}
	}
	return out
}

var t0 = time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)

func newTestActuator() (*Actuator, *RecordingOutput, *recorder) {
	out := &RecordingOutput{}
	rec := &recorder{}
	return New(out, rec.notify, 3600, nil), out, rec
}

func TestNew_BootState(t *testing.T) {
	a, out, rec := newTestActuator()
	assert.Equal(t, light.PowerOff, a.Power())
	assert.Zero(t, a.Brightness())
	assert.False(t, a.Animating())
	assert.Equal(t, -1, out.Last())
	assert.Empty(t, rec.changes)
}

func TestApply_ModeToPower(t *testing.T) {
	tests := []struct {
		mode  light.Mode
		power light.Power
	}{
		{light.ModeOff, light.PowerOff},
		{light.ModeOn, light.PowerOn},
		{light.ModeAnimateOff, light.PowerTurningOff},
		{light.ModeAnimateOn, light.PowerTurningOn},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			for _, start := range []light.Mode{light.ModeOff, light.ModeOn} {
				a, _, _ := newTestActuator()
				require.NoError(t, a.Apply(start, 0, t0))
				require.NoError(t, a.Apply(tt.mode, 5, t0))
				assert.Equal(t, tt.power, a.Power())
			}
		})
	}
}

func TestApply_Immediate(t *testing.T) {
	a, out, rec := newTestActuator()

	require.NoError(t, a.Apply(light.ModeOn, 0, t0))
	assert.Equal(t, light.PowerOn, a.Power())
	assert.Equal(t, 255, a.Brightness())
	assert.Equal(t, 255, out.Last())
	assert.Equal(t, []light.PropertyValue{light.BrightnessValue(255), light.PowerValue(light.PowerOn)}, rec.changes)

	require.NoError(t, a.Apply(light.ModeOff, 0, t0))
	assert.Equal(t, light.PowerOff, a.Power())
	assert.Zero(t, a.Brightness())
	assert.Equal(t, 0, out.Last())
}

func TestApply_ImmediateIgnoresDuration(t *testing.T) {
	a, _, _ := newTestActuator()
	require.NoError(t, a.Apply(light.ModeOn, 99999, t0))
	require.NoError(t, a.Apply(light.ModeOff, -4, t0))
	assert.Equal(t, light.PowerOff, a.Power())
}

func TestApply_NoChangeNoNotify(t *testing.T) {
	a, _, rec := newTestActuator()
	require.NoError(t, a.Apply(light.ModeOff, 0, t0))
	assert.Empty(t, rec.changes)
}

func TestApply_InvalidRejectedWithoutStateChange(t *testing.T) {
	a, out, rec := newTestActuator()

	for _, tc := range []struct {
		mode     light.Mode
		duration int
	}{
		{light.Mode(4), 3},
		{light.Mode(-1), 3},
		{light.ModeAnimateOn, -1},
		{light.ModeAnimateOff, 3601},
	} {
		err := a.Apply(tc.mode, tc.duration, t0)
		assert.True(t, errors.IsInvalidParameter(err), "mode=%d duration=%d", tc.mode, tc.duration)
	}

	assert.Equal(t, light.PowerOff, a.Power())
	assert.False(t, a.Animating())
	assert.Equal(t, -1, out.Last())
	assert.Empty(t, rec.changes)
}

func TestApply_AnimateOnSettlesAfterDuration(t *testing.T) {
	a, out, rec := newTestActuator()
	require.NoError(t, a.Apply(light.ModeAnimateOn, 5, t0))
	assert.Equal(t, light.PowerTurningOn, a.Power())
	assert.True(t, a.Animating())

	prev := a.Brightness()
	for i := 1; i < 5; i++ {
		assert.False(t, a.Step(t0.Add(time.Duration(i)*time.Second)))
		assert.Equal(t, light.PowerTurningOn, a.Power())
		assert.Greater(t, a.Brightness(), prev, "ramp must increase")
		prev = a.Brightness()
	}

	assert.True(t, a.Step(t0.Add(5*time.Second)))
	assert.Equal(t, light.PowerOn, a.Power())
	assert.Equal(t, 255, a.Brightness())
	assert.Equal(t, 255, out.Last())
	assert.False(t, a.Animating())
	assert.Equal(t, []light.Power{light.PowerTurningOn, light.PowerOn}, rec.powers())

	// Nothing left to step.
	assert.False(t, a.Step(t0.Add(6*time.Second)))
}

func TestApply_LinearRamp(t *testing.T) {
	a, _, _ := newTestActuator()
	require.NoError(t, a.Apply(light.ModeAnimateOn, 10, t0))

	a.Step(t0.Add(5 * time.Second))
	assert.Equal(t, 127, a.Brightness())

	a.Step(t0.Add(2500 * time.Millisecond))
	assert.Equal(t, 63, a.Brightness())
}

func TestApply_AnimateOffFromOn(t *testing.T) {
	a, _, _ := newTestActuator()
	require.NoError(t, a.Apply(light.ModeOn, 0, t0))
	require.NoError(t, a.Apply(light.ModeAnimateOff, 2, t0))
	assert.Equal(t, light.PowerTurningOff, a.Power())
	assert.Equal(t, 255, a.Brightness())

	a.Step(t0.Add(time.Second))
	assert.Equal(t, 128, a.Brightness())

	assert.True(t, a.Step(t0.Add(2*time.Second)))
	assert.Equal(t, light.PowerOff, a.Power())
	assert.Zero(t, a.Brightness())
}

func TestApply_ZeroDurationUsesDefault(t *testing.T) {
	a, _, _ := newTestActuator()
	require.NoError(t, a.Apply(light.ModeAnimateOn, 0, t0))

	assert.False(t, a.Step(t0.Add(2*time.Second)))
	assert.True(t, a.Step(t0.Add(3*time.Second)))
	assert.Equal(t, light.PowerOn, a.Power())
}

func TestApply_ImmediateCancelsAnimation(t *testing.T) {
	a, _, _ := newTestActuator()
	require.NoError(t, a.Apply(light.ModeAnimateOn, 10, t0))
	a.Step(t0.Add(3 * time.Second))

	require.NoError(t, a.Apply(light.ModeOff, 0, t0.Add(3*time.Second)))
	assert.False(t, a.Animating())

	// The cancelled fade must not resurrect on later steps.
	a.Step(t0.Add(20 * time.Second))
	assert.Equal(t, light.PowerOff, a.Power())
	assert.Zero(t, a.Brightness())
}

func TestApply_ReverseMidFade(t *testing.T) {
	a, _, _ := newTestActuator()
	require.NoError(t, a.Apply(light.ModeAnimateOn, 10, t0))
	a.Step(t0.Add(5 * time.Second))
	mid := a.Brightness()

	now := t0.Add(5 * time.Second)
	require.NoError(t, a.Apply(light.ModeAnimateOff, 2, now))
	assert.Equal(t, mid, a.Brightness(), "reverse fade starts from the current level")

	a.Step(now.Add(time.Second))
	assert.Less(t, a.Brightness(), mid)
	assert.True(t, a.Step(now.Add(2*time.Second)))
	assert.Equal(t, light.PowerOff, a.Power())
}

func TestMultiOutput(t *testing.T) {
	r1, r2 := &RecordingOutput{}, &RecordingOutput{}
	m := MultiOutput{r1, r2}
	require.NoError(t, m.Write(42))
	assert.Equal(t, []int{42}, r1.Levels())
	assert.Equal(t, []int{42}, r2.Levels())
}
