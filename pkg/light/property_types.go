package light

import (
	"fmt"

	"github.com/jmylchreest/sunrised/internal/config"
)

// PropertyName names a field of Status that is pushed to subscribers on change.
type PropertyName string

const (
	// PropertyBrightness is the output level (0-255)
	PropertyBrightness PropertyName = "brightness"

	// PropertyPower is the power state (see Power)
	PropertyPower PropertyName = "power"

	// PropertyTimestamp is the device clock in epoch seconds
	PropertyTimestamp PropertyName = "timestamp"
)

// PropertyValue is a typed status delta.
type PropertyValue interface {
	// PropertyName returns the name of the property this value is for
	PropertyName() PropertyName

	// Value returns the raw value as it appears on the wire
	Value() any

	// Validate checks if the value is valid for the property
	Validate() error
}

// BrightnessValue represents an output level
type BrightnessValue int

func (v BrightnessValue) PropertyName() PropertyName { return PropertyBrightness }
func (v BrightnessValue) Value() any                 { return int(v) }

// Validate ensures the brightness is within the output range
func (v BrightnessValue) Validate() error {
	if v < config.MinBrightness || v > config.MaxBrightness {
		return fmt.Errorf("brightness must be between %d and %d, got %d",
			config.MinBrightness, config.MaxBrightness, int(v))
	}
	return nil
}

// PowerValue represents a power state
type PowerValue Power

func (v PowerValue) PropertyName() PropertyName { return PropertyPower }
func (v PowerValue) Value() any                 { return int(v) }

// Validate ensures the power state is one of the four known values
func (v PowerValue) Validate() error {
	switch Power(v) {
	case PowerOff, PowerOn, PowerTurningOff, PowerTurningOn:
		return nil
	default:
		return fmt.Errorf("unknown power state %d", int(v))
	}
}

// TimestampValue represents the device clock
type TimestampValue int64

func (v TimestampValue) PropertyName() PropertyName { return PropertyTimestamp }
func (v TimestampValue) Value() any                 { return int64(v) }

// Validate rejects epochs outside 0..MaxTimestamp
func (v TimestampValue) Validate() error {
	if v < 0 {
		return fmt.Errorf("timestamp must not be negative, got %d", int64(v))
	}
	if v > config.MaxTimestamp {
		return fmt.Errorf("timestamp must be at most %d, got %d", int64(config.MaxTimestamp), int64(v))
	}
	return nil
}

// Apply writes the value into a status snapshot.
func Apply(s *Status, pv PropertyValue) {
	switch v := pv.(type) {
	case BrightnessValue:
		s.Brightness = int(v)
	case PowerValue:
		s.Power = Power(v)
	case TimestampValue:
		s.Timestamp = int64(v)
	}
}
