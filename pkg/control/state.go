// Package control holds the live control variables of the fire truck
// scene. A State is a plain value: input handling produces a new State
// between frames and every frame evaluates one immutable copy of it.
package control

import (
	"fmt"
	"math"

	"github.com/chazu/firehouse/pkg/gfx"
)

// Truck geometry and travel limits.
const (
	WheelRadius = 0.75
	StairWidth  = 0.2

	MinStepWidth   = StairWidth * 3
	MaxStepWidth   = StairWidth * 8
	DefaultStepNr  = 8
	MinStepNr      = 1
	MaxStepNr      = 32
	StepWidthDelta = 0.1

	MinTruckPos = -10.5
	MaxTruckPos = 8.0

	MinInclination = 0.0
	MaxInclination = 55.0

	MinExtension = 0.0
	MaxExtension = 4.65

	MinDoorPos = 0.9
	MaxDoorPos = 6.5
)

// Camera defaults. Theta and Gamma are orbit angles in radians.
const (
	DefaultTheta = 10.0
	DefaultGamma = 9.0
	DefaultZoom  = 12.0
	MinZoom      = 0.01
)

// View selects the camera used for the single large viewport.
type View int

const (
	ViewAxo View = iota
	ViewFront
	ViewTop
	ViewLeft
)

func (v View) String() string {
	switch v {
	case ViewAxo:
		return "axo"
	case ViewFront:
		return "front"
	case ViewTop:
		return "top"
	case ViewLeft:
		return "left"
	default:
		return fmt.Sprintf("View(%d)", int(v))
	}
}

func (v View) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *View) UnmarshalText(text []byte) error {
	parsed, err := ParseView(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseView accepts the names returned by View.String.
func ParseView(name string) (View, error) {
	switch name {
	case "axo", "axonometric":
		return ViewAxo, nil
	case "front":
		return ViewFront, nil
	case "top":
		return ViewTop, nil
	case "left":
		return ViewLeft, nil
	}
	return 0, fmt.Errorf("invalid view %q, expected axo, front, top, or left", name)
}

// State is the full set of control variables read by one frame.
type State struct {
	TruckPos          float64      `json:"truckPos"`
	WheelAngle        float64      `json:"wheelAngle"` // degrees
	StairBaseAngle    float64      `json:"stairBaseAngle"`
	LadderInclination float64      `json:"ladderInclination"`
	UpperLadderPos    float64      `json:"upperLadderPos"`
	DoorPos           float64      `json:"doorPos"`
	StepWidth         float64      `json:"stepWidth"`
	StepNr            int          `json:"stepNr"`
	Theta             float64      `json:"theta"`
	Gamma             float64      `json:"gamma"`
	Zoom              float64      `json:"zoom"`
	Mode              gfx.FillMode `json:"mode"`
	View              View         `json:"view"`
	AllViews          bool         `json:"allViews"`
	ShowHelp          bool         `json:"showHelp"`
}

// Default returns the state the scene starts in.
func Default() State {
	return State{
		DoorPos:   MaxDoorPos,
		StepWidth: MaxStepWidth,
		StepNr:    DefaultStepNr,
		Theta:     DefaultTheta,
		Gamma:     DefaultGamma,
		Zoom:      DefaultZoom,
		Mode:      gfx.Filled,
		View:      ViewAxo,
	}
}

// Clamped returns s with every bounded variable pulled into range. Values
// that were already in range are returned unchanged.
func (s State) Clamped() State {
	s.TruckPos = clamp(s.TruckPos, MinTruckPos, MaxTruckPos)
	s.LadderInclination = clamp(s.LadderInclination, MinInclination, MaxInclination)
	s.UpperLadderPos = clamp(s.UpperLadderPos, MinExtension, MaxExtension)
	s.DoorPos = clamp(s.DoorPos, MinDoorPos, MaxDoorPos)
	s.StepWidth = clamp(s.StepWidth, MinStepWidth, MaxStepWidth)
	if s.StepNr < MinStepNr {
		s.StepNr = MinStepNr
	}
	if s.StepNr > MaxStepNr {
		s.StepNr = MaxStepNr
	}
	if !(s.Zoom >= MinZoom) {
		s.Zoom = MinZoom
	}
	return s
}

// WheelRoll converts a longitudinal displacement into the matching wheel
// rotation in degrees for a wheel that rolls without slipping.
func WheelRoll(dx float64) float64 {
	return dx / WheelRadius * 180 / math.Pi
}

// stepCount converts v into a step count within [MinStepNr, MaxStepNr].
// The range is applied before the conversion so huge values cannot wrap.
func stepCount(v float64) int {
	return int(clamp(v, MinStepNr, MaxStepNr))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
