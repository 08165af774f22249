package control

import (
	"fmt"
	"math"
	"strings"
)

// CommandKind enumerates the state mutations input handling may request.
type CommandKind int

const (
	CmdDrive           CommandKind = iota // move the truck by Value
	CmdYaw                                // turn the stair base by Value degrees
	CmdPitch                              // raise the ladder by Value degrees
	CmdExtend                             // slide the upper ladder out by Value
	CmdDoor                               // move the garage door up by Value
	CmdOrbit                              // add Value to theta and Value2 to gamma
	CmdZoom                               // multiply zoom by Value
	CmdWheel                              // mouse wheel delta Value
	CmdToggleWireframe                    // flip between filled and wireframe
	CmdResetCamera                        // restore zoom, theta and gamma
	CmdView                               // select the big view
	CmdToggleSplit                        // toggle the four-viewport layout
	CmdSteps                              // add Value steps to each stair
	CmdStepWidth                          // widen the steps by Value
	CmdToggleHelp                         // toggle the help overlay
	CmdSet                                // set the variable Name to Value
)

var commandNames = map[CommandKind]string{
	CmdDrive:           "drive",
	CmdYaw:             "yaw",
	CmdPitch:           "pitch",
	CmdExtend:          "extend",
	CmdDoor:            "door",
	CmdOrbit:           "orbit",
	CmdZoom:            "zoom",
	CmdWheel:           "wheel",
	CmdToggleWireframe: "wireframe",
	CmdResetCamera:     "reset",
	CmdView:            "view",
	CmdToggleSplit:     "split",
	CmdSteps:           "steps",
	CmdStepWidth:       "step-width",
	CmdToggleHelp:      "help",
	CmdSet:             "set",
}

func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return fmt.Sprintf("CommandKind(%d)", int(k))
}

// Command is a single requested mutation of the control state.
type Command struct {
	Kind   CommandKind
	Value  float64
	Value2 float64
	View   View
	Name   string
}

func (c Command) String() string {
	switch c.Kind {
	case CmdView:
		return fmt.Sprintf("(view %s)", c.View)
	case CmdOrbit:
		return fmt.Sprintf("(orbit %g %g)", c.Value, c.Value2)
	case CmdSet:
		return fmt.Sprintf("(set %s %g)", c.Name, c.Value)
	case CmdToggleWireframe, CmdResetCamera, CmdToggleSplit, CmdToggleHelp:
		return fmt.Sprintf("(%s)", c.Kind)
	default:
		return fmt.Sprintf("(%s %g)", c.Kind, c.Value)
	}
}

// Apply returns s with c applied. Bounded variables are clamped; a
// displacement that runs into a travel limit moves only as far as the
// limit and the wheels roll only for the distance actually covered.
//
// A command that fails Validate leaves s unchanged.
func Apply(s State, c Command) State {
	if c.Validate() != nil {
		return s
	}
	switch c.Kind {
	case CmdDrive:
		target := clamp(s.TruckPos+c.Value, MinTruckPos, MaxTruckPos)
		s.WheelAngle += WheelRoll(target - s.TruckPos)
		s.TruckPos = target
	case CmdYaw:
		s.StairBaseAngle += c.Value
	case CmdPitch:
		s.LadderInclination = clamp(s.LadderInclination+c.Value, MinInclination, MaxInclination)
	case CmdExtend:
		s.UpperLadderPos = clamp(s.UpperLadderPos+c.Value, MinExtension, MaxExtension)
	case CmdDoor:
		s.DoorPos = clamp(s.DoorPos+c.Value, MinDoorPos, MaxDoorPos)
	case CmdOrbit:
		s.Theta += c.Value
		s.Gamma += c.Value2
	case CmdZoom:
		if c.Value > 0 {
			s.Zoom *= c.Value
		}
	case CmdWheel:
		if f := 1 + c.Value/1000; f > 0 {
			s.Zoom *= f
		}
	case CmdToggleWireframe:
		s.Mode = s.Mode.Toggle()
	case CmdResetCamera:
		s.Zoom = DefaultZoom
		s.Theta = DefaultTheta
		s.Gamma = DefaultGamma
	case CmdView:
		s.View = c.View
	case CmdToggleSplit:
		s.AllViews = !s.AllViews
	case CmdSteps:
		s.StepNr = stepCount(float64(s.StepNr) + c.Value)
	case CmdStepWidth:
		s.StepWidth = clamp(s.StepWidth+c.Value, MinStepWidth, MaxStepWidth)
	case CmdToggleHelp:
		s.ShowHelp = !s.ShowHelp
	case CmdSet:
		s = set(s, c.Name, c.Value)
	}
	return s.Clamped()
}

// Validate reports whether c carries values Apply can use. Values must be
// numbers, and step counts must be whole.
func (c Command) Validate() error {
	if math.IsNaN(c.Value) || math.IsNaN(c.Value2) {
		return fmt.Errorf("%s: value is not a number", c.Kind)
	}
	if c.Kind == CmdSteps || (c.Kind == CmdSet && isStepNr(c.Name)) {
		if math.IsInf(c.Value, 0) || c.Value != math.Trunc(c.Value) {
			return fmt.Errorf("%s: expected a whole number of steps, got %g", c.Kind, c.Value)
		}
	}
	return nil
}

func isStepNr(name string) bool {
	return strings.ReplaceAll(name, "_", "-") == "step-nr"
}

// ApplyAll folds cmds over s in order.
func ApplyAll(s State, cmds []Command) State {
	for _, c := range cmds {
		s = Apply(s, c)
	}
	return s
}

// Variables lists the names accepted by CmdSet.
var Variables = []string{
	"truck-pos", "stair-base-angle", "ladder-inclination", "upper-ladder-pos",
	"door-pos", "step-width", "step-nr", "theta", "gamma", "zoom",
}

func set(s State, name string, v float64) State {
	switch strings.ReplaceAll(name, "_", "-") {
	case "truck-pos":
		target := clamp(v, MinTruckPos, MaxTruckPos)
		s.WheelAngle += WheelRoll(target - s.TruckPos)
		s.TruckPos = target
	case "stair-base-angle":
		s.StairBaseAngle = v
	case "ladder-inclination":
		s.LadderInclination = v
	case "upper-ladder-pos":
		s.UpperLadderPos = v
	case "door-pos":
		s.DoorPos = v
	case "step-width":
		s.StepWidth = v
	case "step-nr":
		s.StepNr = stepCount(v)
	case "theta":
		s.Theta = v
	case "gamma":
		s.Gamma = v
	case "zoom":
		s.Zoom = v
	}
	return s
}

// IsVariable reports whether name is accepted by CmdSet.
func IsVariable(name string) bool {
	name = strings.ReplaceAll(name, "_", "-")
	for _, v := range Variables {
		if v == name {
			return true
		}
	}
	return false
}

// Get returns the value of the variable name as accepted by CmdSet.
func Get(s State, name string) (float64, bool) {
	switch strings.ReplaceAll(name, "_", "-") {
	case "truck-pos":
		return s.TruckPos, true
	case "stair-base-angle":
		return s.StairBaseAngle, true
	case "ladder-inclination":
		return s.LadderInclination, true
	case "upper-ladder-pos":
		return s.UpperLadderPos, true
	case "door-pos":
		return s.DoorPos, true
	case "step-width":
		return s.StepWidth, true
	case "step-nr":
		return float64(s.StepNr), true
	case "theta":
		return s.Theta, true
	case "gamma":
		return s.Gamma, true
	case "zoom":
		return s.Zoom, true
	}
	return 0, false
}
