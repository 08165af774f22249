package control

import (
	"math"
	"testing"

	"github.com/chazu/firehouse/pkg/gfx"
	. "github.com/smartystreets/goconvey/convey"
)

func TestWheelRoll(t *testing.T) {
	tests := []struct {
		dx   float64
		want float64
	}{
		{1.0, 76.394},
		{-0.5, -38.197},
		{0, 0},
	}
	for _, tt := range tests {
		got := WheelRoll(tt.dx)
		if math.Abs(got-tt.want) > 1e-3 {
			t.Errorf("WheelRoll(%v) = %.4f, want %.3f", tt.dx, got, tt.want)
		}
	}
}

func TestDefault(t *testing.T) {
	s := Default()
	if s.DoorPos != 6.5 {
		t.Errorf("DoorPos = %v, want 6.5", s.DoorPos)
	}
	if s.StepWidth != 1.6 {
		t.Errorf("StepWidth = %v, want 1.6", s.StepWidth)
	}
	if s.StepNr != 8 {
		t.Errorf("StepNr = %d, want 8", s.StepNr)
	}
	if s.Zoom != 12 || s.Theta != 10 || s.Gamma != 9 {
		t.Errorf("camera = (%v, %v, %v), want (12, 10, 9)", s.Zoom, s.Theta, s.Gamma)
	}
	if s.Clamped() != s {
		t.Error("default state is not already in range")
	}
}

func TestApply(t *testing.T) {
	Convey("Given the default control state", t, func() {
		s := Default()

		Convey("driving forward rolls the wheels by the distance covered", func() {
			s = Apply(s, Command{Kind: CmdDrive, Value: 1.0})
			So(s.TruckPos, ShouldAlmostEqual, 1.0, 1e-9)
			So(s.WheelAngle, ShouldAlmostEqual, 76.394, 1e-3)

			s = Apply(s, Command{Kind: CmdDrive, Value: -0.5})
			So(s.TruckPos, ShouldAlmostEqual, 0.5, 1e-9)
			So(s.WheelAngle, ShouldAlmostEqual, 38.197, 1e-3)
		})

		Convey("driving into the travel limit stops at the limit", func() {
			s.TruckPos = 7.95
			s = Apply(s, Command{Kind: CmdDrive, Value: 0.1})
			So(s.TruckPos, ShouldEqual, MaxTruckPos)
			So(s.WheelAngle, ShouldAlmostEqual, WheelRoll(0.05), 1e-9)

			before := s.WheelAngle
			s = Apply(s, Command{Kind: CmdDrive, Value: 0.1})
			So(s.TruckPos, ShouldEqual, MaxTruckPos)
			So(s.WheelAngle, ShouldEqual, before)
		})

		Convey("the ladder extension is pinned to its range", func() {
			s.UpperLadderPos = 4.6
			s = Apply(s, Command{Kind: CmdExtend, Value: ExtendStep})
			So(s.UpperLadderPos, ShouldEqual, MaxExtension)

			s.UpperLadderPos = 0
			s = Apply(s, Command{Kind: CmdExtend, Value: -ExtendStep})
			So(s.UpperLadderPos, ShouldEqual, MinExtension)
		})

		Convey("the ladder inclination stays within [0, 55]", func() {
			for i := 0; i < 60; i++ {
				s = Apply(s, Command{Kind: CmdPitch, Value: AngleStep})
			}
			So(s.LadderInclination, ShouldEqual, MaxInclination)
			s = Apply(s, Command{Kind: CmdPitch, Value: -100})
			So(s.LadderInclination, ShouldEqual, MinInclination)
		})

		Convey("the garage door moves between its stops", func() {
			s = Apply(s, Command{Kind: CmdDoor, Value: DoorStep})
			So(s.DoorPos, ShouldEqual, MaxDoorPos)
			s = Apply(s, Command{Kind: CmdDoor, Value: -10})
			So(s.DoorPos, ShouldEqual, MinDoorPos)
		})

		Convey("the stair base yaw is unbounded", func() {
			s = Apply(s, Command{Kind: CmdYaw, Value: 720})
			So(s.StairBaseAngle, ShouldEqual, 720)
		})

		Convey("steps never drop below one", func() {
			s.StepNr = 1
			s = Apply(s, Command{Kind: CmdSteps, Value: -1})
			So(s.StepNr, ShouldEqual, 1)
		})

		Convey("step width drifts neither below nor above its range", func() {
			for i := 0; i < 20; i++ {
				s = Apply(s, Command{Kind: CmdStepWidth, Value: -StepWidthDelta})
			}
			So(s.StepWidth, ShouldBeGreaterThanOrEqualTo, MinStepWidth)
			s = Apply(s, Command{Kind: CmdStepWidth, Value: 5})
			So(s.StepWidth, ShouldEqual, MaxStepWidth)
		})

		Convey("mouse wheel scales zoom", func() {
			s = Apply(s, Command{Kind: CmdWheel, Value: 100})
			So(s.Zoom, ShouldAlmostEqual, 13.2, 1e-9)
		})

		Convey("reset restores the camera but not the truck", func() {
			s = Apply(s, Command{Kind: CmdDrive, Value: 2})
			s = Apply(s, Command{Kind: CmdOrbit, Value: 0.5, Value2: -0.5})
			s = Apply(s, Command{Kind: CmdZoom, Value: 2})
			s = Apply(s, Command{Kind: CmdResetCamera})
			So(s.Theta, ShouldEqual, DefaultTheta)
			So(s.Gamma, ShouldEqual, DefaultGamma)
			So(s.Zoom, ShouldEqual, DefaultZoom)
			So(s.TruckPos, ShouldAlmostEqual, 2, 1e-9)
		})

		Convey("toggles flip and flip back", func() {
			s = Apply(s, Command{Kind: CmdToggleWireframe})
			So(s.Mode, ShouldEqual, gfx.Wireframe)
			s = Apply(s, Command{Kind: CmdToggleSplit})
			So(s.AllViews, ShouldBeTrue)
			s = ApplyAll(s, []Command{{Kind: CmdToggleWireframe}, {Kind: CmdToggleSplit}})
			So(s.Mode, ShouldEqual, gfx.Filled)
			So(s.AllViews, ShouldBeFalse)
		})

		Convey("set assigns a named variable and clamps it", func() {
			s = Apply(s, Command{Kind: CmdSet, Name: "upper_ladder_pos", Value: 99})
			So(s.UpperLadderPos, ShouldEqual, MaxExtension)
			s = Apply(s, Command{Kind: CmdSet, Name: "truck-pos", Value: 1})
			So(s.WheelAngle, ShouldAlmostEqual, 76.394, 1e-3)
		})
	})
}

func TestKeyCommand(t *testing.T) {
	tests := []struct {
		key  string
		kind CommandKind
	}{
		{"a", CmdDrive},
		{"d", CmdDrive},
		{"space", CmdToggleWireframe},
		{" ", CmdToggleWireframe},
		{"ArrowUp", CmdOrbit},
		{"left", CmdOrbit},
		{"ç", CmdSteps},
		{".", CmdStepWidth},
		{"0", CmdToggleSplit},
		{"h", CmdToggleHelp},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			c, ok := KeyCommand(tt.key)
			if !ok {
				t.Fatalf("KeyCommand(%q) not bound", tt.key)
			}
			if c.Kind != tt.kind {
				t.Errorf("KeyCommand(%q).Kind = %s, want %s", tt.key, c.Kind, tt.kind)
			}
		})
	}

	if _, ok := KeyCommand("z"); ok {
		t.Error("KeyCommand(\"z\") should not be bound")
	}
}

func TestViewKeys(t *testing.T) {
	want := map[string]View{"1": ViewFront, "2": ViewLeft, "3": ViewTop, "4": ViewAxo}
	for key, view := range want {
		c, _ := KeyCommand(key)
		if got := Apply(Default(), c).View; got != view {
			t.Errorf("key %q selects %s, want %s", key, got, view)
		}
	}
}

func TestParseView(t *testing.T) {
	for _, v := range []View{ViewAxo, ViewFront, ViewTop, ViewLeft} {
		got, err := ParseView(v.String())
		if err != nil || got != v {
			t.Errorf("ParseView(%q) = %v, %v", v.String(), got, err)
		}
	}
	if _, err := ParseView("iso"); err == nil {
		t.Error("ParseView(\"iso\") expected error")
	}
}

func TestIsVariable(t *testing.T) {
	if !IsVariable("door_pos") {
		t.Error("door_pos should be a variable")
	}
	if IsVariable("mode") {
		t.Error("mode should not be settable")
	}
}

func TestGetMatchesSet(t *testing.T) {
	s := Default()
	for i, name := range Variables {
		want := float64(i + 1)
		if name == "step-width" {
			want = MinStepWidth
		}
		s = Apply(s, Command{Kind: CmdSet, Name: name, Value: want})
		got, ok := Get(s, name)
		if !ok {
			t.Errorf("Get(%q) not found", name)
			continue
		}
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("Get(%q) = %g, want %g", name, got, want)
		}
	}
	if _, ok := Get(s, "mode"); ok {
		t.Error("Get(\"mode\") should not be found")
	}
}

func TestStepCountBounded(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		want int
	}{
		{"large delta", Command{Kind: CmdSteps, Value: 1e9}, MaxStepNr},
		{"delta beyond int range", Command{Kind: CmdSteps, Value: 1e300}, MaxStepNr},
		{"large negative delta", Command{Kind: CmdSteps, Value: -1e300}, MinStepNr},
		{"set large", Command{Kind: CmdSet, Name: "step-nr", Value: 2e8}, MaxStepNr},
		{"set beyond int range", Command{Kind: CmdSet, Name: "step_nr", Value: 1e300}, MaxStepNr},
		{"set negative", Command{Kind: CmdSet, Name: "step-nr", Value: -4}, MinStepNr},
		{"small delta", Command{Kind: CmdSteps, Value: 3}, DefaultStepNr + 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Apply(Default(), tt.cmd).StepNr; got != tt.want {
				t.Errorf("StepNr = %d, want %d", got, tt.want)
			}
		})
	}

	s := Default()
	s.StepNr = 1 << 40
	if got := s.Clamped().StepNr; got != MaxStepNr {
		t.Errorf("Clamped().StepNr = %d, want %d", got, MaxStepNr)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	bad := []Command{
		{Kind: CmdSteps, Value: 0.5},
		{Kind: CmdSteps, Value: math.Inf(1)},
		{Kind: CmdSet, Name: "step-nr", Value: 9.25},
		{Kind: CmdDrive, Value: math.NaN()},
		{Kind: CmdOrbit, Value: 0.1, Value2: math.NaN()},
	}
	for _, c := range bad {
		if err := c.Validate(); err == nil {
			t.Errorf("Validate(%s) = nil, want an error", c)
		}
		if got := Apply(Default(), c); got != Default() {
			t.Errorf("Apply(%s) changed the state", c)
		}
	}

	good := []Command{
		{Kind: CmdSteps, Value: -2},
		{Kind: CmdSet, Name: "zoom", Value: 0.5},
		{Kind: CmdDrive, Value: 1e300},
	}
	for _, c := range good {
		if err := c.Validate(); err != nil {
			t.Errorf("Validate(%s) = %v, want nil", c, err)
		}
	}
}
