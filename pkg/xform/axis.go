package xform

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Axis names one of the three principal axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Vec returns the unit vector along a.
func (a Axis) Vec() mgl64.Vec3 {
	switch a {
	case AxisX:
		return mgl64.Vec3{1, 0, 0}
	case AxisY:
		return mgl64.Vec3{0, 1, 0}
	default:
		return mgl64.Vec3{0, 0, 1}
	}
}

// Rotation returns the homogeneous rotation of deg degrees about a.
func (a Axis) Rotation(deg float64) mgl64.Mat4 {
	rad := mgl64.DegToRad(deg)
	switch a {
	case AxisX:
		return mgl64.HomogRotate3DX(rad)
	case AxisY:
		return mgl64.HomogRotate3DY(rad)
	default:
		return mgl64.HomogRotate3DZ(rad)
	}
}

// ParseAxis accepts "x", "y" or "z".
func ParseAxis(name string) (Axis, error) {
	switch name {
	case "x", "X":
		return AxisX, nil
	case "y", "Y":
		return AxisY, nil
	case "z", "Z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("invalid axis %q, expected x, y, or z", name)
}
