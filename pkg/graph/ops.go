package graph

import (
	"fmt"

	"github.com/chazu/firehouse/pkg/xform"
	"github.com/go-gl/mathgl/mgl64"
)

// OpKind enumerates the elementary transforms of a recipe.
type OpKind int

const (
	OpTranslate OpKind = iota
	OpRotate
	OpScale
)

func (k OpKind) String() string {
	switch k {
	case OpTranslate:
		return "translate"
	case OpRotate:
		return "rotate"
	case OpScale:
		return "scale"
	default:
		return "unknown"
	}
}

func (k OpKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Op is one step of a transform recipe. Literal ops carry Vec or Angle;
// parameterized ops carry VecFn or AngleFn and read the frame's Env.
type Op struct {
	Kind    OpKind               `json:"kind"`
	Axis    xform.Axis           `json:"axis,omitempty"`
	Vec     mgl64.Vec3           `json:"vec,omitempty"`
	Angle   float64              `json:"angle,omitempty"` // degrees
	VecFn   func(Env) mgl64.Vec3 `json:"-"`
	AngleFn func(Env) float64    `json:"-"`
}

// Parameterized reports whether the op reads the environment.
func (o Op) Parameterized() bool {
	return o.VecFn != nil || o.AngleFn != nil
}

// Apply right-multiplies the top of s by the op evaluated in env.
func (o Op) Apply(s *xform.Stack, env Env) {
	switch o.Kind {
	case OpTranslate:
		s.Translate(o.vec(env))
	case OpScale:
		s.Scale(o.vec(env))
	case OpRotate:
		angle := o.Angle
		if o.AngleFn != nil {
			angle = o.AngleFn(env)
		}
		s.Rotate(o.Axis, angle)
	}
}

func (o Op) vec(env Env) mgl64.Vec3 {
	if o.VecFn != nil {
		return o.VecFn(env)
	}
	return o.Vec
}

func (o Op) String() string {
	switch {
	case o.Kind == OpRotate && o.AngleFn != nil:
		return fmt.Sprintf("(rotate %s <fn>)", o.Axis)
	case o.Kind == OpRotate:
		return fmt.Sprintf("(rotate %s %g)", o.Axis, o.Angle)
	case o.VecFn != nil:
		return fmt.Sprintf("(%s <fn>)", o.Kind)
	default:
		return fmt.Sprintf("(%s %g %g %g)", o.Kind, o.Vec[0], o.Vec[1], o.Vec[2])
	}
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

func Translate(x, y, z float64) Op {
	return Op{Kind: OpTranslate, Vec: mgl64.Vec3{x, y, z}}
}

func TranslateFn(fn func(Env) mgl64.Vec3) Op {
	return Op{Kind: OpTranslate, VecFn: fn}
}

func Scale(x, y, z float64) Op {
	return Op{Kind: OpScale, Vec: mgl64.Vec3{x, y, z}}
}

func ScaleFn(fn func(Env) mgl64.Vec3) Op {
	return Op{Kind: OpScale, VecFn: fn}
}

func RotateX(deg float64) Op { return Op{Kind: OpRotate, Axis: xform.AxisX, Angle: deg} }
func RotateY(deg float64) Op { return Op{Kind: OpRotate, Axis: xform.AxisY, Angle: deg} }
func RotateZ(deg float64) Op { return Op{Kind: OpRotate, Axis: xform.AxisZ, Angle: deg} }

// RotateFn rotates about axis by an angle computed from the environment.
func RotateFn(axis xform.Axis, fn func(Env) float64) Op {
	return Op{Kind: OpRotate, Axis: axis, AngleFn: fn}
}

// Ops is shorthand for building a recipe.
func Ops(ops ...Op) []Op {
	return ops
}
