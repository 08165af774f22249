// Package xform implements the matrix stack used while evaluating the
// scene hierarchy. The stack mirrors the current path from the root to the
// node being drawn: every entry is the cumulative transform of one level.
//
// Storage is a fixed-capacity arena allocated once, so a frame never
// allocates on push. Underflow, overflow and unbalanced push/pop pairs are
// programmer errors and panic with a *StackError.
package xform

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultCapacity bounds the nesting depth of any scene evaluated with a
// stack from NewDefault.
const DefaultCapacity = 32

var (
	ErrUnderflow = errors.New("stack underflow")
	ErrOverflow  = errors.New("stack overflow")
	ErrImbalance = errors.New("unbalanced push/pop")
)

// StackError describes a stack misuse. It unwraps to one of ErrUnderflow,
// ErrOverflow or ErrImbalance.
type StackError struct {
	Op    string // operation that failed ("pop", "push", "top", or a node name)
	Depth int    // depth at the time of failure
	Want  int    // expected depth, only set for imbalance
	Err   error
}

func (e *StackError) Error() string {
	if errors.Is(e.Err, ErrImbalance) {
		return fmt.Sprintf("xform: %s: %v (depth %d, want %d)", e.Op, e.Err, e.Depth, e.Want)
	}
	return fmt.Sprintf("xform: %s: %v at depth %d", e.Op, e.Err, e.Depth)
}

func (e *StackError) Unwrap() error {
	return e.Err
}

// Imbalance builds the error raised when a subtree leaves the stack at a
// different depth than it found it.
func Imbalance(op string, depth, want int) *StackError {
	return &StackError{Op: op, Depth: depth, Want: want, Err: ErrImbalance}
}

// Stack is an arena-backed stack of 4x4 transforms. The zero value is not
// usable; construct with New or NewDefault.
type Stack struct {
	entries []mgl64.Mat4
	depth   int
}

// New returns an empty stack that can hold up to capacity entries.
func New(capacity int) *Stack {
	if capacity < 1 {
		capacity = 1
	}
	return &Stack{entries: make([]mgl64.Mat4, capacity)}
}

// NewDefault returns an empty stack of DefaultCapacity.
func NewDefault() *Stack {
	return New(DefaultCapacity)
}

// Depth returns the number of entries currently on the stack.
func (s *Stack) Depth() int {
	return s.depth
}

// Cap returns the maximum depth of the stack.
func (s *Stack) Cap() int {
	return len(s.entries)
}

// Load replaces the whole stack with a single entry.
func (s *Stack) Load(view mgl64.Mat4) {
	s.entries[0] = view
	s.depth = 1
}

// Push duplicates the top entry. Pushing onto an empty stack pushes the
// identity.
func (s *Stack) Push() {
	if s.depth == len(s.entries) {
		panic(&StackError{Op: "push", Depth: s.depth, Err: ErrOverflow})
	}
	if s.depth == 0 {
		s.entries[0] = mgl64.Ident4()
	} else {
		s.entries[s.depth] = s.entries[s.depth-1]
	}
	s.depth++
}

// Pop discards the top entry.
func (s *Stack) Pop() {
	if s.depth == 0 {
		panic(&StackError{Op: "pop", Depth: 0, Err: ErrUnderflow})
	}
	s.depth--
}

// Top returns a copy of the cumulative transform at the top of the stack.
func (s *Stack) Top() mgl64.Mat4 {
	if s.depth == 0 {
		panic(&StackError{Op: "top", Depth: 0, Err: ErrUnderflow})
	}
	return s.entries[s.depth-1]
}

// Mul right-multiplies the top entry by m.
func (s *Stack) Mul(m mgl64.Mat4) {
	if s.depth == 0 {
		panic(&StackError{Op: "mul", Depth: 0, Err: ErrUnderflow})
	}
	top := &s.entries[s.depth-1]
	*top = top.Mul4(m)
}

// Translate right-multiplies the top entry by a translation.
func (s *Stack) Translate(v mgl64.Vec3) {
	s.Mul(mgl64.Translate3D(v[0], v[1], v[2]))
}

// Scale right-multiplies the top entry by a non-uniform scale.
func (s *Stack) Scale(v mgl64.Vec3) {
	s.Mul(mgl64.Scale3D(v[0], v[1], v[2]))
}

// Rotate right-multiplies the top entry by a rotation of deg degrees about
// one of the principal axes.
func (s *Stack) Rotate(axis Axis, deg float64) {
	s.Mul(axis.Rotation(deg))
}

// RotateAround rotates by deg degrees about an arbitrary axis. The axis
// need not be normalized; a zero axis leaves the top unchanged.
func (s *Stack) RotateAround(axis mgl64.Vec3, deg float64) {
	if axis.Len() == 0 {
		return
	}
	s.Mul(mgl64.HomogRotate3D(mgl64.DegToRad(deg), axis.Normalize()))
}

func (s *Stack) RotateX(deg float64) { s.Rotate(AxisX, deg) }
func (s *Stack) RotateY(deg float64) { s.Rotate(AxisY, deg) }
func (s *Stack) RotateZ(deg float64) { s.Rotate(AxisZ, deg) }

// TransformPoint maps p through the top entry.
func (s *Stack) TransformPoint(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(p, s.Top())
}
