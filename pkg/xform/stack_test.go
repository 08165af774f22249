package xform

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const eps = 1e-9

// near compares with an absolute tolerance; rotations by right angles
// leave residues around 1e-16 where an exact zero is expected.
func near(a, b float64) bool {
	return math.Abs(a-b) < eps
}

// expectStackPanic runs fn and fails unless it panics with a *StackError
// wrapping want.
func expectStackPanic(t *testing.T, want error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic wrapping %v, got none", want)
		}
		se, ok := r.(*StackError)
		if !ok {
			t.Fatalf("expected *StackError, got %T (%v)", r, r)
		}
		if !errors.Is(se, want) {
			t.Errorf("panic = %v, want error wrapping %v", se, want)
		}
	}()
	fn()
}

func TestLoadResetsToSingleEntry(t *testing.T) {
	s := NewDefault()
	s.Load(mgl64.Ident4())
	s.Push()
	s.Push()
	s.Translate(mgl64.Vec3{3, 4, 5})

	view := mgl64.LookAtV(mgl64.Vec3{-10, 0, 0}, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0})
	s.Load(view)

	if s.Depth() != 1 {
		t.Fatalf("Depth() = %d, want 1", s.Depth())
	}
	if !s.Top().ApproxFuncEqual(view, near) {
		t.Errorf("Top() = %v, want %v", s.Top(), view)
	}
}

func TestPushDuplicatesTop(t *testing.T) {
	s := NewDefault()
	s.Load(mgl64.Translate3D(1, 2, 3))
	s.Push()

	if s.Depth() != 2 {
		t.Fatalf("Depth() = %d, want 2", s.Depth())
	}
	if !s.Top().ApproxFuncEqual(mgl64.Translate3D(1, 2, 3), near) {
		t.Errorf("Top() after push = %v, want copy of previous top", s.Top())
	}

	s.Scale(mgl64.Vec3{2, 2, 2})
	s.Pop()
	if !s.Top().ApproxFuncEqual(mgl64.Translate3D(1, 2, 3), near) {
		t.Errorf("Top() after pop = %v, want untouched parent", s.Top())
	}
}

func TestPushOnEmptyPushesIdentity(t *testing.T) {
	s := New(4)
	s.Push()
	if !s.Top().ApproxFuncEqual(mgl64.Ident4(), near) {
		t.Errorf("Top() = %v, want identity", s.Top())
	}
}

func TestCompositionOrderMatters(t *testing.T) {
	origin := mgl64.Vec3{0, 0, 0}

	a := NewDefault()
	a.Load(mgl64.Ident4())
	a.Translate(mgl64.Vec3{1, 0, 0})
	a.RotateZ(90)
	gotA := a.TransformPoint(origin)

	b := NewDefault()
	b.Load(mgl64.Ident4())
	b.RotateZ(90)
	b.Translate(mgl64.Vec3{1, 0, 0})
	gotB := b.TransformPoint(origin)

	if !gotA.ApproxFuncEqual(mgl64.Vec3{1, 0, 0}, near) {
		t.Errorf("translate then rotate: got %v, want (1,0,0)", gotA)
	}
	if !gotB.ApproxFuncEqual(mgl64.Vec3{0, 1, 0}, near) {
		t.Errorf("rotate then translate: got %v, want (0,1,0)", gotB)
	}
	if a.Top().ApproxFuncEqual(b.Top(), near) {
		t.Error("translate*rotZ(90) and rotZ(90)*translate produced the same matrix")
	}
}

func TestRotateAxes(t *testing.T) {
	tests := []struct {
		axis Axis
		in   mgl64.Vec3
		want mgl64.Vec3
	}{
		{AxisX, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, 1}},
		{AxisY, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{1, 0, 0}},
		{AxisZ, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.axis.String(), func(t *testing.T) {
			s := NewDefault()
			s.Load(mgl64.Ident4())
			s.Rotate(tt.axis, 90)
			got := s.TransformPoint(tt.in)
			if !got.ApproxFuncEqual(tt.want, near) {
				t.Errorf("rotate %s 90 of %v = %v, want %v", tt.axis, tt.in, got, tt.want)
			}
		})
	}
}

func TestRotateAroundMatchesPrincipalAxis(t *testing.T) {
	a := NewDefault()
	a.Load(mgl64.Ident4())
	a.RotateAround(mgl64.Vec3{0, 0, 5}, 30)

	b := NewDefault()
	b.Load(mgl64.Ident4())
	b.RotateZ(30)

	if !a.Top().ApproxFuncEqual(b.Top(), near) {
		t.Errorf("RotateAround(z) = %v, want %v", a.Top(), b.Top())
	}

	a.RotateAround(mgl64.Vec3{}, 45)
	if !a.Top().ApproxFuncEqual(b.Top(), near) {
		t.Error("RotateAround with a zero axis changed the top")
	}
}

func TestScaleAppliesBeforeParentTranslation(t *testing.T) {
	s := NewDefault()
	s.Load(mgl64.Ident4())
	s.Translate(mgl64.Vec3{0, 1.15, 0})
	s.Scale(mgl64.Vec3{9.5, 0.8, 3.4})

	got := s.TransformPoint(mgl64.Vec3{0.5, 0.5, 0.5})
	want := mgl64.Vec3{4.75, 1.55, 1.7}
	if !got.ApproxFuncEqual(want, near) {
		t.Errorf("corner = %v, want %v", got, want)
	}
}

// ---------------------------------------------------------------------------
// Failure modes
// ---------------------------------------------------------------------------

func TestPopEmptyPanics(t *testing.T) {
	s := NewDefault()
	expectStackPanic(t, ErrUnderflow, func() { s.Pop() })
}

func TestTopEmptyPanics(t *testing.T) {
	s := NewDefault()
	expectStackPanic(t, ErrUnderflow, func() { _ = s.Top() })
}

func TestTranslateEmptyPanics(t *testing.T) {
	s := NewDefault()
	expectStackPanic(t, ErrUnderflow, func() { s.Translate(mgl64.Vec3{1, 0, 0}) })
}

func TestPushOverflowPanics(t *testing.T) {
	s := New(3)
	s.Load(mgl64.Ident4())
	s.Push()
	s.Push()
	expectStackPanic(t, ErrOverflow, func() { s.Push() })
	if s.Depth() != 3 {
		t.Errorf("Depth() after failed push = %d, want 3", s.Depth())
	}
}

func TestImbalanceError(t *testing.T) {
	err := Imbalance("truck/cabin", 4, 3)
	if !errors.Is(err, ErrImbalance) {
		t.Fatalf("Imbalance does not wrap ErrImbalance: %v", err)
	}
	want := "xform: truck/cabin: unbalanced push/pop (depth 4, want 3)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestParseAxis(t *testing.T) {
	for _, name := range []string{"x", "y", "z", "Z"} {
		if _, err := ParseAxis(name); err != nil {
			t.Errorf("ParseAxis(%q) error: %v", name, err)
		}
	}
	if _, err := ParseAxis("w"); err == nil {
		t.Error("ParseAxis(\"w\") expected error")
	}
}
