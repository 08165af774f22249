package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/firehouse/pkg/control"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms control script source before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: step-width -> step_width
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// MaxRepeat bounds the repeat count a builtin accepts.
const MaxRepeat = 1000

// toCount extracts a whole number in [0, MaxRepeat].
func toCount(s zygo.Sexp) (int, error) {
	f, err := toFloat64(s)
	if err != nil {
		return 0, err
	}
	if f < 0 || f > MaxRepeat || f != math.Trunc(f) {
		return 0, fmt.Errorf("expected a whole number in [0, %d], got %g", MaxRepeat, f)
	}
	return int(f), nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// delta registers a builtin taking one number and issuing kind with it.
func delta(env *zygo.Zlisp, rec *recorder, name string, kind control.CommandKind) {
	env.AddFunction(name, func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("%s requires exactly 1 argument, got %d", name, len(args))
		}
		v, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		if err := rec.issue(control.Command{Kind: kind, Value: v}); err != nil {
			return zygo.SexpNull, err
		}
		return zygo.SexpNull, nil
	})
}

// toggle registers a builtin without arguments issuing kind.
func toggle(env *zygo.Zlisp, rec *recorder, name string, kind control.CommandKind) {
	env.AddFunction(name, func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 0 {
			return zygo.SexpNull, fmt.Errorf("%s takes no arguments, got %d", name, len(args))
		}
		if err := rec.issue(control.Command{Kind: kind}); err != nil {
			return zygo.SexpNull, err
		}
		return zygo.SexpNull, nil
	})
}

// registerBuiltins installs the control builtins into a zygomys environment.
// Every builtin appends to rec, which applies the command at once so
// get-var observes clamping.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals and
// kebab-case names match the underscore names registered here.
func registerBuiltins(env *zygo.Zlisp, rec *recorder) {
	// (drive 2.5) (yaw -30) (pitch 10) (extend 1) (door -2)
	// (zoom 1.5) (wheel 120) (steps 2) (step-width -0.2)
	delta(env, rec, "drive", control.CmdDrive)
	delta(env, rec, "yaw", control.CmdYaw)
	delta(env, rec, "pitch", control.CmdPitch)
	delta(env, rec, "extend", control.CmdExtend)
	delta(env, rec, "door", control.CmdDoor)
	delta(env, rec, "zoom", control.CmdZoom)
	delta(env, rec, "wheel", control.CmdWheel)
	delta(env, rec, "steps", control.CmdSteps)
	delta(env, rec, "step_width", control.CmdStepWidth)

	// (wireframe) (split-view) (reset-camera) (help)
	toggle(env, rec, "wireframe", control.CmdToggleWireframe)
	toggle(env, rec, "split_view", control.CmdToggleSplit)
	toggle(env, rec, "reset_camera", control.CmdResetCamera)
	toggle(env, rec, "help", control.CmdToggleHelp)

	// -----------------------------------------------------------------------
	// (orbit 0.1 -0.05)
	// -----------------------------------------------------------------------
	env.AddFunction("orbit", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("orbit requires theta and gamma deltas, got %d arguments", len(args))
		}
		theta, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("orbit: theta: %w", err)
		}
		gamma, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("orbit: gamma: %w", err)
		}
		if err := rec.issue(control.Command{Kind: control.CmdOrbit, Value: theta, Value2: gamma}); err != nil {
			return zygo.SexpNull, err
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (view :front)
	// -----------------------------------------------------------------------
	env.AddFunction("view", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("view requires a view keyword")
		}
		s, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("view: %w", err)
		}
		v, err := control.ParseView(s)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("view: %w", err)
		}
		if err := rec.issue(control.Command{Kind: control.CmdView, View: v}); err != nil {
			return zygo.SexpNull, err
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (key "d" :times 10)
	// -----------------------------------------------------------------------
	env.AddFunction("key", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("key requires exactly one key name")
		}
		k, err := toKeywordString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("key: %w", err)
		}
		cmd, ok := control.KeyCommand(k)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("key: unbound key %q", k)
		}
		times := 1
		if v, ok := pa.kw["times"]; ok {
			times, err = toCount(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("key: times: %w", err)
			}
		}
		for i := 0; i < times; i++ {
			if err := rec.issue(cmd); err != nil {
				return zygo.SexpNull, fmt.Errorf("key: %w", err)
			}
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (set-var :ladder-inclination 30)
	//
	// Note: registered as "set_var" because zygomys reserves set and does
	// not support hyphens in identifiers.
	// -----------------------------------------------------------------------
	env.AddFunction("set_var", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("set-var requires a variable and a value")
		}
		variable, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-var: variable: %w", err)
		}
		if !control.IsVariable(variable) {
			return zygo.SexpNull, fmt.Errorf("set-var: unknown variable %q", variable)
		}
		v, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-var: value: %w", err)
		}
		if err := rec.issue(control.Command{Kind: control.CmdSet, Name: variable, Value: v}); err != nil {
			return zygo.SexpNull, fmt.Errorf("set-var: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (get-var :zoom)
	// -----------------------------------------------------------------------
	env.AddFunction("get_var", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("get-var requires a variable")
		}
		variable, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("get-var: %w", err)
		}
		v, ok := control.Get(rec.state, variable)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("get-var: unknown variable %q", variable)
		}
		return &zygo.SexpFloat{Val: v}, nil
	})
}
