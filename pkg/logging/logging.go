// Package logging provides the leveled, structured loggers used across
// the module. Messages carry key/value pairs instead of format verbs:
//
//	logging.Info("frame rendered", "draws", st.Draws, "viewports", st.Viewports)
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
)

var (
	mu     sync.RWMutex
	logger = newLogger(os.Stderr, logrus.InfoLevel)
)

var spewConfig *spew.ConfigState

func init() {
	spewConfig = spew.NewDefaultConfig()
	spewConfig.DisableCapacities = true
	spewConfig.SortKeys = true
}

func newLogger(out io.Writer, lvl logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:    true,
		FullTimestamp:    true,
		QuoteEmptyFields: true,
	})
	return l
}

// Logger returns the underlying logrus logger.
func Logger() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// fields turns alternating key/value arguments into logrus fields. A
// trailing key without a value is kept under "!BADKEY".
func fields(args []interface{}) logrus.Fields {
	f := make(logrus.Fields, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		if i+1 == len(args) {
			f["!BADKEY"] = args[i]
			break
		}
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		f[key] = args[i+1]
	}
	return f
}

func entry(args []interface{}) *logrus.Entry {
	return Logger().WithFields(fields(args))
}

func Debug(msg string, args ...interface{}) {
	entry(args).Debug(msg)
}

func Info(msg string, args ...interface{}) {
	entry(args).Info(msg)
}

func Warn(msg string, args ...interface{}) {
	entry(args).Warn(msg)
}

func Error(msg string, args ...interface{}) {
	entry(args).Error(msg)
}

// SetLevel changes the verbosity. It accepts the logrus level names
// ("debug", "info", "warn", "error", ...).
func SetLevel(name string) error {
	lvl, err := logrus.ParseLevel(name)
	if err != nil {
		return err
	}
	Logger().SetLevel(lvl)
	return nil
}

// Bracket runs fn with the level temporarily set to lvl.
func Bracket(lvl logrus.Level, fn func()) {
	l := Logger()
	old := l.GetLevel()
	l.SetLevel(lvl)
	defer l.SetLevel(old)
	fn()
}

// Redirect sends all logging output to w. A cleanup function that undoes
// the redirect is returned.
func Redirect(w io.Writer) func() {
	mu.Lock()
	old := logger
	logger = newLogger(w, old.GetLevel())
	mu.Unlock()

	return func() {
		mu.Lock()
		logger = old
		mu.Unlock()
	}
}

// Dump renders values with spew, one per line, without capacities.
func Dump(a ...interface{}) string {
	return spewConfig.Sdump(a...)
}

// DebugDump logs msg at debug level followed by a dump of the values. The
// dump is only rendered when debug logging is enabled.
func DebugDump(msg string, a ...interface{}) {
	l := Logger()
	if !l.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	l.Debug(msg + "\n" + Dump(a...))
}
