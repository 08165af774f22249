// Command firehouse serves the fire truck scene to a browser viewer.
//
//	firehouse -config firehouse.yaml
//	firehouse -script examples/rescue.lisp -export truck.glb
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/chazu/firehouse/pkg/config"
	"github.com/chazu/firehouse/pkg/logging"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	addr := flag.String("addr", "", "listen address, overrides the config")
	script := flag.String("script", "", "control script to run before serving or exporting")
	exportPath := flag.String("export", "", "write the scene as binary glTF to this file and exit")
	dumpConfig := flag.Bool("dump-config", false, "print the effective config and exit")
	trace := flag.Bool("trace", false, "log the startup script's commands at debug level")
	flag.Parse()

	if err := run(*configPath, *addr, *script, *exportPath, *dumpConfig, *trace); err != nil {
		logging.Error("firehouse failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, addr, script, exportPath string, dumpConfig, trace bool) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if err := logging.SetLevel(cfg.Log.Level); err != nil {
		return err
	}
	if dumpConfig {
		return cfg.Write(os.Stdout)
	}

	app, err := NewApp(cfg)
	if err != nil {
		return err
	}

	if script != "" {
		if trace {
			logging.Bracket(logrus.DebugLevel, func() { err = runScript(app, script) })
		} else {
			err = runScript(app, script)
		}
		if err != nil {
			return err
		}
		logging.DebugDump("state after script", app.State())
	}

	if exportPath != "" {
		return exportScene(app, exportPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.Serve(ctx)
}

func runScript(app *App, path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading script")
	}
	st, evalErrs, err := app.Script(string(source))
	if err != nil {
		return err
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			fmt.Fprintf(os.Stderr, "%s: %s\n", path, e.Error())
		}
		return errors.Errorf("%s: %d errors", path, len(evalErrs))
	}
	logging.Info("script applied", "script", path, "truckPos", st.TruckPos, "stepNr", st.StepNr)
	return nil
}

func exportScene(app *App, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating export file")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "closing export file")
		}
	}()
	if err := app.WriteGLB(f); err != nil {
		return err
	}
	logging.Info("scene exported", "path", path)
	return nil
}
