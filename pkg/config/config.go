// Package config loads the viewer's YAML configuration. Defaults are
// applied first and file values override them, so a partial file is valid.
package config

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/chazu/firehouse/pkg/camera"
	"github.com/chazu/firehouse/pkg/control"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type Server struct {
	Addr          string        `yaml:"addr"`
	WebDir        string        `yaml:"web_dir"`
	FrameInterval time.Duration `yaml:"frame_interval"`
}

type Truck struct {
	StepWidth float64 `yaml:"step_width"`
	StepNr    int     `yaml:"step_nr"`
}

type Camera struct {
	Theta float64      `yaml:"theta"`
	Gamma float64      `yaml:"gamma"`
	Zoom  float64      `yaml:"zoom"`
	View  control.View `yaml:"view"`
}

type Kernel struct {
	// MeshCells is the marching cubes resolution of the exported primitives.
	MeshCells int `yaml:"mesh_cells"`
}

type Log struct {
	Level string `yaml:"level"`
}

// Config is the full configuration file.
type Config struct {
	Server   Server      `yaml:"server"`
	Viewport camera.Size `yaml:"viewport"`
	Truck    Truck       `yaml:"truck"`
	Camera   Camera      `yaml:"camera"`
	Kernel   Kernel      `yaml:"kernel"`
	Log      Log         `yaml:"log"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: Server{
			Addr:          ":8000",
			WebDir:        "web",
			FrameInterval: 33 * time.Millisecond,
		},
		Viewport: camera.Size{W: 1280, H: 720},
		Truck: Truck{
			StepWidth: control.MaxStepWidth,
			StepNr:    control.DefaultStepNr,
		},
		Camera: Camera{
			Theta: control.DefaultTheta,
			Gamma: control.DefaultGamma,
			Zoom:  control.DefaultZoom,
			View:  control.ViewAxo,
		},
		Kernel: Kernel{MeshCells: 64},
		Log:    Log{Level: "info"},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %q", path)
	}
	c, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "config %q", path)
	}
	return c, nil
}

// Parse decodes r over the defaults and validates the result. Unknown
// keys are errors.
func Parse(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to unmarshal yaml")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Server.Addr == "":
		return errors.New("server.addr must not be empty")
	case c.Server.FrameInterval <= 0:
		return errors.Errorf("server.frame_interval must be positive, got %s", c.Server.FrameInterval)
	case c.Viewport.W <= 0 || c.Viewport.H <= 0:
		return errors.Errorf("viewport must be positive, got %dx%d", c.Viewport.W, c.Viewport.H)
	case c.Truck.StepWidth < control.MinStepWidth || c.Truck.StepWidth > control.MaxStepWidth:
		return errors.Errorf("truck.step_width %g out of range [%g, %g]",
			c.Truck.StepWidth, control.MinStepWidth, control.MaxStepWidth)
	case c.Truck.StepNr < control.MinStepNr || c.Truck.StepNr > control.MaxStepNr:
		return errors.Errorf("truck.step_nr %d out of range [%d, %d]",
			c.Truck.StepNr, control.MinStepNr, control.MaxStepNr)
	case !(c.Camera.Zoom > 0):
		return errors.Errorf("camera.zoom must be positive, got %g", c.Camera.Zoom)
	case c.Kernel.MeshCells <= 0:
		return errors.Errorf("kernel.mesh_cells must be positive, got %d", c.Kernel.MeshCells)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "log.level")
	}
	return nil
}

// InitialState returns the control state the viewer starts in.
func (c *Config) InitialState() control.State {
	s := control.Default()
	s.StepWidth = c.Truck.StepWidth
	s.StepNr = c.Truck.StepNr
	s.Theta = c.Camera.Theta
	s.Gamma = c.Camera.Gamma
	s.Zoom = c.Camera.Zoom
	s.View = c.Camera.View
	return s.Clamped()
}

// Write encodes c as YAML.
func (c *Config) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return errors.Wrap(err, "failed to marshal yaml")
	}
	return errors.Wrap(enc.Close(), "failed to close yaml encoder")
}
