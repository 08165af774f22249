// Package web serves the viewer: a JSON API over the live control state
// and recorded frames, a websocket that streams frames and accepts key
// presses, and the static viewer files.
package web

import (
	"bytes"
	"io"
	"net/http"
	"strconv"

	"github.com/chazu/firehouse/pkg/camera"
	"github.com/chazu/firehouse/pkg/control"
	"github.com/chazu/firehouse/pkg/engine"
	"github.com/chazu/firehouse/pkg/frame"
	"github.com/chazu/firehouse/pkg/gfx"
	"github.com/chazu/firehouse/pkg/logging"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

// maxScriptSize bounds the body of a script request.
const maxScriptSize = 1 << 20

// Backend owns the live control state and renders frames of it. All
// methods are called concurrently.
type Backend interface {
	State() control.State
	Key(name string) (control.State, error)
	Script(source string) (control.State, []engine.EvalError, error)
	Frame(size camera.Size) (*gfx.Frame, frame.Stats, error)
	WriteGLB(w io.Writer) error
}

// ErrUnknownKey is returned by backends for keys without a binding.
var ErrUnknownKey = errors.New("unknown key")

// Server routes viewer requests to a Backend.
type Server struct {
	backend Backend
	hub     *Hub
	webDir  string
	size    camera.Size

	upgrader websocket.Upgrader
}

// NewServer returns a server for b. Frames requested without a size use
// size; static files are served from webDir when it is not empty.
func NewServer(b Backend, webDir string, size camera.Size) *Server {
	return &Server{
		backend: b,
		hub:     NewHub(),
		webDir:  webDir,
		size:    size,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1 << 16,
		},
	}
}

// Hub returns the hub frames are broadcast on.
func (s *Server) Hub() *Hub {
	return s.hub
}

// PublishFrame broadcasts a rendered frame to every websocket client.
func (s *Server) PublishFrame(f *gfx.Frame, st frame.Stats) {
	s.hub.Broadcast(Message{Type: "frame", Frame: f, Stats: &st})
}

// Handler returns the routed handler wrapped with panic recovery and
// request logging.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/state", s.HandlerState).Methods(http.MethodGet)
	r.HandleFunc("/api/key/{key}", s.HandlerKey).Methods(http.MethodPost)
	r.HandleFunc("/api/script", s.HandlerScript).Methods(http.MethodPost)
	r.HandleFunc("/api/frame", s.HandlerFrame).Methods(http.MethodGet)
	r.HandleFunc("/api/scene.glb", s.HandlerGLB).Methods(http.MethodGet)
	r.HandleFunc("/api/help", s.HandlerHelp).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.HandlerWebsocket)

	if s.webDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.webDir)))
	}

	logger := logging.Logger()
	h := handlers.RecoveryHandler(handlers.RecoveryLogger(logger))(r)
	return handlers.LoggingHandler(logger.Writer(), h)
}

func (s *Server) HandlerState(w http.ResponseWriter, r *http.Request) {
	WriteJson(w, s.backend.State())
}

func (s *Server) HandlerKey(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	st, err := s.backend.Key(key)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrUnknownKey) {
			status = http.StatusNotFound
		}
		WriteError(w, status, err)
		return
	}
	WriteJson(w, st)
}

// ScriptResponse is the reply to a script request.
type ScriptResponse struct {
	State  control.State      `json:"state"`
	Errors []engine.EvalError `json:"errors"`
}

func (s *Server) HandlerScript(w http.ResponseWriter, r *http.Request) {
	var body bytes.Buffer
	if _, err := io.Copy(&body, io.LimitReader(r.Body, maxScriptSize)); err != nil {
		WriteError(w, http.StatusBadRequest, errors.Wrap(err, "failed to read script"))
		return
	}

	st, evalErrs, err := s.backend.Script(body.String())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, errors.Wrap(err, "script failed"))
		return
	}
	if evalErrs == nil {
		evalErrs = []engine.EvalError{}
	}
	status := http.StatusOK
	if len(evalErrs) > 0 {
		status = http.StatusUnprocessableEntity
	}
	WriteJsonStatus(w, status, ScriptResponse{State: st, Errors: evalErrs})
}

// FrameResponse is the reply to a frame request.
type FrameResponse struct {
	Frame *gfx.Frame  `json:"frame"`
	Stats frame.Stats `json:"stats"`
}

func (s *Server) HandlerFrame(w http.ResponseWriter, r *http.Request) {
	size, err := s.parseSize(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err)
		return
	}
	f, st, err := s.backend.Frame(size)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, errors.Wrap(err, "render failed"))
		return
	}
	WriteJson(w, FrameResponse{Frame: f, Stats: st})
}

func (s *Server) parseSize(r *http.Request) (camera.Size, error) {
	size := s.size
	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  *int
	}{{"w", &size.W}, {"h", &size.H}} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return camera.Size{}, errors.Errorf("invalid %s %q", p.name, v)
		}
		*p.dst = n
	}
	return size, nil
}

func (s *Server) HandlerGLB(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.backend.WriteGLB(&buf); err != nil {
		WriteError(w, http.StatusInternalServerError, errors.Wrap(err, "export failed"))
		return
	}
	writeFileHeaders(w, "firehouse.glb", "model/gltf-binary")
	WriteResult(w, buf.Bytes())
}

func (s *Server) HandlerHelp(w http.ResponseWriter, r *http.Request) {
	WriteJson(w, control.HelpLines)
}

func (s *Server) HandlerWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("websocket upgrade failed", "error", err)
		return
	}
	c := newClient(conn)
	logging.Info("websocket client connected", "client", c.name, "remote", r.RemoteAddr)

	c.offer(encode(Message{Type: "hello", Client: c.name}))
	s.hub.register(c)
	go c.writePump()
	c.readPump(s.hub, s.backend)
	logging.Info("websocket client disconnected", "client", c.name)
}
