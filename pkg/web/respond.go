package web

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/chazu/firehouse/pkg/logging"
)

func writeFileHeaders(w http.ResponseWriter, name, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\""+name+"\"")
}

// WriteJson writes data as a JSON response with status 200.
func WriteJson(w http.ResponseWriter, data interface{}) {
	WriteJsonStatus(w, http.StatusOK, data)
}

// WriteJsonStatus writes data as a JSON response with the given status.
func WriteJsonStatus(w http.ResponseWriter, status int, data interface{}) {
	res, err := json.Marshal(data)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	WriteResult(w, res)
}

// WriteResult writes raw bytes, logging a failed write.
func WriteResult(w io.Writer, data []byte) {
	if _, err := w.Write(data); err != nil {
		logging.Warn("error when writing response", "error", err)
	}
}

// WriteError writes {"error": "..."} with the given status.
func WriteError(w http.ResponseWriter, status int, err error) {
	type jError struct {
		Error string `json:"error"`
	}
	data, merr := json.Marshal(&jError{Error: err.Error()})
	if merr != nil {
		logging.Error("error marshaling error", "error", err, "marshal", merr)
		http.Error(w, err.Error(), status)
		return
	}
	logging.Warn("http error", "status", status, "error", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	WriteResult(w, data)
}
