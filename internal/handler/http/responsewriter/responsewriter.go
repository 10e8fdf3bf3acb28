// Package responsewriter records the status code and body size of a
// response so the logging and metrics middleware can report them.
package responsewriter

import "net/http"

// ResponseWriter decorates http.ResponseWriter with outcome recording.
type ResponseWriter struct {
	http.ResponseWriter
	status  int
	written int
	wrote   bool
}

// Wrap decorates w. Until WriteHeader runs the status reads as 200,
// which is what net/http sends for a handler that only writes a body.
func Wrap(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w, status: http.StatusOK}
}

// WriteHeader forwards the first status code and ignores later calls,
// mirroring net/http's superfluous-WriteHeader behavior without the log
// noise.
func (w *ResponseWriter) WriteHeader(status int) {
	if w.wrote {
		return
	}
	w.wrote = true
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	if !w.wrote {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.written += n
	return n, err
}

// StatusCode reports the status sent to the client.
func (w *ResponseWriter) StatusCode() int { return w.status }

// BytesWritten reports the body size sent to the client.
func (w *ResponseWriter) BytesWritten() int { return w.written }

// Unwrap exposes the underlying writer for http.ResponseController.
func (w *ResponseWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
