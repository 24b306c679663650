package devserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// requestLogFormatter feeds chi's request logging into logrus so request
// lines follow the configured level and output.
type requestLogFormatter struct {
	log *logrus.Entry
}

func (f *requestLogFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	return &requestLogEntry{log: f.log.WithFields(logrus.Fields{
		"request_id": middleware.GetReqID(r.Context()),
		"method":     r.Method,
		"path":       r.URL.Path,
		"remote":     r.RemoteAddr,
	})}
}

type requestLogEntry struct {
	log *logrus.Entry
}

func (e *requestLogEntry) Write(status, bytes int, _ http.Header, elapsed time.Duration, _ interface{}) {
	log := e.log.WithFields(logrus.Fields{
		"status":  status,
		"bytes":   bytes,
		"elapsed": elapsed.String(),
	})
	if status >= http.StatusInternalServerError {
		log.Warn("request served")
		return
	}
	log.Info("request served")
}

func (e *requestLogEntry) Panic(v interface{}, stack []byte) {
	e.log.WithField("panic", v).Error(string(stack))
}
