package monitor

import (
	"math"
	"net/http"

	"github.com/staffroomhq/staffroom-api/config"
	"github.com/staffroomhq/staffroom-api/version"

	"github.com/sirupsen/logrus"
)

var logger = NewModuleLogger("monitor")

const (
	// PasswordF is a password field name that will be stripped from logs in production mode.
	PasswordF = "password"
	// KeyF is an API key field name that will be stripped from logs in production mode.
	KeyF = "service_key"
	// ValueMask is what replaces sensitive fields contents in logs.
	ValueMask = "****"

	responseSnippetLen = 250.
)

var jsonFormatter = logrus.JSONFormatter{DisableTimestamp: true}
var textFormatter = logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05"}

// SetupLogging configures the standard logger for the current environment.
func SetupLogging() {
	l := logrus.StandardLogger()
	configureLogLevelAndFormat(l)

	l.WithFields(
		version.BuildInfo(),
	).WithFields(logrus.Fields{
		"mode":     LogMode(),
		"logLevel": l.Level,
	}).Infof("standard logger configured")
}

func LogMode() string {
	if config.IsProduction() {
		return "production"
	}
	return "develop"
}

func configureLogLevelAndFormat(l *logrus.Logger) {
	if config.IsProduction() {
		l.SetLevel(logrus.InfoLevel)
		l.SetFormatter(&jsonFormatter)
	} else {
		l.SetLevel(logrus.TraceLevel)
		l.SetFormatter(&textFormatter)
	}
}

// loggingWriter mimics http.ResponseWriter but stores a snippet of response, status code
// and response size for easier logging
type loggingWriter struct {
	http.ResponseWriter
	Status          int
	ResponseSnippet string
	ResponseSize    int
}

func (w *loggingWriter) Write(p []byte) (int, error) {
	w.ResponseSnippet = string(p[:int(math.Min(float64(len(p)), responseSnippetLen))])
	w.ResponseSize += len(p)
	return w.ResponseWriter.Write(p)
}

func (w *loggingWriter) WriteHeader(status int) {
	w.Status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *loggingWriter) IsSuccess() bool {
	return w.Status < http.StatusInternalServerError
}

// RequestLoggingMiddleware logs a snippet of the response when a request ends
// up with a server error.
func RequestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		lw := &loggingWriter{ResponseWriter: writer}
		next.ServeHTTP(lw, request)
		if !lw.IsSuccess() {
			logger.WithFields(logrus.Fields{
				"url":      request.URL.Path,
				"status":   lw.Status,
				"response": lw.ResponseSnippet,
			}).Error("server responded with error")
		}
	})
}
