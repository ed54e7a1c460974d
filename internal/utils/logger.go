package utils

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKey string

type Fields = logrus.Fields

const (
	CorrelationIDKey contextKey = "correlation_id"
	RequestIDKey     contextKey = "request_id"
)

var logger = logrus.New()

func init() {
	logger.SetOutput(os.Stdout)
	Configure(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

// Configure sets the level (default info) and the output format. Format
// "text" gives colourless key=value lines for local runs; anything else is
// JSON with timestamp, level and message keys.
func Configure(level, format string) {
	if strings.EqualFold(format, "text") {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			DisableColors:   true,
			TimestampFormat: "15:04:05.000",
		})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	}

	if level == "" {
		level = "info"
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logger.Warnf("Invalid log level %s, defaulting to info", level)
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
}

func GetLogger() *logrus.Logger {
	return logger
}

// SetOutput redirects the shared logger, mostly so tests can silence it.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, CorrelationIDKey, correlationID)
}

func GetCorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(CorrelationIDKey).(string)
	return id
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func GenerateCorrelationID() string {
	return uuid.NewString()
}

func GenerateRequestID() string {
	return "req_" + uuid.NewString()
}

// LoggerFromContext returns an entry carrying the request's ids.
func LoggerFromContext(ctx context.Context) *logrus.Entry {
	ids := logrus.Fields{}
	if id := GetCorrelationID(ctx); id != "" {
		ids["correlation_id"] = id
	}
	if id := GetRequestID(ctx); id != "" {
		ids["request_id"] = id
	}
	return logger.WithFields(ids)
}

func entryFor(ctx context.Context, fields []Fields) *logrus.Entry {
	entry := LoggerFromContext(ctx)
	for _, f := range fields {
		entry = entry.WithFields(f)
	}
	return entry
}

func LogInfo(ctx context.Context, message string, fields ...Fields) {
	entryFor(ctx, fields).Info(message)
}

func LogError(ctx context.Context, message string, err error, fields ...Fields) {
	entryFor(ctx, fields).WithError(err).Error(message)
}

func LogWarn(ctx context.Context, message string, fields ...Fields) {
	entryFor(ctx, fields).Warn(message)
}

func LogDebug(ctx context.Context, message string, fields ...Fields) {
	entryFor(ctx, fields).Debug(message)
}
