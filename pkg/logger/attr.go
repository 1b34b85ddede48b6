package logger

import (
	"log/slog"
	"time"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Role records a role under the key "role". Empty roles produce an empty Attr.
func Role[T ~string](role T) slog.Attr {
	if role == "" {
		return slog.Attr{}
	}
	return slog.String("role", string(role))
}

// RequestID tags a record with the id of the API call it belongs to.
func RequestID(id string) slog.Attr {
	return slog.String("request_id", id)
}

// Component names the package that wrote the record.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event names a session state machine event.
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Duration records an elapsed time under the "duration" key.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Route records a view path such as "/dashboard/admin".
func Route(path string) slog.Attr {
	return slog.String("route", path)
}

// HTTP groups the outgoing request method, path and response status.
func HTTP(method, path string, status int) slog.Attr {
	return slog.Group("http",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
	)
}

// ProductID tags a record with a medicine id.
func ProductID(id string) slog.Attr {
	return slog.String("product_id", id)
}

// Attempt records the 1-based try number of a retried call.
func Attempt(n int) slog.Attr {
	return slog.Int("attempt", n)
}
