package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDHeader carries the request identifier on requests and responses.
const RequestIDHeader = "X-Request-ID"

// legacyRequestIDHeader is still read from older clients but never written.
const legacyRequestIDHeader = "X-Correlation-ID"

const (
	requestIDLocal     = "request_id"
	maxRequestIDLength = 64
)

type requestIDKey struct{}

// RequestID tags every request with an identifier. A client supplied id is
// reused only when it is short and limited to [A-Za-z0-9._:-]; anything else
// is replaced with a fresh UUID so it can be written to logs verbatim.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := acceptRequestID(c.Get(RequestIDHeader))
		if id == "" {
			id = acceptRequestID(c.Get(legacyRequestIDHeader))
		}
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(requestIDLocal, id)
		c.Set(RequestIDHeader, id)
		c.SetUserContext(WithRequestID(c.UserContext(), id))

		return c.Next()
	}
}

func acceptRequestID(raw string) string {
	id := strings.TrimSpace(raw)
	if id == "" || len(id) > maxRequestIDLength {
		return ""
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.', r == ':':
		default:
			return ""
		}
	}
	return id
}

// WithRequestID stores id on ctx. Blank ids leave ctx untouched.
func WithRequestID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id stored by WithRequestID, if any.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// GetRequestID returns the identifier bound to the active request.
func GetRequestID(c *fiber.Ctx) string {
	if c == nil {
		return ""
	}
	if id, ok := c.Locals(requestIDLocal).(string); ok && id != "" {
		return id
	}
	return RequestIDFromContext(c.UserContext())
}

// RequestLogger scopes base to the active request: its id, method and route
// template, plus the caller when the request is authenticated.
func RequestLogger(base zerolog.Logger, c *fiber.Ctx) zerolog.Logger {
	if c == nil {
		return base
	}
	logContext := base.With().
		Str("request_id", GetRequestID(c)).
		Str("method", c.Method()).
		Str("route", routeTemplate(c))
	if identity, ok := IdentityFromLocals(c); ok {
		logContext = logContext.Str("user_id", identity.UserID)
	}
	return logContext.Logger()
}
