package cli

import "github.com/google/uuid"

// TraceIDGenerator produces the trace id attached to CLI responses and the
// matching debug log lines.
type TraceIDGenerator interface {
	Generate() string
}

// uuidTraceIDs generates time-ordered UUIDv7 trace ids.
type uuidTraceIDs struct{}

func (uuidTraceIDs) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
