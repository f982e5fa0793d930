package obs

import (
	"context"
	"log"
	"time"
)

type ctxKey string

const (
	RequestIDKey  ctxKey = "req_id"
	GenerationKey ctxKey = "gen"
)

// WithGeneration tags ctx with the planning generation so timing lines can be correlated.
func WithGeneration(ctx context.Context, gen uint64) context.Context {
	return context.WithValue(ctx, GenerationKey, gen)
}

func RequestID(ctx context.Context) string {
	reqID, _ := ctx.Value(RequestIDKey).(string)
	return reqID
}

func Generation(ctx context.Context) uint64 {
	gen, _ := ctx.Value(GenerationKey).(uint64)
	return gen
}

// Time logs the duration of op when the returned func is deferred with the
// operation's named error.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	reqID := RequestID(ctx)
	gen := Generation(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Printf("req_id=%s gen=%d op=%s dur=%dms err=%v", reqID, gen, name, dur.Milliseconds(), *errp)
			return
		}
		log.Printf("req_id=%s gen=%d op=%s dur=%dms", reqID, gen, name, dur.Milliseconds())
	}
}
