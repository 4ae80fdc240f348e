// Package analytics records search queries on a Redis queue for offline
// aggregation. Emission is fire-and-forget: the response path never waits
// on it and never sees its errors.
package analytics

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/aitoolhub/search-service/logger"
	"github.com/redis/go-redis/v9"
)

const (
	enqueueTimeout    = 5 * time.Second
	loggedQueryLength = 50
)

// Event is one recorded search.
type Event struct {
	Query       string         `json:"query"`
	Filters     map[string]any `json:"filters,omitempty"`
	ResultCount int            `json:"result_count"`
	SearchType  string         `json:"search_type"`
	UserID      string         `json:"user_id,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}

// Queue is the subset of the Redis client the emitter needs.
type Queue interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// IdentityResolver turns a bearer token into a user id. Resolution failures
// degrade to anonymous events.
type IdentityResolver interface {
	ResolveUserID(ctx context.Context, token string) (string, error)
}

type Emitter struct {
	queue     Queue
	queueName string
	identity  IdentityResolver
	logger    logger.Logger
	wg        sync.WaitGroup
}

func New(queue Queue, queueName string, identity IdentityResolver, logger logger.Logger) *Emitter {
	return &Emitter{queue: queue, queueName: queueName, identity: identity, logger: logger}
}

// Emit dispatches the event on its own goroutine and returns immediately.
// authHeader is consulted only when the event carries no user id.
func (e *Emitter) Emit(event Event, authHeader string) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), enqueueTimeout)
		defer cancel()

		if len(event.UserID) == 0 {
			event.UserID = e.resolveUser(ctx, authHeader)
		}

		payload, err := json.Marshal(event)
		if err != nil {
			e.logger.Warn("analytics event not serializable", "err", err.Error())
			return
		}

		if err := e.queue.LPush(ctx, e.queueName, payload).Err(); err != nil {
			e.logger.Warn("analytics enqueue failed",
				"err", err.Error(),
				"query", truncateQuery(event.Query))
		}
	}()
}

// Flush waits for in-flight events. Used during shutdown and in tests.
func (e *Emitter) Flush() {
	e.wg.Wait()
}

func (e *Emitter) resolveUser(ctx context.Context, authHeader string) string {
	if e.identity == nil {
		return ""
	}

	token, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found || len(token) == 0 {
		return ""
	}

	userID, err := e.identity.ResolveUserID(ctx, token)
	if err != nil {
		e.logger.Warn("could not resolve analytics user, recording as anonymous", "err", err.Error())
		return ""
	}

	return userID
}

func truncateQuery(query string) string {
	if len(query) <= loggedQueryLength {
		return query
	}
	return query[:loggedQueryLength] + "..."
}
