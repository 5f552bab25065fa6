package redis

import (
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
)

// newTestStore wires an IdempotencyStore against an in-process Redis. Both
// the server and the client are torn down with the test.
func newTestStore(t *testing.T) (*IdempotencyStore, *redislib.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})

	t.Cleanup(func() { client.Close() })

	return NewIdempotencyStore(client), client
}
