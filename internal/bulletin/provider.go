package bulletin

import "context"

// FetchResult is the outcome of a single upstream request that reached the server.
// OK reports a 2xx status; Body is only set when OK is true.
type FetchResult struct {
	OK     bool
	Status int
	Body   []byte
}

// Fetcher retrieves the bulletin published for a given hour of the current day.
// A non-2xx response is not an error; errors are reserved for transport failures.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, hour int) (FetchResult, error)
}
