package availability

import "context"

// QuerySequencer hands out monotonically increasing tickets per client
// session so that only the most recent query's result is applied.
type QuerySequencer interface {
	Next(ctx context.Context, session string) (uint64, error)
	Latest(ctx context.Context, session string) (uint64, error)
}

func superseded(ctx context.Context, seq QuerySequencer, session string, ticket uint64) (bool, error) {
	latest, err := seq.Latest(ctx, session)
	if err != nil {
		return false, err
	}
	return latest > ticket, nil
}
