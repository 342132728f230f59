package outbound

import "context"

// StateStorePort holds the pipeline's singleton watermark and counter
// state as named int64 values. Every mutation is a single atomic step;
// a failed write surfaces an error and leaves no partial update.
type StateStorePort interface {
	Get(ctx context.Context, key string) (value int64, found bool, err error)
	Set(ctx context.Context, key string, value int64) error
	// Raise advances a key monotonically: the stored value only ever
	// goes up. Returns the value now held.
	Raise(ctx context.Context, key string, value int64) (int64, error)
	// Increment adds one atomically and returns the new value.
	Increment(ctx context.Context, key string) (int64, error)
}
