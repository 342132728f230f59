package outbound

import "context"

// ObjectStorePort is the durable object store the pipeline stages and
// archives audio in. Keys are hierarchical paths.
type ObjectStorePort interface {
	Upload(ctx context.Context, key string, payload []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Copy(ctx context.Context, srcKey string, dstKey string) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
	// URI returns the store-native URI for a key, used when handing
	// object locations to external systems and durable records.
	URI(key string) string
}
