package inbound

import "context"

// BatchComposerPort glues all staged segments into one published clip.
// Compose reports false when nothing was staged, in which case the
// pending counter is left untouched.
type BatchComposerPort interface {
	Compose(ctx context.Context) (published bool, err error)
}
