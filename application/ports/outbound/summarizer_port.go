package outbound

import "context"

type SummarizerPort interface {
	Summarize(ctx context.Context, text string) (string, error)
}
