package outbound

import "context"

type DigestMailerPort interface {
	Send(ctx context.Context, html string) error
}
