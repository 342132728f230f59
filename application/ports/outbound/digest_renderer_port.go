package outbound

type DigestRendererPort interface {
	Render(digest string) (string, error)
}
