package review

import "context"

const pkg = "reviewHandler/"

type ReviewResolver interface {
	ResolveReviewLink(ctx context.Context, token string) (string, error)
}
