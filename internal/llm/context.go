package llm

import "context"

// Purpose labels why a request was made. It is stored with each
// llm_request_events row.
type Purpose string

const (
	PurposeTips    Purpose = "tips"
	PurposeCheck   Purpose = "check"
	PurposeUnknown Purpose = "unknown"
)

type purposeKey struct{}

func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey{}, p)
}

// PurposeFrom returns the purpose set by WithPurpose, or PurposeUnknown.
func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey{}).(Purpose); ok && p != "" {
		return p
	}
	return PurposeUnknown
}
