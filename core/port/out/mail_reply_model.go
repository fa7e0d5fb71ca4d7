package out

import "context"

// ReplyModel is a single-shot text completion capability used by reply
// generation. One attempt, no retries.
type ReplyModel interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
