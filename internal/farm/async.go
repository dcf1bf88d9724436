package farm

import "context"

// CompleteAsync runs Complete on its own goroutine. The returned channel
// yields exactly one Result and is then closed.
func (c *Client) CompleteAsync(ctx context.Context, userText, systemPrompt string) <-chan Result[string] {
	return goAsync(ctx, func(ctx context.Context) (string, error) {
		return c.Complete(ctx, userText, systemPrompt)
	})
}

// CompleteWithDetailsAsync runs CompleteWithDetails on its own goroutine.
func (c *Client) CompleteWithDetailsAsync(ctx context.Context, req Request) <-chan Result[Completion] {
	return goAsync(ctx, func(ctx context.Context) (Completion, error) {
		return c.CompleteWithDetails(ctx, req)
	})
}

func goAsync[T any](ctx context.Context, fn func(context.Context) (T, error)) <-chan Result[T] {
	ch := make(chan Result[T], 1)
	go func() {
		defer close(ch)
		v, err := fn(ctx)
		ch <- Result[T]{Value: v, Err: err}
	}()
	return ch
}
