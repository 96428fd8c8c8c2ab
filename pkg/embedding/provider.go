package embedding

import "context"

// Provider turns a single text into a fixed-length vector by calling an
// external embedding endpoint. One call per text; retry policy, if any,
// belongs to the caller.
type Provider interface {
	Generate(ctx context.Context, text string) ([]float32, error)
}
