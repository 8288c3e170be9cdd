package model

import "context"

// Oracle is the narrow boundary around the generative-text capability. The
// deterministic engine only ever needs a single-shot completion; everything
// else (scenario detection, correction-intent judgment, slot extraction,
// code prediction) is a prompt built on top of it, so tests can substitute a
// stub and exercise the whole state machine offline.
type Oracle interface {
	// Complete sends one prompt and returns the raw text reply.
	Complete(ctx context.Context, prompt string) (string, error)
}

// CodePredictor is the classification capability: given a product
// description it returns a ranked text listing of (rank, 6-digit code,
// confidence%) lines for the adapter to parse.
type CodePredictor interface {
	PredictCommodityCodes(ctx context.Context, description string) (string, error)
}
