package pipeline

import "context"

// SlipParser extracts a raw JSON object from a slip image via an AI model.
// The interface exists so transports and tests can swap out the Gemini
// implementation.
type SlipParser interface {
	// ParseSlip sends the image to the model and returns the decoded
	// top-level JSON object. A syntactically broken response must wrap
	// ErrUnusableOutput; transport failures must not.
	ParseSlip(ctx context.Context, imageBytes []byte) (map[string]interface{}, error)
}

// RowAppender appends one ordered row to the durable store. Implemented by
// the Google Sheets writer.
type RowAppender interface {
	AppendRow(ctx context.Context, values []interface{}) error
}
