package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Pipeline is the single extraction-and-record flow shared by every
// transport. Each adapter (upload endpoint, chat webhook, CLI) is a thin
// caller around it.
type Pipeline struct {
	parser   SlipParser
	appender RowAppender
	log      zerolog.Logger
}

// New creates a pipeline with the given parser and row appender. The
// appender may be nil for extract-only use (the CLI without -append).
func New(parser SlipParser, appender RowAppender, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		parser:   parser,
		appender: appender,
		log:      log,
	}
}

// ProcessImage runs the model call and coerces the response into a
// SlipRecord. A malformed model response is fail-soft: the caller observes
// an all-absent record and a nil error. Model call failures at the
// network/auth layer propagate unchanged.
func (p *Pipeline) ProcessImage(ctx context.Context, imageBytes []byte) (*SlipRecord, error) {
	raw, err := p.parser.ParseSlip(ctx, imageBytes)
	if err != nil {
		if errors.Is(err, ErrUnusableOutput) {
			p.log.Warn().Err(err).Msg("Model response unusable, returning empty record")
			return &SlipRecord{}, nil
		}
		return nil, fmt.Errorf("ProcessImage: %w", err)
	}

	return recordFromModelOutput(raw), nil
}

// ProcessAndRecord runs ProcessImage and appends the record's row to the
// spreadsheet when at least one field was read. It reports whether a row
// was appended. Append failures propagate as-is; there is no retry.
func (p *Pipeline) ProcessAndRecord(ctx context.Context, imageBytes []byte) (*SlipRecord, bool, error) {
	rec, err := p.ProcessImage(ctx, imageBytes)
	if err != nil {
		return nil, false, err
	}

	if rec.IsEmpty() {
		p.log.Info().Msg("Empty record, skipping spreadsheet append")
		return rec, false, nil
	}

	if p.appender == nil {
		return rec, false, nil
	}

	if err := p.appender.AppendRow(ctx, rec.Row()); err != nil {
		return rec, false, fmt.Errorf("ProcessAndRecord: append row: %w", err)
	}

	return rec, true, nil
}
