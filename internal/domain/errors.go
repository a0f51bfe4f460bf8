package domain

import "errors"

// Failure kinds shared across adapters. Wrap them with fmt.Errorf("...: %w", ErrX)
// so the pipeline can branch on errors.Is.
var (
	// ErrFetch indicates a page could not be downloaded or returned a non-200 status.
	ErrFetch = errors.New("fetch failed")

	// ErrParse indicates downloaded content could not be parsed.
	ErrParse = errors.New("parse failed")

	// ErrMissingPublishDate indicates the article carries no usable publish date.
	ErrMissingPublishDate = errors.New("publish date missing")

	// ErrModelCall indicates the language model request failed or returned nothing.
	ErrModelCall = errors.New("model call failed")

	// ErrInvalidEvaluation indicates the evaluator output did not match the expected schema.
	ErrInvalidEvaluation = errors.New("invalid evaluation")

	// ErrNotify indicates the chat webhook rejected or never received the message.
	ErrNotify = errors.New("notification failed")
)
