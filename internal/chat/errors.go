package chat

import "errors"

var (
	// ErrGenerationFailed indicates the model produced no reply after
	// retries. The conversation history is left untouched.
	ErrGenerationFailed = errors.New("response generation failed")

	// ErrHistoryNotSaved indicates the reply was generated but could not
	// be persisted. Respond still returns the reply text alongside this
	// error; the transport decides whether to deliver it.
	ErrHistoryNotSaved = errors.New("conversation history not saved")
)
