package session

import "context"

// ConfirmationRequest is the request half of the destructive-action gate:
// a prompt presented to the operator and a channel their answer comes back
// on. Dropping the request (closing the dialog) answers false.
type ConfirmationRequest struct {
	Prompt string
	Reply  chan bool
}

// ChannelConfirmer bridges the confirmation-request/result pair over
// channels so a UI loop can present the prompt and answer asynchronously.
type ChannelConfirmer struct {
	Requests chan ConfirmationRequest
}

func NewChannelConfirmer() *ChannelConfirmer {
	return &ChannelConfirmer{Requests: make(chan ConfirmationRequest)}
}

func (c *ChannelConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	req := ConfirmationRequest{Prompt: prompt, Reply: make(chan bool, 1)}

	select {
	case c.Requests <- req:
	case <-ctx.Done():
		return false, ctx.Err()
	}

	select {
	case answer := <-req.Reply:
		return answer, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// StaticConfirmer answers every prompt the same way. The HTTP surface uses
// it to carry an explicit confirm flag from the client through the gate.
type StaticConfirmer bool

func (s StaticConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	return bool(s), nil
}
