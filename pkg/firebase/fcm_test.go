package firebase

import (
	"context"
	"testing"
)

func TestSendPushMultipleUninitialized(t *testing.T) {
	s := &FCMService{}
	tokens := []string{"device-token-a", "device-token-b", "device-token-c"}

	result := s.SendPushMultiple(context.Background(), tokens, "title", "body", nil)

	if result.SuccessCount != 0 {
		t.Errorf("SuccessCount = %d, want 0", result.SuccessCount)
	}
	if result.FailureCount != len(tokens) {
		t.Errorf("FailureCount = %d, want %d", result.FailureCount, len(tokens))
	}
	if len(result.FailedTokens) != len(tokens) {
		t.Errorf("FailedTokens = %v, want all %d tokens", result.FailedTokens, len(tokens))
	}
	// An uninitialized client says nothing about the tokens; none of them
	// may be reported as unregistered.
	if len(result.UnregisteredTokens) != 0 {
		t.Errorf("UnregisteredTokens = %v, want none", result.UnregisteredTokens)
	}
}

func TestSendPushMultipleNoTokens(t *testing.T) {
	s := &FCMService{}

	result := s.SendPushMultiple(context.Background(), nil, "title", "body", nil)

	if result.FailureCount != 0 || len(result.FailedTokens) != 0 || len(result.UnregisteredTokens) != 0 {
		t.Errorf("empty token list must be a clean no-op, got %+v", result)
	}
}
