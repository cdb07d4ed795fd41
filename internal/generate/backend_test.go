package generate

import (
	"context"
	"errors"
	"testing"

	"server/internal/providers/openrouter"
)

func TestBackendGeneratesCode(t *testing.T) {
	client := &fakeCompleter{fn: func(model string, messages []openrouter.Message) (string, error) {
		return "const app = require('express')();", nil
	}}
	res := NewBackendGenerator(client, "test/model", testLogger).Generate(context.Background(), "contact form with email")
	if res.Degraded {
		t.Fatalf("unexpected degraded result: %+v", res)
	}
	if res.Value == "" {
		t.Error("expected backend code")
	}
}

func TestBackendSentinelMeansNone(t *testing.T) {
	client := &fakeCompleter{fn: func(model string, messages []openrouter.Message) (string, error) {
		return "NO_BACKEND", nil
	}}
	res := NewBackendGenerator(client, "test/model", testLogger).Generate(context.Background(), "static landing page")
	if !res.Degraded || res.Value != "" {
		t.Errorf("result = %+v, want empty degraded", res)
	}
	if res.Reason != "no_backend" {
		t.Errorf("reason = %q", res.Reason)
	}
}

func TestBackendSentinelInsideLongerReply(t *testing.T) {
	client := &fakeCompleter{fn: func(model string, messages []openrouter.Message) (string, error) {
		return "Analysis: the request is static, so NO_BACKEND is required here.", nil
	}}
	res := NewBackendGenerator(client, "test/model", testLogger).Generate(context.Background(), "static page")
	if res.Value != "" {
		t.Errorf("value = %q, want empty when sentinel appears anywhere", res.Value)
	}
}

func TestBackendFailureIsNonFatal(t *testing.T) {
	client := &fakeCompleter{fn: func(model string, messages []openrouter.Message) (string, error) {
		return "", errors.New("boom")
	}}
	res := NewBackendGenerator(client, "test/model", testLogger).Generate(context.Background(), "anything")
	if !res.Degraded || res.Value != "" {
		t.Errorf("result = %+v, want empty degraded", res)
	}
	if res.Reason != "provider_error" {
		t.Errorf("reason = %q", res.Reason)
	}
}
