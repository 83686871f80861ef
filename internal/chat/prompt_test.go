package chat

import (
	"strings"
	"testing"
)

func TestPrimingInstruction(t *testing.T) {
	t.Parallel()

	t.Run("with context", func(t *testing.T) {
		t.Parallel()

		got := primingInstruction("an Airbnb in Paris", "Maria", "Check-in is at 3 PM.")

		for _, want := range []string{
			"You are a helpful WhatsApp assistant for an Airbnb in Paris.",
			"You are currently chatting with Maria.",
			"contact the host directly",
			"KNOWLEDGE BASE:\nCheck-in is at 3 PM.",
		} {
			if !strings.Contains(got, want) {
				t.Errorf("priming instruction missing %q:\n%s", want, got)
			}
		}
	})

	t.Run("without context", func(t *testing.T) {
		t.Parallel()

		got := primingInstruction("an Airbnb in Paris", "Maria", "")
		if !strings.Contains(got, "KNOWLEDGE BASE:\nNo specific context available.") {
			t.Errorf("priming instruction missing placeholder:\n%s", got)
		}
	})
}

func TestContextualRequest(t *testing.T) {
	t.Parallel()

	t.Run("with context", func(t *testing.T) {
		t.Parallel()

		got := contextualRequest("What time is check in", "Check-in is at 3 PM.")
		want := "Based on the knowledge base, please answer: What time is check in\n\nRelevant information:\nCheck-in is at 3 PM."
		if got != want {
			t.Errorf("contextualRequest() = %q, want %q", got, want)
		}
	})

	t.Run("without context passes through", func(t *testing.T) {
		t.Parallel()

		if got := contextualRequest("Hello there", ""); got != "Hello there" {
			t.Errorf("contextualRequest() = %q, want verbatim message", got)
		}
	})
}
