package chat

import "fmt"

// noContextPlaceholder stands in for the knowledge base when retrieval
// produced nothing.
const noContextPlaceholder = "No specific context available."

// primingInstruction builds the first-contact instruction that sets the
// assistant's persona, behavioral rules and initial knowledge-base
// context. It is sent as the opening turn of a new conversation and
// stored with role system.
func primingInstruction(property, name, kbContext string) string {
	if kbContext == "" {
		kbContext = noContextPlaceholder
	}
	return fmt.Sprintf(
		"You are a helpful WhatsApp assistant for %s. "+
			"You are currently chatting with %s. "+
			"Use the following knowledge base to answer questions accurately. "+
			"If you don't know the answer based on the knowledge base, say you cannot help with that question "+
			"and advise them to contact the host directly. "+
			"Be friendly, concise, and helpful. Keep answers brief for WhatsApp.\n\n"+
			"KNOWLEDGE BASE:\n%s",
		property, name, kbContext)
}

// contextualRequest wraps the guest's message with retrieved context.
// With no context the message passes through verbatim.
func contextualRequest(message, kbContext string) string {
	if kbContext == "" {
		return message
	}
	return fmt.Sprintf(
		"Based on the knowledge base, please answer: %s\n\nRelevant information:\n%s",
		message, kbContext)
}
