package core

// prompts.go defines the fixed texts used by the intake conversation.
// Keeping these in a separate file makes them easy to tweak without touching
// the rest of the code.

const (
	// SystemPrompt instructs the assistant to act as the intake and triage
	// coordinator: collect the essential fields, stay compassionate, and
	// never give a diagnosis. Department routing and urgency assignment are
	// decided by the triage engine, not by the model.
	SystemPrompt = "You are a medical intake and triage coordinator for a clinic. " +
		"Warmly greet patients and collect essential information: name, age, gender, " +
		"contact details, insurance, current symptoms, and medical history. " +
		"Ask one short follow-up question at a time and keep an empathetic tone. " +
		"For life-threatening symptoms, advise the patient to call 911 or go to the " +
		"emergency room immediately. Do not give a diagnosis or treatment advice; " +
		"your job is to gather information so the patient can be routed to the " +
		"appropriate department."

	// FirstMessage greets the patient when a new intake session starts.
	FirstMessage = "Hello! Welcome to the clinic. Please describe your symptoms or " +
		"health concerns, and tell me a bit about yourself so we can route you to " +
		"the right department."

	// FallbackReply is returned when the model call fails. The intake flow
	// never surfaces an internal error to the patient.
	FallbackReply = "I apologize, but there was an error processing your message. " +
		"Please try again."

	// CapMessage is sent when the patient exceeds the message cap for a
	// session.
	CapMessage = "We've reached the message limit for this visit. Thank you for the " +
		"details you've shared; the care team will review them shortly."
)
