package agent

import "github.com/taskpilot/taskpilot/internal/models"

// GoodbyeResponse ends a session; the CLI chat loop exits when it sees it.
const GoodbyeResponse = "Goodbye! Your list will be here when you get back."

// Canned responses for intents that carry no payload
const (
	errorPrefix = "Sorry, something went wrong: "

	greetResponse   = "Hello! I can add tasks, mark them done, and suggest what to work on next."
	goodbyeResponse = GoodbyeResponse
	unknownResponse = "I didn't catch that. You can add a task, complete one, list your tasks, or ask for a suggestion."
	genericResponse = "Done."
)

// FormatResponse is the terminal node of every turn. An error wins over
// everything; an already-built response passes through unchanged; otherwise
// the intent picks a canned message. Pure and idempotent: formatting the
// same state twice yields the same string, and the result is never empty.
func FormatResponse(st *State) string {
	if st.Err != "" {
		return errorPrefix + st.Err
	}
	if st.Response != "" {
		return st.Response
	}
	switch st.Intent {
	case models.IntentGreet:
		return greetResponse
	case models.IntentGoodbye:
		return goodbyeResponse
	case models.IntentUnknown:
		return unknownResponse
	default:
		return genericResponse
	}
}
