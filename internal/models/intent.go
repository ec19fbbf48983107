package models

// Intent labels what the user asked for in a single turn. The first seven
// values form the closed set the classifier may return; IntentCompleteByID
// and IntentError are internal states the engine rewrites to while routing.
type Intent string

const (
	IntentAddTask      Intent = "add_task"
	IntentSuggestTask  Intent = "suggest_task"
	IntentListTasks    Intent = "list_tasks"
	IntentCompleteTask Intent = "complete_task"
	IntentGreet        Intent = "greet"
	IntentGoodbye      Intent = "goodbye"
	IntentUnknown      Intent = "unknown"

	IntentCompleteByID Intent = "complete_by_id"
	IntentError        Intent = "error"
)

// ClassifiableIntents is the closed set a classifier response is validated
// against. Anything outside it is a schema-validation failure.
var ClassifiableIntents = []Intent{
	IntentAddTask,
	IntentSuggestTask,
	IntentListTasks,
	IntentCompleteTask,
	IntentGreet,
	IntentGoodbye,
	IntentUnknown,
}

// IsClassifiable reports whether the intent is one a classifier may return
func (i Intent) IsClassifiable() bool {
	for _, v := range ClassifiableIntents {
		if i == v {
			return true
		}
	}
	return false
}
