package agent

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// Turn states. Every turn starts at awaiting_intent and ends at
// format_response; the machine exists to make illegal sequencing (say,
// suggesting after a failed completion) unrepresentable.
const (
	stateAwaitingIntent = "awaiting_intent"
	stateAddTask        = "add_task"
	stateCompleteByID   = "complete_by_id"
	stateListTasks      = "list_tasks"
	stateSuggest        = "suggest"
	stateGreet          = "greet"
	stateGoodbye        = "goodbye"
	stateUnknown        = "unknown"
	stateError          = "error"
	stateFormat         = "format_response"
)

// Turn events
const (
	eventAdd          = "add"
	eventComplete     = "complete"
	eventList         = "list"
	eventSuggest      = "suggest"
	eventGreet        = "greet"
	eventGoodbye      = "goodbye"
	eventUnknown      = "unknown"
	eventFail         = "fail"
	eventChainSuggest = "chain_suggest"
	eventFormat       = "format"
)

type turnContext struct{}

// turnFSM wraps a statekit interpreter enforcing the legal turn transitions
type turnFSM struct {
	interpreter *statekit.Interpreter[turnContext]
}

func newTurnFSM() (*turnFSM, error) {
	builder := statekit.NewMachine[turnContext]("agent-turn").
		WithInitial(statekit.StateID(stateAwaitingIntent)).
		WithContext(turnContext{})

	builder.State(stateAwaitingIntent).
		On(eventAdd).Target(stateAddTask).
		On(eventComplete).Target(stateCompleteByID).
		On(eventList).Target(stateListTasks).
		On(eventSuggest).Target(stateSuggest).
		On(eventGreet).Target(stateGreet).
		On(eventGoodbye).Target(stateGoodbye).
		On(eventUnknown).Target(stateUnknown).
		On(eventFail).Target(stateError).
		Done()

	// Successful mutations chain into a suggestion; failures never do
	builder.State(stateAddTask).
		On(eventChainSuggest).Target(stateSuggest).
		On(eventFail).Target(stateError).
		Done()

	// A fragment with no match formats a not-found response directly;
	// an unknown or already-completed id is an error terminal
	builder.State(stateCompleteByID).
		On(eventChainSuggest).Target(stateSuggest).
		On(eventFormat).Target(stateFormat).
		On(eventFail).Target(stateError).
		Done()

	builder.State(stateListTasks).
		On(eventFormat).Target(stateFormat).
		Done()

	builder.State(stateSuggest).
		On(eventFormat).Target(stateFormat).
		Done()

	builder.State(stateGreet).
		On(eventFormat).Target(stateFormat).
		Done()

	builder.State(stateGoodbye).
		On(eventFormat).Target(stateFormat).
		Done()

	builder.State(stateUnknown).
		On(eventFormat).Target(stateFormat).
		Done()

	builder.State(stateError).
		On(eventFormat).Target(stateFormat).
		Done()

	builder.State(stateFormat).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build turn state machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &turnFSM{interpreter: interpreter}, nil
}

// Transition attempts to advance the turn. The interpreter leaves the state
// unchanged when no transition matches, which we surface as an error.
func (f *turnFSM) Transition(event string) error {
	before := f.Current()
	f.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	after := f.Current()

	if before == after {
		return fmt.Errorf("illegal turn transition %q from state %q", event, before)
	}
	return nil
}

// Current returns the current turn state
func (f *turnFSM) Current() string {
	return string(f.interpreter.State().Value)
}
