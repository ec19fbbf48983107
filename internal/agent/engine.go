package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/taskpilot/taskpilot/internal/models"
	"github.com/taskpilot/taskpilot/internal/scheduler"
	"github.com/taskpilot/taskpilot/internal/services/classifier"
	"github.com/taskpilot/taskpilot/internal/storage"
	"github.com/taskpilot/taskpilot/internal/validation"
	"go.uber.org/zap"
)

// DefaultClassifyTimeout bounds the external classifier call; expiry is
// treated like any other classifier failure
const DefaultClassifyTimeout = 15 * time.Second

// Options tunes an Engine. Zero values fall back to sensible defaults.
type Options struct {
	WorkdayEnd      scheduler.WorkdayEnd
	ClassifyTimeout time.Duration
	Clock           func() time.Time
	Logger          *zap.Logger
}

// Engine is the intent state machine. It owns the in-process task and event
// collections, loads them once at construction, and persists after every
// mutation. Turns are strictly sequential: a single mutex serializes them,
// since both read-then-append and read-then-flip-flag are not atomic.
type Engine struct {
	mu         sync.Mutex
	store      storage.Store
	classifier classifier.Classifier
	tasks      []models.Task
	events     []models.CalendarEvent
	workdayEnd scheduler.WorkdayEnd
	timeout    time.Duration
	now        func() time.Time
	logger     *zap.Logger
}

// NewEngine loads state from the store and returns a ready engine.
// cls may be nil; free-text turns then fail with a configuration error
// while direct commands keep working.
func NewEngine(ctx context.Context, store storage.Store, cls classifier.Classifier, opts Options) (*Engine, error) {
	tasks, err := store.LoadTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	events, err := store.LoadEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	workdayEnd := opts.WorkdayEnd
	if workdayEnd == (scheduler.WorkdayEnd{}) {
		workdayEnd = scheduler.DefaultWorkdayEnd
	}
	timeout := opts.ClassifyTimeout
	if timeout <= 0 {
		timeout = DefaultClassifyTimeout
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		store:      store,
		classifier: cls,
		tasks:      tasks,
		events:     events,
		workdayEnd: workdayEnd,
		timeout:    timeout,
		now:        clock,
		logger:     logger,
	}, nil
}

// HandleMessage processes one free-text turn and returns the response plus
// whether an error occurred. Errors never escape as Go errors; they are
// folded into the response string.
func (e *Engine) HandleMessage(ctx context.Context, text string) (string, bool) {
	st := &State{Input: validation.SanitizeText(text)}
	return e.runTurn(ctx, st)
}

// CompleteTask processes a direct completion command, bypassing
// classification entirely.
func (e *Engine) CompleteTask(ctx context.Context, id uuid.UUID) (string, bool) {
	taskID := id
	st := &State{CompleteID: &taskID, Intent: models.IntentCompleteByID}
	return e.runTurn(ctx, st)
}

// Suggest computes the next free slot and the best-fitting task without
// going through the classifier. Used by the CLI and the suggestion endpoint.
func (e *Engine) Suggest(ctx context.Context) (string, bool) {
	st := &State{Intent: models.IntentSuggestTask}
	return e.runTurn(ctx, st)
}

// runTurn walks one State through the machine: route, act, format
func (e *Engine) runTurn(ctx context.Context, st *State) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	fsm, err := newTurnFSM()
	if err != nil {
		// Machine construction only fails on a programming error
		st.Intent = models.IntentError
		st.Err = err.Error()
		return FormatResponse(st), true
	}

	e.route(ctx, st, fsm)

	if fsm.Current() != stateFormat {
		if err := fsm.Transition(eventFormat); err != nil {
			e.logger.Error("turn_transition_failed", zap.Error(err), zap.String("state", fsm.Current()))
		}
	}

	response := FormatResponse(st)
	e.logger.Info("turn_completed",
		zap.String("intent", string(st.Intent)),
		zap.Bool("had_error", st.Err != ""),
		zap.Int("response_length", len(response)),
	)
	return response, st.Err != ""
}

// route determines the intent and executes the matching node
func (e *Engine) route(ctx context.Context, st *State, fsm *turnFSM) {
	// Direct completion requests skip classification
	if st.CompleteID != nil {
		st.Intent = models.IntentCompleteByID
		if err := fsm.Transition(eventComplete); err != nil {
			e.failTurn(st, fsm, err.Error())
			return
		}
		e.completeByID(ctx, st, fsm)
		return
	}

	// Direct suggestion requests (CLI, suggestion endpoint) also skip it
	if st.Intent == models.IntentSuggestTask && st.Input == "" {
		_ = fsm.Transition(eventSuggest)
		e.suggest(st, "")
		return
	}

	result, err := e.classify(ctx, st.Input)
	if err != nil {
		e.logger.Warn("classifier_failure", zap.Error(err))
		st.Intent = models.IntentError
		st.Err = fmt.Sprintf("I couldn't understand that request (%v)", err)
		_ = fsm.Transition(eventFail)
		return
	}

	st.Intent = result.Intent
	st.Draft = result.Task
	st.Fragment = result.Match

	switch result.Intent {
	case models.IntentAddTask:
		if err := fsm.Transition(eventAdd); err != nil {
			e.failTurn(st, fsm, err.Error())
			return
		}
		e.addTask(ctx, st, fsm)
	case models.IntentCompleteTask:
		e.resolveFragment(ctx, st, fsm)
	case models.IntentListTasks:
		_ = fsm.Transition(eventList)
		e.listTasks(st)
	case models.IntentSuggestTask:
		_ = fsm.Transition(eventSuggest)
		e.suggest(st, "")
	case models.IntentGreet:
		_ = fsm.Transition(eventGreet)
	case models.IntentGoodbye:
		_ = fsm.Transition(eventGoodbye)
	default:
		_ = fsm.Transition(eventUnknown)
		st.Intent = models.IntentUnknown
	}
}

// classify calls the external classifier under a timeout and re-validates
// its output. A classifier that claims add_task and omits fields must fail
// here, before any mutation.
func (e *Engine) classify(ctx context.Context, text string) (*classifier.Result, error) {
	if e.classifier == nil {
		return nil, classifier.ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	result, err := e.classifier.Classify(ctx, text, e.now())
	if err != nil {
		return nil, err
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return result, nil
}

// addTask appends a new task and chains into a suggestion
func (e *Engine) addTask(ctx context.Context, st *State, fsm *turnFSM) {
	task := models.NewTask(st.Draft.Description, st.Draft.Priority, st.Draft.EstimatedMinutes, e.now())
	if err := validation.ValidateTask(task); err != nil {
		e.failTurn(st, fsm, fmt.Sprintf("could not create that task: %v", err))
		return
	}

	updated := append(e.snapshotTasks(), *task)
	if err := e.store.SaveTasks(ctx, updated); err != nil {
		e.logger.Error("save_tasks_failed", zap.Error(err))
		e.failTurn(st, fsm, "could not save the new task, please try again")
		return
	}
	e.tasks = updated

	e.logger.Info("task_added",
		zap.String("task_id", task.ID.String()),
		zap.Int("priority", task.Priority),
		zap.Int("estimated_minutes", task.EstimatedMinutes),
	)

	st.Response = fmt.Sprintf("Added %s.", task.Label())
	if err := fsm.Transition(eventChainSuggest); err != nil {
		e.failTurn(st, fsm, err.Error())
		return
	}
	e.suggest(st, st.Response)
}

// resolveFragment rewrites a complete_task fragment to a concrete id. The
// first incomplete task whose description contains the fragment wins, case
// insensitively, in list order.
func (e *Engine) resolveFragment(ctx context.Context, st *State, fsm *turnFSM) {
	if err := fsm.Transition(eventComplete); err != nil {
		e.failTurn(st, fsm, err.Error())
		return
	}

	fragment := strings.ToLower(st.Fragment)
	for i := range e.tasks {
		if e.tasks[i].Completed {
			continue
		}
		if strings.Contains(strings.ToLower(e.tasks[i].Description), fragment) {
			id := e.tasks[i].ID
			st.Intent = models.IntentCompleteByID
			st.CompleteID = &id
			e.completeByID(ctx, st, fsm)
			return
		}
	}

	// No match is a plain not-found response, not an error terminal, and
	// it never chains into a suggestion
	st.Response = fmt.Sprintf("I couldn't find a pending task matching %q.", st.Fragment)
	_ = fsm.Transition(eventFormat)
}

// completeByID marks a task completed and chains into a suggestion
func (e *Engine) completeByID(ctx context.Context, st *State, fsm *turnFSM) {
	idx := -1
	for i := range e.tasks {
		if e.tasks[i].ID == *st.CompleteID && !e.tasks[i].Completed {
			idx = i
			break
		}
	}
	if idx == -1 {
		e.failTurn(st, fsm, fmt.Sprintf("%v: %s", ErrTaskNotFound, st.CompleteID))
		return
	}

	updated := e.snapshotTasks()
	updated[idx].MarkCompleted()
	if err := e.store.SaveTasks(ctx, updated); err != nil {
		e.logger.Error("save_tasks_failed", zap.Error(err))
		e.failTurn(st, fsm, "could not save the completion, please try again")
		return
	}
	e.tasks = updated

	completed := updated[idx]
	e.logger.Info("task_completed", zap.String("task_id", completed.ID.String()))

	// Success clears any pending identifier and stale error before chaining
	st.CompleteID = nil
	st.Err = ""
	st.Response = fmt.Sprintf("Marked %q as completed.", completed.Description)

	if err := fsm.Transition(eventChainSuggest); err != nil {
		e.failTurn(st, fsm, err.Error())
		return
	}
	e.suggest(st, st.Response)
}

// listTasks renders the pending list, priority first then oldest first
func (e *Engine) listTasks(st *State) {
	pending := scheduler.SortForListing(e.tasks)
	if len(pending) == 0 {
		st.Response = "Your task list is empty."
		return
	}

	var b strings.Builder
	b.WriteString("Here's what's pending:\n")
	for _, t := range pending {
		b.WriteString("- ")
		b.WriteString(t.Label())
		b.WriteString("\n")
	}
	st.Response = strings.TrimRight(b.String(), "\n")
}

// suggest computes the next slot, runs the selector, and writes the
// suggestion message. prefix carries the response of a chained mutation.
func (e *Engine) suggest(st *State, prefix string) {
	now := e.now()
	slot := scheduler.NextSlot(now, e.events, e.workdayEnd)
	st.Slot = &slot

	task, outcome := scheduler.SelectBestTask(slot.FreeMinutes, e.tasks)

	var msg string
	switch outcome {
	case scheduler.SelectionBelowThreshold:
		msg = fmt.Sprintf("You have %d free minutes (%s). Not enough time for most tasks, take a breather.",
			slot.FreeMinutes, slot.Reason)
	case scheduler.SelectionNoTasks:
		msg = fmt.Sprintf("You have %s free (%s), and your task list is empty. Enjoy it!",
			models.FormatMinutes(slot.FreeMinutes), slot.Reason)
	case scheduler.SelectionNoneFit:
		msg = fmt.Sprintf("You have %s free (%s), but nothing on your list fits that window. Consider adding a smaller task.",
			models.FormatMinutes(slot.FreeMinutes), slot.Reason)
	case scheduler.SelectionMade:
		st.Suggestion = task
		msg = fmt.Sprintf("You have %s free until %s (%s). Best pick: %s.",
			models.FormatMinutes(slot.FreeMinutes),
			slot.FreeUntil.Format("15:04"),
			slot.Reason,
			task.Label())
		e.logger.Info("suggestion_made",
			zap.String("task_id", task.ID.String()),
			zap.Int("free_minutes", slot.FreeMinutes),
		)
	}

	if prefix != "" {
		st.Response = prefix + "\n" + msg
	} else {
		st.Response = msg
	}
}

// failTurn records an error terminal; chaining stops here
func (e *Engine) failTurn(st *State, fsm *turnFSM, detail string) {
	st.Intent = models.IntentError
	st.Err = detail
	_ = fsm.Transition(eventFail)
}

// snapshotTasks copies the task list so a failed save never leaves the
// in-memory collection half-mutated
func (e *Engine) snapshotTasks() []models.Task {
	tasks := make([]models.Task, len(e.tasks))
	copy(tasks, e.tasks)
	return tasks
}

// Tasks returns a copy of the current task list in append order
func (e *Engine) Tasks() []models.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotTasks()
}

// Events returns a copy of the current calendar
func (e *Engine) Events() []models.CalendarEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	events := make([]models.CalendarEvent, len(e.events))
	copy(events, e.events)
	return events
}

// AddTask appends a task directly, bypassing classification. Used by the
// HTTP task endpoint and the CLI.
func (e *Engine) AddTask(ctx context.Context, description string, priority, estimatedMinutes int) (*models.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	task := models.NewTask(validation.SanitizeText(description), priority, estimatedMinutes, e.now())
	if err := validation.ValidateTask(task); err != nil {
		return nil, err
	}

	updated := append(e.snapshotTasks(), *task)
	if err := e.store.SaveTasks(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to save tasks: %w", err)
	}
	e.tasks = updated

	e.logger.Info("task_added", zap.String("task_id", task.ID.String()))
	return task, nil
}

// AddEvent appends a calendar event and persists the collection
func (e *Engine) AddEvent(ctx context.Context, event models.CalendarEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	updated := make([]models.CalendarEvent, len(e.events), len(e.events)+1)
	copy(updated, e.events)
	updated = append(updated, event)

	if err := e.store.SaveEvents(ctx, updated); err != nil {
		return fmt.Errorf("failed to save events: %w", err)
	}
	e.events = updated

	e.logger.Info("event_added", zap.String("summary", event.Summary))
	return nil
}
