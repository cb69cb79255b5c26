// Package mutation implements the confirm-then-submit flow behind row
// actions such as "delete user" or "approve certificate".
//
// A Flow is a small state machine with a single owner per in-flight request:
//
//	Idle → Selected → Confirming → Submitting → Success → Idle
//	                                          ↘ Failed  → Confirming
//
// Selected/Confirming mean a record is chosen and its modal is open.
// Submitting disables every transition, so a second submit or a cancel
// cannot race the request in flight. Success clears the selection and
// notifies OnSuccess listeners (typically a query binding refresh). Failure
// keeps the modal open with the selection intact so the user can retry.
package mutation

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/dalemusser/recycleadmin/internal/app/system/apperr"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Action names a state-changing remote operation.
type Action string

const (
	ActionApprove    Action = "approve"
	ActionDisapprove Action = "disapprove"
	ActionDelete     Action = "delete"
)

// State is a Flow state.
type State int

const (
	Idle State = iota
	Selected
	Confirming
	Submitting
	Success
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Selected:
		return "selected"
	case Confirming:
		return "confirming"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

var (
	// ErrBusy is returned for any transition attempted while a request is in flight.
	ErrBusy = errors.New("a request is already in progress")
	// ErrNothingSelected is returned when an action needs a selected record.
	ErrNothingSelected = errors.New("no record selected")
	// ErrSelectionActive is returned by Select when a modal is already open.
	ErrSelectionActive = errors.New("another record is already selected")
)

// Request is one in-flight mutation.
type Request struct {
	ID       string
	TargetID string
	Action   Action
	Payload  map[string]string
}

// Executor performs the mutation against the data layer.
type Executor func(ctx context.Context, req Request) error

// Policy describes one kind of row action.
type Policy[T any] struct {
	Action Action

	// RequireReason demands non-blank free text before submitting.
	RequireReason bool
	// RequireAck demands an explicit confirmation before submitting.
	RequireAck bool

	// TargetID extracts the record id. Required.
	TargetID func(T) string
	// Guard rejects records that may not enter the flow at all.
	Guard func(T) error
	// Payload builds the request payload. Defaults to {"reason": input}
	// when RequireReason is set.
	Payload func(rec T, input string) map[string]string

	// FailureMessage is shown when the executor's error has no message.
	FailureMessage string
}

// Snapshot is a point-in-time view of a Flow for rendering.
type Snapshot[T any] struct {
	State        State
	Selected     *T
	ModalOpen    bool
	Input        string
	Acknowledged bool
	CanSubmit    bool
	Err          error
	ErrMessage   string
	LastOutcome  State // Success or Failed after a submit, Idle before any
	LastRequest  *Request
}

// Flow is safe for concurrent use.
type Flow[T any] struct {
	policy Policy[T]
	exec   Executor
	log    *zap.Logger

	mu        sync.Mutex
	state     State
	selected  *T
	input     string
	acked     bool
	err       error
	outcome   State
	lastReq   *Request
	onSuccess []func(Request)
}

// New returns an idle Flow.
func New[T any](p Policy[T], exec Executor, log *zap.Logger) *Flow[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Flow[T]{policy: p, exec: exec, log: log}
}

// Policy returns the flow's policy.
func (f *Flow[T]) Policy() Policy[T] { return f.policy }

// OnSuccess registers fn to run after every successful submit.
func (f *Flow[T]) OnSuccess(fn func(Request)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onSuccess = append(f.onSuccess, fn)
}

// CanSelect reports whether rec passes the policy guard. Views use it to
// disable the row control.
func (f *Flow[T]) CanSelect(rec T) bool {
	return f.policy.Guard == nil || f.policy.Guard(rec) == nil
}

// Select opens the modal for rec. It is only allowed from Idle; callers that
// want to replace an abandoned selection Cancel first.
func (f *Flow[T]) Select(rec T) error {
	if f.policy.Guard != nil {
		if err := f.policy.Guard(rec); err != nil {
			return err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.state {
	case Submitting:
		return ErrBusy
	case Selected, Confirming:
		return ErrSelectionActive
	}
	r := rec
	f.selected = &r
	f.input = ""
	f.acked = false
	f.err = nil
	f.state = Selected
	return nil
}

// SetInput records the free-text input (e.g. the delete reason).
func (f *Flow[T]) SetInput(s string) error {
	return f.confirming(func() { f.input = s })
}

// Acknowledge records the explicit confirmation.
func (f *Flow[T]) Acknowledge() error {
	return f.confirming(func() { f.acked = true })
}

func (f *Flow[T]) confirming(fn func()) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.state {
	case Submitting:
		return ErrBusy
	case Selected, Confirming:
		fn()
		f.state = Confirming
		return nil
	default:
		return ErrNothingSelected
	}
}

// Cancel closes the modal and drops the selection. It fails while a request
// is in flight.
func (f *Flow[T]) Cancel() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == Submitting {
		return ErrBusy
	}
	f.clearLocked()
	return nil
}

// Submit validates the collected input and, if it passes, runs the executor.
//
// Validation failures return an apperr validation error without issuing a
// request. On executor failure the flow returns to Confirming with the
// selection kept and the error recorded.
func (f *Flow[T]) Submit(ctx context.Context) (Request, error) {
	f.mu.Lock()
	if f.state == Submitting {
		f.mu.Unlock()
		return Request{}, ErrBusy
	}
	if f.selected == nil || (f.state != Selected && f.state != Confirming) {
		f.mu.Unlock()
		return Request{}, ErrNothingSelected
	}
	if err := f.validateLocked(); err != nil {
		f.state = Confirming
		f.err = err
		f.mu.Unlock()
		return Request{}, err
	}

	req := Request{
		ID:       uuid.NewString(),
		TargetID: f.policy.TargetID(*f.selected),
		Action:   f.policy.Action,
		Payload:  f.payloadLocked(),
	}
	f.state = Submitting
	f.err = nil
	f.lastReq = &req
	f.mu.Unlock()

	f.log.Debug("mutation submitted",
		zap.String("request_id", req.ID),
		zap.String("action", string(req.Action)),
		zap.String("target_id", req.TargetID))

	err := f.exec(ctx, req)

	f.mu.Lock()
	if err != nil {
		f.outcome = Failed
		f.err = err
		f.state = Confirming
		f.mu.Unlock()
		f.log.Warn("mutation failed",
			zap.String("request_id", req.ID),
			zap.String("action", string(req.Action)),
			zap.String("target_id", req.TargetID),
			zap.Error(err))
		return req, err
	}

	f.outcome = Success
	f.clearLocked()
	listeners := slices.Clone(f.onSuccess)
	f.mu.Unlock()

	for _, fn := range listeners {
		fn(req)
	}
	return req, nil
}

// Snapshot returns the current state.
func (f *Flow[T]) Snapshot() Snapshot[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := Snapshot[T]{
		State:        f.state,
		Selected:     f.selected,
		ModalOpen:    f.selected != nil,
		Input:        f.input,
		Acknowledged: f.acked,
		CanSubmit:    f.canSubmitLocked(),
		Err:          f.err,
		LastOutcome:  f.outcome,
		LastRequest:  f.lastReq,
	}
	if f.err != nil {
		s.ErrMessage = apperr.Message(f.err, f.policy.FailureMessage)
	}
	return s
}

// CanSubmit reports whether the confirm control should be enabled.
func (f *Flow[T]) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canSubmitLocked()
}

func (f *Flow[T]) canSubmitLocked() bool {
	if f.state != Selected && f.state != Confirming {
		return false
	}
	return f.validateLocked() == nil
}

func (f *Flow[T]) validateLocked() error {
	if f.policy.RequireReason && strings.TrimSpace(f.input) == "" {
		return apperr.Validation("Please provide a reason.")
	}
	if f.policy.RequireAck && !f.acked {
		return apperr.Validation("Please confirm this action.")
	}
	return nil
}

func (f *Flow[T]) payloadLocked() map[string]string {
	if f.policy.Payload != nil {
		return f.policy.Payload(*f.selected, f.input)
	}
	if f.policy.RequireReason {
		return map[string]string{"reason": strings.TrimSpace(f.input)}
	}
	return map[string]string{}
}

func (f *Flow[T]) clearLocked() {
	f.selected = nil
	f.input = ""
	f.acked = false
	f.err = nil
	f.state = Idle
}
