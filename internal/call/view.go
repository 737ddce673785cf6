package call

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"github.com/xpanvictor/callpad/pkg/Logger"
	"github.com/xpanvictor/callpad/pkg/voice"
)

var (
	ErrStartPending  = errors.New("call start already pending")
	ErrAlreadyActive = errors.New("call already active")
	ErrNotActive     = errors.New("no active call")
)

const (
	defaultStopTimeout = 5 * time.Second
	subscriberBuffer   = 8
)

// Status is a snapshot of the page state.
type Status struct {
	Active     bool      `json:"active"`
	Pending    bool      `json:"pending"`
	Phase      Phase     `json:"phase"`
	Text       string    `json:"text" example:"Call ended"`
	CallID     string    `json:"callId,omitempty"`
	WebCallURL string    `json:"webCallUrl,omitempty"`
	LastError  string    `json:"lastError,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// StartDisabled mirrors the page: start is off while a call is active or
// one is being set up.
func (s Status) StartDisabled() bool { return s.Active || s.Pending }

func (s Status) StopDisabled() bool { return !s.Active }

// View holds the one piece of page state, call-active, and the voice client
// that drives it. The flag is true only once a start request came back
// without error. Stop flips it to false before the stop request settles:
// the page reports "ended" optimistically and a failed stop is surfaced
// through LastError instead of keeping the call marked active.
type View struct {
	client      voice.Client
	assistantID string
	stopTimeout time.Duration
	logger      *Logger.Logger

	machine *fsm.FSM

	mu          sync.RWMutex
	call        *voice.Call
	lastError   string
	updatedAt   time.Time
	subscribers map[uuid.UUID]chan Status
}

type Option func(*View)

func WithStopTimeout(d time.Duration) Option {
	return func(v *View) {
		if d > 0 {
			v.stopTimeout = d
		}
	}
}

func New(client voice.Client, assistantID string, logger *Logger.Logger, opts ...Option) *View {
	if logger == nil {
		logger = Logger.NewNop()
	}
	v := &View{
		client:      client,
		assistantID: assistantID,
		stopTimeout: defaultStopTimeout,
		logger:      logger,
		machine:     newMachine(),
		updatedAt:   time.Now(),
		subscribers: make(map[uuid.UUID]chan Status),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Active reports call-active.
func (v *View) Active() bool {
	return Phase(v.machine.Current()) == ACTIVE
}

func (v *View) Status() Status {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.snapshotLocked()
}

func (v *View) snapshotLocked() Status {
	phase := Phase(v.machine.Current())
	st := Status{
		Active:    phase == ACTIVE,
		Pending:   phase == STARTING,
		Phase:     phase,
		Text:      TextEnded,
		LastError: v.lastError,
		UpdatedAt: v.updatedAt,
	}
	if st.Active {
		st.Text = TextActive
	}
	if v.call != nil && st.Active {
		st.CallID = v.call.ID
		st.WebCallURL = v.call.WebCallURL
	}
	return st
}

// StartCall asks the service to start the configured assistant. While the
// request is in flight further starts are refused, so one click can only
// ever produce one external call.
func (v *View) StartCall(ctx context.Context) (Status, error) {
	if err := v.fire(START); err != nil {
		switch Phase(v.machine.Current()) {
		case STARTING:
			return v.Status(), ErrStartPending
		case ACTIVE:
			return v.Status(), ErrAlreadyActive
		}
		return v.Status(), fmt.Errorf("start call: %w", err)
	}
	v.update(func() { v.lastError = "" })

	call, err := v.client.Start(ctx, v.assistantID)
	if err != nil {
		v.logger.Errorf("start call for assistant %s failed: %v", v.assistantID, err)
		if ferr := v.fire(FAILED); ferr != nil {
			v.logger.Errorf("call state after failed start: %v", ferr)
		}
		v.update(func() { v.lastError = err.Error() })
		return v.Status(), fmt.Errorf("start call: %w", err)
	}

	v.update(func() { v.call = call })
	if err := v.fire(STARTED); err != nil {
		return v.Status(), fmt.Errorf("start call: %w", err)
	}
	v.update(nil)
	v.logger.Infof("call %s in progress", call.ID)
	return v.Status(), nil
}

// StopCall marks the call ended at once, then waits (bounded) for the
// service to confirm. A stop error is returned alongside the ended status.
func (v *View) StopCall(ctx context.Context) (Status, error) {
	if err := v.fire(STOP); err != nil {
		if Phase(v.machine.Current()) != ACTIVE {
			return v.Status(), ErrNotActive
		}
		return v.Status(), fmt.Errorf("stop call: %w", err)
	}

	var callID string
	v.update(func() {
		if v.call != nil {
			callID = v.call.ID
		}
		v.call = nil
		v.lastError = ""
	})

	stopCtx, cancel := context.WithTimeout(ctx, v.stopTimeout)
	defer cancel()
	if err := v.client.Stop(stopCtx); err != nil {
		v.logger.Errorf("stop call %s failed: %v", callID, err)
		v.update(func() { v.lastError = err.Error() })
		return v.Status(), fmt.Errorf("stop call: %w", err)
	}
	v.logger.Infof("call %s ended", callID)
	return v.Status(), nil
}

// Shutdown ends the call for a process that is going away. A start still
// in flight is waited for (bounded by ctx) so it can't come up after the
// last chance to stop it.
func (v *View) Shutdown(ctx context.Context) (Status, error) {
	id, updates := v.Subscribe()
	defer v.Unsubscribe(id)

	for v.Status().Pending {
		select {
		case <-updates:
		case <-ctx.Done():
			v.logger.Warnf("call still starting at shutdown, it may be left running: %v", ctx.Err())
			return v.Status(), fmt.Errorf("wait for pending start: %w", ctx.Err())
		}
	}

	if !v.Active() {
		return v.Status(), nil
	}
	return v.StopCall(ctx)
}

// fire runs a transition. Transitions never use the request context: a
// cancelled request must still land the machine in a settled phase.
func (v *View) fire(ev Event) error {
	return v.machine.Event(context.Background(), string(ev))
}

// update applies fn under the lock, stamps the change and pushes the new
// snapshot to subscribers.
func (v *View) update(fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if fn != nil {
		fn()
	}
	v.updatedAt = time.Now()
	st := v.snapshotLocked()
	for id, ch := range v.subscribers {
		select {
		case ch <- st:
		default:
			v.logger.Debugf("subscriber %s is behind, dropping status update", id)
		}
	}
}

// Subscribe registers for status pushes. The channel is closed by
// Unsubscribe.
func (v *View) Subscribe() (uuid.UUID, <-chan Status) {
	id := uuid.New()
	ch := make(chan Status, subscriberBuffer)
	v.mu.Lock()
	v.subscribers[id] = ch
	v.mu.Unlock()
	return id, ch
}

func (v *View) Unsubscribe(id uuid.UUID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if ch, ok := v.subscribers[id]; ok {
		close(ch)
		delete(v.subscribers, id)
	}
}

func (v *View) SubscriberCount() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.subscribers)
}
