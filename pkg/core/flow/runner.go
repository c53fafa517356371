package flow

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"
)

// DefaultErrorClearDelay is how long a transient error stays visible before
// the machine dismisses it on its own.
const DefaultErrorClearDelay = 3 * time.Second

// Gateway persists one section's answers and reports success or failure. The
// machine treats any error as failure and does not interpret its shape.
type Gateway interface {
	SubmitSection(ctx context.Context, sectionLabel string, answers Answers) error
}

// GatewayFunc adapts a plain function to the Gateway interface.
type GatewayFunc func(ctx context.Context, sectionLabel string, answers Answers) error

// SubmitSection implements Gateway.
func (f GatewayFunc) SubmitSection(ctx context.Context, sectionLabel string, answers Answers) error {
	return f(ctx, sectionLabel, answers)
}

// Observer receives every event together with the state and context that
// resulted from it. It is a debugging hook and must not perform side effects
// the machine depends on.
type Observer func(ev Event, state State, c Context)

// Runner drives the pure transition function for one survey session: it
// serializes events, executes the side effects transitions request, keeps at
// most one submission in flight and owns the self-cancelling timer behind the
// timed error dismissal.
type Runner struct {
	mu         sync.Mutex
	state      State
	ctx        Context
	gateway    Gateway
	snapshots  *Snapshots
	observer   Observer
	redirect   func()
	scroll     func()
	clearDelay time.Duration
	errTimer   *time.Timer
	errGen     uint64
}

// Option configures a Runner.
type Option func(*Runner)

// WithGateway sets the submission gateway invoked when a section is finished.
func WithGateway(g Gateway) Option {
	return func(r *Runner) { r.gateway = g }
}

// WithSnapshots sets the durable snapshot adapter used to persist and resume
// progress.
func WithSnapshots(s *Snapshots) Option {
	return func(r *Runner) { r.snapshots = s }
}

// WithObserver sets the inspection hook.
func WithObserver(o Observer) Option {
	return func(r *Runner) { r.observer = o }
}

// WithRedirect sets the external navigation callback fired on completion.
func WithRedirect(fn func()) Option {
	return func(r *Runner) { r.redirect = fn }
}

// WithScroll sets the scroll-to-top callback fired when the machine moves to
// another question.
func WithScroll(fn func()) Option {
	return func(r *Runner) { r.scroll = fn }
}

// WithErrorClearDelay overrides the timed error dismissal delay.
func WithErrorClearDelay(d time.Duration) Option {
	return func(r *Runner) { r.clearDelay = d }
}

// NewRunner creates a runner positioned at the first visible question of the
// given survey.
func NewRunner(sections []Section, opts ...Option) *Runner {
	r := &Runner{
		state:      StateAnswering,
		ctx:        NewContext(sections),
		clearDelay: DefaultErrorClearDelay,
	}

	for _, opt := range opts {
		opt(r)
	}

	r.reposition()

	return r
}

// reposition aligns the current position with the visibility index. Used at
// start and after restoring a snapshot.
func (r *Runner) reposition() {
	r.ctx.VisibleSectionIdxs = VisibleSectionIndices(r.ctx.Sections, r.ctx.Answers)

	if len(r.ctx.VisibleSectionIdxs) == 0 {
		return
	}

	if !slices.Contains(r.ctx.VisibleSectionIdxs, r.ctx.CurrentSectionIdx) {
		r.ctx.CurrentSectionIdx = r.ctx.VisibleSectionIdxs[0]
		r.ctx.CurrentQuestionIdx = 0
	}

	sec := r.ctx.Section()
	if r.ctx.CurrentQuestionIdx < 0 || r.ctx.CurrentQuestionIdx >= len(sec.Questions) ||
		!Evaluate(sec.Questions[r.ctx.CurrentQuestionIdx].ShowIf, r.ctx.Answers) {
		if first, ok := FirstVisibleQuestion(sec, r.ctx.Answers); ok {
			r.ctx.CurrentQuestionIdx = first
		}
	}
}

// Start restores the session from its durable snapshot, if one exists and is
// still compatible with the loaded survey.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.snapshots == nil {
		return
	}

	snap, ok := r.snapshots.Load(ctx)
	if !ok {
		return
	}

	if snap.CurrentSectionIdx < 0 || snap.CurrentSectionIdx >= len(r.ctx.Sections) || snap.CurrentQuestionIdx < 0 {
		slog.WarnContext(ctx, "discarding snapshot with out-of-range position",
			slog.Int("section_idx", snap.CurrentSectionIdx),
			slog.Int("question_idx", snap.CurrentQuestionIdx),
		)

		return
	}

	if snap.Answers != nil {
		r.ctx.Answers = snap.Answers
	}

	r.ctx.CurrentSectionIdx = snap.CurrentSectionIdx
	r.ctx.CurrentQuestionIdx = snap.CurrentQuestionIdx
	r.reposition()
}

// Send processes one event to completion, including any submission it
// triggers, and returns the settled state and a copy of the context.
func (r *Runner) Send(ctx context.Context, ev Event) (State, Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Any event cancels a pending timed error dismissal.
	r.errGen++

	if r.errTimer != nil {
		r.errTimer.Stop()
		r.errTimer = nil
	}

	r.apply(ctx, ev)

	return r.state, cloneContext(r.ctx)
}

// State returns the current machine state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.state
}

// Context returns a copy of the current context.
func (r *Runner) Context() Context {
	r.mu.Lock()
	defer r.mu.Unlock()

	return cloneContext(r.ctx)
}

// Done reports whether the machine reached its terminal state.
func (r *Runner) Done() bool {
	return r.State() == StateComplete
}

// Stop cancels any pending timed dismissal. The runner must not be used
// afterwards.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.errGen++

	if r.errTimer != nil {
		r.errTimer.Stop()
		r.errTimer = nil
	}
}

func (r *Runner) apply(ctx context.Context, ev Event) {
	st, c, effects := Transition(r.state, r.ctx, ev)
	r.state, r.ctx = st, c

	if r.observer != nil {
		r.observer(ev, st, cloneContext(c))
	}

	for _, eff := range effects {
		r.execute(ctx, eff)
	}
}

func (r *Runner) execute(ctx context.Context, eff Effect) {
	switch eff.Type {
	case EffectSubmit:
		r.submit(ctx, eff)

	case EffectPersist:
		if r.snapshots != nil {
			r.snapshots.Save(ctx, r.ctx)
		}

	case EffectClearSnapshot:
		if r.snapshots != nil {
			r.snapshots.Clear(ctx)
		}

	case EffectScrollTop:
		if r.scroll != nil {
			r.scroll()
		}

	case EffectRedirect:
		if r.redirect != nil {
			r.redirect()
		}

	case EffectScheduleErrorClear:
		r.scheduleErrorClear()
	}
}

// submit invokes the gateway synchronously and feeds the outcome back into
// the machine. The submitting state rejects navigation input, so no second
// submission can start while this one is in flight.
func (r *Runner) submit(ctx context.Context, eff Effect) {
	if r.gateway == nil {
		r.apply(ctx, Event{Type: eventSubmitDone})
		return
	}

	if err := r.gateway.SubmitSection(ctx, eff.SectionLabel, eff.Answers); err != nil {
		slog.WarnContext(ctx, "section submission failed",
			slog.String("section", eff.SectionLabel),
			slog.Any("error", err),
		)

		r.apply(ctx, Event{Type: eventSubmitFailed})

		return
	}

	r.apply(ctx, Event{Type: eventSubmitDone})
}

// scheduleErrorClear arms the timed dismissal of the current error. The
// generation counter makes the timer self-cancelling: any event processed
// before it fires invalidates it, so a stale timer can never clear an error
// raised by a later transition.
func (r *Runner) scheduleErrorClear() {
	gen := r.errGen

	r.errTimer = time.AfterFunc(r.clearDelay, func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		if r.errGen != gen {
			return
		}

		r.errGen++
		r.apply(context.Background(), Event{Type: EventClearError})
	})
}

func cloneContext(c Context) Context {
	c.Answers = maps.Clone(c.Answers)
	c.VisibleSectionIdxs = slices.Clone(c.VisibleSectionIdxs)

	return c
}
