package application

import (
	"context"
	"sync"
	"time"

	"invitefeed/internal/domain"
	"invitefeed/internal/domain/entities"
)

// SwipeState is the lifecycle of one feed card under a drag gesture.
type SwipeState int

const (
	SwipeIdle SwipeState = iota
	SwipeDragging
	SwipeSnappingBack
	SwipeExiting
	SwipeCollapsing
)

func (s SwipeState) String() string {
	switch s {
	case SwipeDragging:
		return "dragging"
	case SwipeSnappingBack:
		return "snapping_back"
	case SwipeExiting:
		return "exiting"
	case SwipeCollapsing:
		return "collapsing"
	default:
		return "idle"
	}
}

// SwipeAction is what a completed drag asks for.
type SwipeAction int

const (
	SwipeNone SwipeAction = iota
	SwipeJoin
	SwipeLeave
	SwipeHide
)

func (a SwipeAction) String() string {
	switch a {
	case SwipeJoin:
		return "join"
	case SwipeLeave:
		return "leave"
	case SwipeHide:
		return "hide"
	default:
		return "none"
	}
}

// Gesture defaults.
const (
	SwipeThreshold   = 100.0
	CardWidth        = 420.0
	SlideDuration    = 200 * time.Millisecond
	CollapseDuration = 250 * time.Millisecond
	SnapBackDuration = 150 * time.Millisecond
)

// Clock schedules the animation phases. Tests swap in a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type Timer interface {
	Stop() bool
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// SystemClock runs phases on real timers.
var SystemClock Clock = systemClock{}

// SwipeHandlers are the membership mutations a card can trigger. OnError
// and OnRemoved are optional.
type SwipeHandlers struct {
	Join  func(ctx context.Context) error
	Leave func(ctx context.Context) error
	Hide  func(ctx context.Context) error

	OnError   func(action SwipeAction, err error)
	OnRemoved func(action SwipeAction)
}

type SwipeConfig struct {
	Threshold        float64
	CardWidth        float64
	SlideDuration    time.Duration
	CollapseDuration time.Duration
	SnapBackDuration time.Duration
}

func DefaultSwipeConfig() SwipeConfig {
	return SwipeConfig{
		Threshold:        SwipeThreshold,
		CardWidth:        CardWidth,
		SlideDuration:    SlideDuration,
		CollapseDuration: CollapseDuration,
		SnapBackDuration: SnapBackDuration,
	}
}

// SwipeCard turns horizontal drags on one feed card into join/leave/hide.
//
// A committed action either exits the card (slide off-screen, then collapse)
// when it removes the card from the active bucket, or runs the mutation at
// once and snaps back when the card stays visible. For exiting actions the
// mutation runs once, after the slide; a failed mutation snaps the card back
// instead of collapsing it.
type SwipeCard struct {
	ctx      context.Context
	cfg      SwipeConfig
	clock    Clock
	handlers SwipeHandlers
	relation entities.Relation
	bucket   entities.Bucket

	mu      sync.Mutex
	state   SwipeState
	originX float64
	offset  float64
	height  float64 // 1 = full card, 0 = collapsed
	action  SwipeAction
	gen     int
	timer   Timer
}

func NewSwipeCard(ctx context.Context, relation entities.Relation, bucket entities.Bucket, handlers SwipeHandlers, clock Clock, cfg SwipeConfig) *SwipeCard {
	if clock == nil {
		clock = SystemClock
	}
	return &SwipeCard{
		ctx:      ctx,
		cfg:      cfg,
		clock:    clock,
		handlers: handlers,
		relation: relation,
		bucket:   bucket,
		height:   1,
	}
}

// DragStart begins a gesture at horizontal position x. Hosts cannot swipe
// their own card, and a card that is still animating ignores new drags.
func (c *SwipeCard) DragStart(x float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.relation == entities.RelationHost || c.state != SwipeIdle {
		return domain.ErrSwipeRejected
	}
	c.state = SwipeDragging
	c.originX = x
	c.offset = 0
	c.action = SwipeNone
	return nil
}

// DragMove tracks the pointer 1:1. Attending viewers can only drag left.
func (c *SwipeCard) DragMove(x float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != SwipeDragging {
		return
	}
	dx := x - c.originX
	if dx > 0 && c.relation == entities.RelationParticipant {
		dx = 0
	}
	c.offset = dx
}

// DragEnd resolves the gesture and returns the action it committed to.
func (c *SwipeCard) DragEnd() SwipeAction {
	c.mu.Lock()
	if c.state != SwipeDragging {
		c.mu.Unlock()
		return SwipeNone
	}

	action := c.resolveLocked()
	c.action = action
	switch {
	case action == SwipeNone:
		c.snapBackLocked()
		c.mu.Unlock()
		return SwipeNone
	case c.exitsLocked(action):
		c.state = SwipeExiting
		if c.offset > 0 {
			c.offset = c.cfg.CardWidth
		} else {
			c.offset = -c.cfg.CardWidth
		}
		c.scheduleLocked(c.cfg.SlideDuration, c.slideDone)
		c.mu.Unlock()
		return action
	default:
		c.snapBackLocked()
		c.mu.Unlock()
		if err := c.run(action); err != nil {
			c.reportError(action, err)
			return action
		}
		c.mu.Lock()
		c.applyRelationLocked(action)
		c.mu.Unlock()
		return action
	}
}

// applyRelationLocked records the viewer's relation after a successful
// mutation; the card may stay on screen and the next drag depends on it.
func (c *SwipeCard) applyRelationLocked(action SwipeAction) {
	switch action {
	case SwipeJoin:
		c.relation = entities.RelationParticipant
	case SwipeLeave:
		c.relation = entities.RelationNone
	}
}

// Relation is the viewer's relation to the event as the card knows it.
func (c *SwipeCard) Relation() entities.Relation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.relation
}

func (c *SwipeCard) resolveLocked() SwipeAction {
	switch {
	case c.offset > c.cfg.Threshold && c.relation != entities.RelationParticipant:
		return SwipeJoin
	case c.offset < -c.cfg.Threshold && c.relation == entities.RelationParticipant:
		return SwipeLeave
	case c.offset < -c.cfg.Threshold:
		return SwipeHide
	default:
		return SwipeNone
	}
}

// exitsLocked reports whether action takes the card out of the active view.
func (c *SwipeCard) exitsLocked(action SwipeAction) bool {
	switch action {
	case SwipeHide:
		return true
	case SwipeJoin:
		return c.bucket == entities.BucketPending
	case SwipeLeave:
		return c.bucket == entities.BucketAttending
	default:
		return false
	}
}

func (c *SwipeCard) slideDone(gen int) {
	c.mu.Lock()
	if gen != c.gen || c.state != SwipeExiting {
		c.mu.Unlock()
		return
	}
	action := c.action
	c.mu.Unlock()

	err := c.run(action)

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.snapBackLocked()
		c.mu.Unlock()
		c.reportError(action, err)
		return
	}
	c.applyRelationLocked(action)
	c.state = SwipeCollapsing
	c.scheduleLocked(c.cfg.CollapseDuration, c.collapseDone)
	c.mu.Unlock()
}

func (c *SwipeCard) collapseDone(gen int) {
	c.mu.Lock()
	if gen != c.gen || c.state != SwipeCollapsing {
		c.mu.Unlock()
		return
	}
	c.state = SwipeIdle
	c.height = 0
	action := c.action
	c.mu.Unlock()

	if c.handlers.OnRemoved != nil {
		c.handlers.OnRemoved(action)
	}
}

func (c *SwipeCard) snapBackLocked() {
	c.state = SwipeSnappingBack
	c.offset = 0
	c.scheduleLocked(c.cfg.SnapBackDuration, func(gen int) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen == c.gen && c.state == SwipeSnappingBack {
			c.state = SwipeIdle
		}
	})
}

func (c *SwipeCard) scheduleLocked(d time.Duration, f func(gen int)) {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	gen := c.gen
	c.timer = c.clock.AfterFunc(d, func() { f(gen) })
}

func (c *SwipeCard) run(action SwipeAction) error {
	var fn func(context.Context) error
	switch action {
	case SwipeJoin:
		fn = c.handlers.Join
	case SwipeLeave:
		fn = c.handlers.Leave
	case SwipeHide:
		fn = c.handlers.Hide
	}
	if fn == nil {
		return nil
	}
	return fn(c.ctx)
}

func (c *SwipeCard) reportError(action SwipeAction, err error) {
	if c.handlers.OnError != nil {
		c.handlers.OnError(action, err)
	}
}

// State returns the current phase.
func (c *SwipeCard) State() SwipeState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Offset is the horizontal translation to render.
func (c *SwipeCard) Offset() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offset
}

// Height is the rendered height fraction: 1 while visible, 0 once collapsed.
func (c *SwipeCard) Height() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height
}
