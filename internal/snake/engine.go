// Package snake implements the snake game engine: a tick-driven state
// machine that owns the board and publishes an immutable Snapshot after
// every change.
//
// Commands (Start, Pause, Resume, Reset, SetDirection, GameOver) and Tick
// are safe for concurrent use. Commands that do not apply to the current
// state are ignored rather than reported as errors, so input layers can
// issue them freely.
package snake

import (
	"io"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/gridsnake/internal/feed"
	"github.com/vovakirdan/gridsnake/internal/ticker"
)

// HighScoreStore persists the best score across runs.
// The engine only calls Set with a value greater than the one Get returned,
// but engines sharing a store race between the two calls, so Set must never
// lower the stored value.
type HighScoreStore interface {
	Get() (int, error)
	Set(value int) error
}

// Scheduler runs the periodic tick. Start must be a no-op while a schedule
// is active; Stop must be idempotent and safe to call from inside fn.
type Scheduler interface {
	Start(interval time.Duration, fn func()) bool
	Stop()
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for state transitions and store failures.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithScheduler replaces the default ticker.Driver.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) {
		if s != nil {
			e.sched = s
		}
	}
}

// WithRand sets the source used for food placement.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithSeed seeds food placement for reproducible runs.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}

// foodAttempts bounds rejection sampling before falling back to a scan of
// empty cells.
const foodAttempts = 64

// Engine is the authoritative game state machine.
type Engine struct {
	mu     sync.Mutex
	cfg    Config
	store  HighScoreStore
	sched  Scheduler
	rng    *rand.Rand
	logger *log.Logger
	feed   *feed.Publisher[Snapshot]

	snap Snapshot
	// current mirrors snap for lock-free reads, so observers called from
	// inside a publish can still ask for the state.
	current atomic.Pointer[Snapshot]
	// gen changes on every scheduler start/stop; a tick carrying an older
	// generation came from a cancelled schedule and is dropped.
	gen uint64
}

// New creates an engine in the Start state and publishes its first snapshot.
// store may be nil, in which case high scores live only in memory.
func New(cfg Config, store HighScoreStore, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:    cfg,
		store:  store,
		sched:  ticker.New(),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: log.New(io.Discard),
		feed:   feed.NewPublisher[Snapshot](),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.commit(e.freshSnapshot(e.loadHighScore()))
	return e, nil
}

// Config returns the engine's parameters.
func (e *Engine) Config() Config {
	return e.cfg
}

// Snapshot returns the current state. It takes no lock and may be called
// from feed listeners.
func (e *Engine) Snapshot() Snapshot {
	return *e.current.Load()
}

// Feed returns the publisher observers subscribe to. Listeners run while
// the engine is mid-update: they may call Snapshot and Config, but a
// command (Start, SetDirection, ...) from inside a listener deadlocks.
// Use a subscription to drive the engine from its own state.
func (e *Engine) Feed() *feed.Publisher[Snapshot] {
	return e.feed
}

// Close stops the tick schedule and ends every feed subscription.
func (e *Engine) Close() {
	e.mu.Lock()
	e.stopTicks()
	e.mu.Unlock()
	e.feed.Close()
}

// Start begins a fresh run. Only valid from StateStart.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.snap.State != StateStart {
		return
	}

	next := e.freshSnapshot(e.snap.HighScore)
	next.snake = startingSnake(e.cfg.GridSize)
	next.State = StatePlaying
	next.RunID = uuid.NewString()

	food, ok := e.placeFood(next.snake)
	if !ok {
		// A valid grid has at least four cells, so the two-cell starting
		// snake always leaves room; a full board is still treated as a win.
		next.Food = -1
		e.finish(next, true)
		return
	}
	next.Food = food

	e.logger.Debug("run started", "run", next.RunID, "head", next.Head(), "food", food)
	e.commit(next)
	e.startTicks(next.Speed)
}

// Pause suspends a run. Only valid from StatePlaying.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.snap.State != StatePlaying {
		return
	}
	e.stopTicks()

	next := e.snap
	next.State = StatePaused
	e.logger.Debug("paused", "run", next.RunID, "tick", next.Tick)
	e.commit(next)
}

// Resume continues a paused run at its current speed.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.snap.State != StatePaused {
		return
	}

	next := e.snap
	next.State = StatePlaying
	e.logger.Debug("resumed", "run", next.RunID, "speed", next.Speed)
	e.commit(next)
	e.startTicks(next.Speed)
}

// Reset abandons the current run and returns to StateStart, keeping the high score.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopTicks()

	high := max(e.snap.HighScore, e.loadHighScore())
	e.logger.Debug("reset", "from", e.snap.State, "highScore", high)
	e.commit(e.freshSnapshot(high))
}

// SetDirection changes the heading used by the next tick.
// Reversing onto the neck is ignored while the snake has more than one segment.
func (e *Engine) SetDirection(d Direction) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !d.Valid() {
		return
	}
	if len(e.snap.snake) > 1 && d == e.snap.Direction.Opposite() {
		return
	}

	next := e.snap
	next.Direction = d
	e.commit(next)
}

// GameOver ends the current run. Ignored when the run has already ended.
func (e *Engine) GameOver() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.finish(e.snap, false)
}

// Tick advances the simulation by one move. Ignored unless playing.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tick()
}

// scheduledTick is the scheduler callback for generation gen.
func (e *Engine) scheduledTick(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.gen {
		return
	}
	e.tick()
}

func (e *Engine) tick() {
	if e.snap.State != StatePlaying || len(e.snap.snake) == 0 {
		return
	}

	cur := e.snap
	head, ok := Step(cur.snake[0], cur.Direction, e.cfg.GridSize)
	if !ok {
		e.logger.Debug("wall collision", "run", cur.RunID, "head", cur.snake[0], "direction", cur.Direction)
		e.finish(cur, false)
		return
	}
	if cur.Occupies(head) {
		e.logger.Debug("self collision", "run", cur.RunID, "cell", head)
		e.finish(cur, false)
		return
	}

	next := cur
	next.Tick++
	body := make([]int, 0, len(cur.snake)+1)
	body = append(body, head)
	body = append(body, cur.snake...)

	if head != cur.Food {
		next.snake = body[:len(body)-1]
		e.commit(next)
		return
	}

	// Eat: keep the tail so the snake grows by one.
	next.snake = body
	next.Score += e.cfg.Bonus(cur.Speed)
	next.HighScore = max(next.HighScore, next.Score)
	speedChanged := e.increaseSpeed(&next)

	food, ok := e.placeFood(next.snake)
	if !ok {
		next.Food = -1
		e.finish(next, true)
		return
	}
	next.Food = food

	e.commit(next)
	if speedChanged {
		e.restartTicks(next.Speed)
	}
}

// increaseSpeed shortens the tick interval by one step, never below the floor.
func (e *Engine) increaseSpeed(s *Snapshot) bool {
	if s.Speed <= e.cfg.SpeedFloor || e.cfg.SpeedStep == 0 {
		return false
	}
	s.Speed = max(e.cfg.SpeedFloor, s.Speed-e.cfg.SpeedStep)
	return true
}

// finish moves from to StateGameOver, persists the score and publishes.
func (e *Engine) finish(from Snapshot, won bool) {
	if from.State == StateGameOver {
		return
	}
	e.stopTicks()

	next := from
	next.State = StateGameOver
	next.Won = won

	stored := e.loadHighScore()
	if next.Score > stored && e.store != nil {
		if err := e.store.Set(next.Score); err != nil {
			e.logger.Warn("could not save high score", "score", next.Score, "error", err)
		}
	}
	next.HighScore = max(next.HighScore, next.Score, stored)

	e.logger.Info("game over",
		"run", next.RunID,
		"score", next.Score,
		"length", next.Len(),
		"won", won,
		"highScore", next.HighScore,
	)
	e.commit(next)
}

// placeFood picks a random empty cell. ok is false when the snake fills the board.
func (e *Engine) placeFood(body []int) (int, bool) {
	cells := e.cfg.Cells()
	if len(body) >= cells {
		return -1, false
	}

	occupied := make([]bool, cells)
	for _, c := range body {
		occupied[c] = true
	}

	for range foodAttempts {
		c := e.rng.Intn(cells)
		if !occupied[c] {
			return c, true
		}
	}

	// Crowded board: choose uniformly among what is left.
	empty := make([]int, 0, cells-len(body))
	for c := range cells {
		if !occupied[c] {
			empty = append(empty, c)
		}
	}
	if len(empty) == 0 {
		return -1, false
	}
	return empty[e.rng.Intn(len(empty))], true
}

func (e *Engine) freshSnapshot(highScore int) Snapshot {
	return Snapshot{
		State:     StateStart,
		Direction: DirRight,
		Food:      -1,
		Speed:     e.cfg.BaseSpeed,
		HighScore: highScore,
		GridSize:  e.cfg.GridSize,
	}
}

func (e *Engine) loadHighScore() int {
	if e.store == nil {
		return 0
	}
	v, err := e.store.Get()
	if err != nil {
		e.logger.Warn("could not load high score", "error", err)
		return 0
	}
	return max(v, 0)
}

// commit replaces the current snapshot and publishes it. Called with e.mu
// held, which keeps publish order identical to mutation order.
func (e *Engine) commit(s Snapshot) {
	e.snap = s
	e.current.Store(&s)
	e.feed.Publish(s)
}

func (e *Engine) startTicks(interval time.Duration) {
	e.gen++
	gen := e.gen
	e.sched.Start(interval, func() { e.scheduledTick(gen) })
}

func (e *Engine) stopTicks() {
	e.gen++
	e.sched.Stop()
}

func (e *Engine) restartTicks(interval time.Duration) {
	e.stopTicks()
	e.startTicks(interval)
}
