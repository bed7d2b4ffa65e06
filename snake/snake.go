// Package snake is the single-player simulation: a snake moving on a
// wrap-around board, food that respawns on a timer, static obstacles and a
// movement interval that shrinks as the score grows.
//
// A Game is not safe for concurrent use. Callers drive it from one loop:
// input (ApplyDirection), then Tick, then read the accessors to render.
package snake

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/hoshinonyaruko/snake-in-grid/gate"
	"github.com/hoshinonyaruko/snake-in-grid/structs"
)

var (
	// ErrBoardFull means no empty cell is left to place an entity on.
	ErrBoardFull = errors.New("board full")
	// ErrInvalidSettings wraps every settings and snapshot validation failure.
	ErrInvalidSettings = errors.New("invalid settings")
)

// Settings are fixed for the lifetime of a game.
type Settings struct {
	Width       int
	Height      int
	FoodsCount  int
	FoodRespawn time.Duration
	// RespawnAll relocates every food slot on each respawn. When false only
	// eaten slots are refilled.
	RespawnAll bool
	Speed      Speed
	Obstacles  []structs.Placement
}

var DefaultSettings = Settings{
	Width:       30,
	Height:      30,
	FoodsCount:  1,
	FoodRespawn: 3 * time.Second,
	RespawnAll:  true,
	Speed:       DefaultSpeed,
	Obstacles:   DefaultObstacles,
}

// MaxSide bounds each board dimension so width*height stays small enough
// to scan.
const MaxSide = 1024

func (s Settings) Validate() error {
	switch {
	case s.Width < 1 || s.Height < 1 || s.Width > MaxSide || s.Height > MaxSide:
		return fmt.Errorf("%w: board %dx%d (sides 1..%d)", ErrInvalidSettings, s.Width, s.Height, MaxSide)
	case s.FoodsCount < 1 || s.FoodsCount > s.Width*s.Height:
		return fmt.Errorf("%w: foods count %d on %dx%d", ErrInvalidSettings, s.FoodsCount, s.Width, s.Height)
	case s.FoodRespawn <= 0:
		return fmt.Errorf("%w: food respawn %v", ErrInvalidSettings, s.FoodRespawn)
	case s.Speed.Min <= 0 || s.Speed.Max < s.Speed.Min || s.Speed.Step < 0:
		return fmt.Errorf("%w: speed %+v", ErrInvalidSettings, s.Speed)
	}
	return nil
}

// Option customises a new Game.
type Option func(*options)

type options struct {
	clock gate.Clock
	rng   *rand.Rand
}

// WithClock makes both gates read clock instead of the wall clock.
func WithClock(clock gate.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// WithRand sets the random source used for spawning.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// Game is the whole simulation state.
type Game struct {
	grid     Grid
	settings Settings
	rng      *rand.Rand

	moveGate *gate.Gate
	foodGate *gate.Gate

	body      []structs.Cell // 0为蛇尾，最后一个为蛇头
	dir       structs.Direction
	foods     []structs.Food
	obstacles []structs.Cell

	score    int
	interval time.Duration
	phase    structs.Phase
}

func newGame(s Settings, opts []Option) *Game {
	o := options{clock: gate.SystemClock{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Game{
		grid:     Grid{Width: s.Width, Height: s.Height},
		settings: s,
		rng:      o.rng,
		moveGate: gate.New(o.clock),
		foodGate: gate.New(o.clock),
		interval: Interval(0, s.Speed),
		phase:    structs.Idle,
	}
}

// New builds a game: obstacles from the layout, a one-cell snake on a
// random empty cell heading in a random direction, then FoodsCount foods.
func New(s Settings, opts ...Option) (*Game, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	g := newGame(s, opts)

	obstacles, err := ExpandLayout(g.grid, s.Obstacles)
	if err != nil {
		return nil, err
	}
	g.obstacles = obstacles

	start, err := g.RandomEmptyCell()
	if err != nil {
		return nil, fmt.Errorf("place snake: %w", err)
	}
	g.body = []structs.Cell{start}
	g.dir = structs.Direction(g.rng.Intn(4))

	g.foods = make([]structs.Food, s.FoodsCount)
	for i := range g.foods {
		c, err := g.RandomEmptyCell()
		if err != nil {
			// slot stays inactive until a cell frees up
			continue
		}
		g.foods[i] = structs.Food{Cell: c, Score: 1}
	}
	return g, nil
}

// Restore rebuilds a game from a snapshot. The board size and food count
// come from the snapshot; timing and speed come from s. Gates start fresh.
func Restore(s Settings, snap structs.Snapshot, opts ...Option) (*Game, error) {
	s.Width, s.Height = snap.Width, snap.Height
	if len(snap.Foods) > 0 {
		s.FoodsCount = len(snap.Foods)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if len(snap.Body) == 0 {
		return nil, fmt.Errorf("%w: empty snake", ErrInvalidSettings)
	}
	if snap.Direction < structs.Right || snap.Direction > structs.Down {
		return nil, fmt.Errorf("%w: direction %d", ErrInvalidSettings, int(snap.Direction))
	}
	g := newGame(s, opts)
	for _, c := range slices.Concat(snap.Body, snap.Obstacles) {
		if !g.grid.Contains(c) {
			return nil, fmt.Errorf("%w: cell %v outside %dx%d", ErrInvalidSettings, c, s.Width, s.Height)
		}
	}
	for _, f := range snap.Foods {
		if !g.grid.Contains(f.Cell) || f.Score < 0 {
			return nil, fmt.Errorf("%w: food %+v", ErrInvalidSettings, f)
		}
	}

	g.body = slices.Clone(snap.Body)
	g.dir = snap.Direction
	g.obstacles = slices.Clone(snap.Obstacles)
	g.foods = make([]structs.Food, s.FoodsCount)
	copy(g.foods, snap.Foods)
	g.score = snap.Score
	g.interval = Interval(snap.Score, s.Speed)
	g.phase = snap.Phase
	return g, nil
}

// Snapshot copies the current state.
func (g *Game) Snapshot() structs.Snapshot {
	return structs.Snapshot{
		Width:      g.grid.Width,
		Height:     g.grid.Height,
		Body:       g.Snake(),
		Direction:  g.dir,
		Foods:      g.Foods(),
		Obstacles:  g.Obstacles(),
		Score:      g.score,
		IntervalMS: g.interval.Milliseconds(),
		Phase:      g.phase,
	}
}

func (g *Game) Width() int                   { return g.grid.Width }
func (g *Game) Height() int                  { return g.grid.Height }
func (g *Game) Grid() Grid                   { return g.grid }
func (g *Game) Direction() structs.Direction { return g.dir }
func (g *Game) Score() int                   { return g.score }
func (g *Game) Interval() time.Duration      { return g.interval }
func (g *Game) Phase() structs.Phase         { return g.phase }
func (g *Game) Terminated() bool             { return g.phase == structs.Terminated }
func (g *Game) Len() int                     { return len(g.body) }

// Snake returns the body from tail to head.
func (g *Game) Snake() []structs.Cell { return slices.Clone(g.body) }

func (g *Game) Head() structs.Cell { return g.body[len(g.body)-1] }

// Foods returns every slot, eaten ones included.
func (g *Game) Foods() []structs.Food { return slices.Clone(g.foods) }

// ActiveFoods returns the foods that can be eaten (and should be drawn).
func (g *Game) ActiveFoods() []structs.Food {
	active := make([]structs.Food, 0, len(g.foods))
	for _, f := range g.foods {
		if f.Active() {
			active = append(active, f)
		}
	}
	return active
}

func (g *Game) Obstacles() []structs.Cell { return slices.Clone(g.obstacles) }

// Occupied reports whether c holds an active food, an obstacle or a
// snake segment.
func (g *Game) Occupied(c structs.Cell) bool {
	for _, f := range g.foods {
		if f.Active() && f.Cell == c {
			return true
		}
	}
	return slices.Contains(g.obstacles, c) || slices.Contains(g.body, c)
}

// RandomEmptyCell samples cells uniformly until one is free. After
// 4*width*height misses it picks uniformly among the remaining free cells,
// and reports ErrBoardFull when there are none.
func (g *Game) RandomEmptyCell() (structs.Cell, error) {
	for attempt := 0; attempt < 4*g.grid.Cells(); attempt++ {
		c := structs.Cell{X: g.rng.Intn(g.grid.Width), Y: g.rng.Intn(g.grid.Height)}
		if !g.Occupied(c) {
			return c, nil
		}
	}

	var free []structs.Cell
	for y := 0; y < g.grid.Height; y++ {
		for x := 0; x < g.grid.Width; x++ {
			if c := (structs.Cell{X: x, Y: y}); !g.Occupied(c) {
				free = append(free, c)
			}
		}
	}
	if len(free) == 0 {
		return structs.Cell{}, ErrBoardFull
	}
	return free[g.rng.Intn(len(free))], nil
}
