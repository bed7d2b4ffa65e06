package structs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDirection is returned when a direction name cannot be parsed.
var ErrUnknownDirection = errors.New("unknown direction")

// Cell 描述地图上的一个格子坐标。
type Cell struct {
	X int `json:"x"` // X坐标
	Y int `json:"y"` // Y坐标
}

// Direction 蛇的移动方向。
type Direction int

const (
	Right Direction = iota
	Up
	Left
	Down
)

var directionNames = [...]string{"right", "up", "left", "down"}

func (d Direction) String() string {
	if d < Right || d > Down {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// Delta is the unit step of the direction. Up decreases Y.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Right:
		return 1, 0
	case Up:
		return 0, -1
	case Left:
		return -1, 0
	case Down:
		return 0, 1
	}
	return 0, 0
}

// ParseDirection accepts "up", "down", "left", "right" (case-insensitive).
func ParseDirection(s string) (Direction, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range directionNames {
		if n == name {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownDirection, s)
}

func (d Direction) MarshalText() ([]byte, error) {
	if d < Right || d > Down {
		return nil, fmt.Errorf("%w %d", ErrUnknownDirection, int(d))
	}
	return []byte(directionNames[d]), nil
}

func (d *Direction) UnmarshalText(b []byte) error {
	parsed, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Food 描述一个食物。Score 为0表示已被吃掉，等待下次刷新。
type Food struct {
	Cell  Cell `json:"cell"`
	Score int  `json:"score"`
}

// Active reports whether the food can still be eaten.
func (f Food) Active() bool {
	return f.Score > 0
}

// Placement 障碍物模板在地图上的放置位置。
type Placement struct {
	Shape string `json:"shape"` // star, hwall, vwall, square
	X     int    `json:"x"`
	Y     int    `json:"y"`
}

// Phase 游戏阶段。
type Phase int

const (
	Idle Phase = iota
	Running
	Terminated
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	switch string(b) {
	case "idle":
		*p = Idle
	case "running":
		*p = Running
	case "terminated":
		*p = Terminated
	default:
		return fmt.Errorf("unknown phase %q", b)
	}
	return nil
}

// Snapshot 描述一局游戏在某一时刻的完整状态，用于持久化和前端展示。
type Snapshot struct {
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Body       []Cell    `json:"body"` // 0为蛇尾，最后一个为蛇头
	Direction  Direction `json:"direction"`
	Foods      []Food    `json:"foods"`
	Obstacles  []Cell    `json:"obstacles"`
	Score      int       `json:"score"`
	IntervalMS int64     `json:"interval_ms"` // 当前移动间隔，毫秒
	Phase      Phase     `json:"phase"`
}
