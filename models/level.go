package models

// Level is the worker account tier gating task visibility.
// Ordered basic < silver < gold < platinum.
type Level string

const (
	LevelBasic    Level = "basic"
	LevelSilver   Level = "silver"
	LevelGold     Level = "gold"
	LevelPlatinum Level = "platinum"
)

var levelRanks = map[Level]int{
	LevelBasic:    0,
	LevelSilver:   1,
	LevelGold:     2,
	LevelPlatinum: 3,
}

// Levels returns all levels in ascending rank order.
func Levels() []Level {
	return []Level{LevelBasic, LevelSilver, LevelGold, LevelPlatinum}
}

// ParseLevel validates a raw level string.
func ParseLevel(s string) (Level, bool) {
	l := Level(s)
	_, ok := levelRanks[l]
	return l, ok
}

func (l Level) Valid() bool {
	_, ok := levelRanks[l]
	return ok
}

// Rank returns the position of the level in the total order.
// Unknown levels rank below basic so they never satisfy a gate.
func (l Level) Rank() int {
	if r, ok := levelRanks[l]; ok {
		return r
	}
	return -1
}

// AtLeast reports whether a user at level l may take a task requiring r.
func (l Level) AtLeast(r Level) bool {
	return l.Rank() >= r.Rank()
}

func (l Level) String() string {
	return string(l)
}
