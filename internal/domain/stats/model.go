package stats

import (
	"fmt"
	"time"
)

// Kind is the stat entry type. The enum is enforced at the edges (request
// validation, parser output filtering); aggregation assumes it holds.
type Kind string

const (
	KindGoal   Kind = "goal"
	KindAssist Kind = "assist"
)

func ParseKind(v string) (Kind, error) {
	switch Kind(v) {
	case KindGoal, KindAssist:
		return Kind(v), nil
	default:
		return "", fmt.Errorf("unknown stat kind %q", v)
	}
}

// Entry is one recorded goal or assist. Aggregates are never stored;
// every view is computed from entries on read.
type Entry struct {
	ID         string
	PlayerID   string
	Kind       Kind
	RecordedAt time.Time
	CreatedAt  time.Time
}

func (e Entry) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("stat entry id is required")
	}
	if e.PlayerID == "" {
		return fmt.Errorf("stat entry player id is required")
	}
	if _, err := ParseKind(string(e.Kind)); err != nil {
		return err
	}
	if e.RecordedAt.IsZero() {
		return fmt.Errorf("stat entry timestamp is required")
	}

	return nil
}

// DayKey buckets a timestamp to its UTC calendar day in ISO format.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
