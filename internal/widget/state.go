package widget

import "fmt"

// State is the lifecycle of a widget's document set.
type State int32

const (
	// Idle: nothing fetched yet.
	Idle State = iota
	// Loading: the document set is being fetched and indexed.
	Loading
	// Ready: the index holds the document set.
	Ready
	// Failed: the last load attempt failed; the next input retries.
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText lets State appear by name in JSON payloads.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(b []byte) error {
	for _, c := range []State{Idle, Loading, Ready, Failed} {
		if c.String() == string(b) {
			*s = c
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", b)
}
