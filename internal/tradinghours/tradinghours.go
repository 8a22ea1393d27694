// Package tradinghours gates the evaluation loop to configured session
// windows. Crypto markets trade around the clock, so an empty schedule
// means "always open"; equity-style sessions restrict cycles to windows
// like "09:15-15:30", and windows may cross midnight ("22:00-02:00").
package tradinghours

import (
	"fmt"
	"strings"
	"time"
)

type window struct {
	start int // minutes since midnight, inclusive
	end   int // minutes since midnight, inclusive
}

// Schedule is a set of daily trading windows in a fixed location.
type Schedule struct {
	windows []window
	loc     *time.Location
}

// Parse builds a Schedule from a comma-separated spec like
// "09:15-15:30" or "00:00-23:59,..". An empty spec is always open.
func Parse(spec string, loc *time.Location) (*Schedule, error) {
	if loc == nil {
		loc = time.UTC
	}
	s := &Schedule{loc: loc}

	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		bounds := strings.SplitN(part, "-", 2)
		if len(bounds) != 2 {
			return nil, fmt.Errorf("tradinghours: invalid window %q", part)
		}
		start, err := parseHM(bounds[0])
		if err != nil {
			return nil, fmt.Errorf("tradinghours: window %q: %w", part, err)
		}
		end, err := parseHM(bounds[1])
		if err != nil {
			return nil, fmt.Errorf("tradinghours: window %q: %w", part, err)
		}
		s.windows = append(s.windows, window{start: start, end: end})
	}
	return s, nil
}

// Contains reports whether t falls inside any trading window.
func (s *Schedule) Contains(t time.Time) bool {
	if len(s.windows) == 0 {
		return true
	}
	local := t.In(s.loc)
	hm := local.Hour()*60 + local.Minute()

	for _, w := range s.windows {
		if w.start <= w.end {
			if hm >= w.start && hm <= w.end {
				return true
			}
		} else {
			// Window crosses midnight.
			if hm >= w.start || hm <= w.end {
				return true
			}
		}
	}
	return false
}

// AlwaysOpen reports whether no windows are configured.
func (s *Schedule) AlwaysOpen() bool { return len(s.windows) == 0 }

func parseHM(v string) (int, error) {
	tm, err := time.Parse("15:04", strings.TrimSpace(v))
	if err != nil {
		return 0, err
	}
	return tm.Hour()*60 + tm.Minute(), nil
}
