// Package bonus maps observed physical activity to reward bonuses.
package bonus

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
)

// Activity is a motion classification code as reported by activity recognition.
type Activity int

// Activity codes. Values match the platform's detected-activity constants.
const (
	InVehicle Activity = 0
	OnBicycle Activity = 1
	OnFoot    Activity = 2
	Still     Activity = 3
	Unknown   Activity = 4
	Tilting   Activity = 5
	Walking   Activity = 7
	Running   Activity = 8
)

var activityNames = map[Activity]string{
	InVehicle: "in_vehicle",
	OnBicycle: "on_bicycle",
	OnFoot:    "on_foot",
	Still:     "still",
	Unknown:   "unknown",
	Tilting:   "tilting",
	Walking:   "walking",
	Running:   "running",
}

// String returns the activity name.
func (a Activity) String() string {
	if name, ok := activityNames[a]; ok {
		return name
	}
	return "activity(" + strconv.Itoa(int(a)) + ")"
}

// ParseActivity accepts a name ("walking", "on-foot") or a numeric code.
func ParseActivity(s string) (Activity, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.ReplaceAll(s, "-", "_")
	if s == "" {
		return 0, fmt.Errorf("activity is empty")
	}
	if n, err := strconv.Atoi(s); err == nil {
		a := Activity(n)
		if _, ok := activityNames[a]; !ok {
			return 0, fmt.Errorf("unknown activity code %d", n)
		}
		return a, nil
	}
	for a, name := range activityNames {
		if name == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown activity %q", s)
}

// Oracle holds the latest observed activity and turns it into bonus points.
// SetActivity may be called from any goroutine.
type Oracle struct {
	latest atomic.Int32
}

// NewOracle returns an Oracle that assumes the user is still.
func NewOracle() *Oracle {
	o := &Oracle{}
	o.latest.Store(int32(Still))
	return o
}

// SetActivity records the latest observed activity.
func (o *Oracle) SetActivity(a Activity) {
	o.latest.Store(int32(a))
}

// Activity returns the latest observed activity.
func (o *Oracle) Activity() Activity {
	return Activity(o.latest.Load())
}

// FocusBonus rewards stillness during focus phases.
func (o *Oracle) FocusBonus() int {
	if o.Activity() == Still {
		return 2
	}
	return 0
}

// BreakBonus rewards movement during breaks.
func (o *Oracle) BreakBonus() int {
	switch o.Activity() {
	case OnFoot, Walking:
		return 2
	case Running, OnBicycle:
		return 3
	default:
		return 1
	}
}

// Bonus returns the break or focus bonus for the current phase.
func (o *Oracle) Bonus(isBreak bool) int {
	if isBreak {
		return o.BreakBonus()
	}
	return o.FocusBonus()
}
