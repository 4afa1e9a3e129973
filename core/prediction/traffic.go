package prediction

import "time"

// Traffic levels reported by CurrentTraffic. Level 3 exists in the scale but
// the hour schedule never produces it.
const (
	TrafficLight     = 1
	TrafficModerate  = 2
	TrafficHeavy     = 3
	TrafficVeryHeavy = 4
)

var trafficDescriptions = [...]string{"Light", "Moderate", "Heavy", "Very Heavy"}

// TrafficConditions is a schedule-based stand-in for a live traffic feed.
type TrafficConditions struct {
	Level       int       `json:"current_traffic_level"`
	Description string    `json:"traffic_description"`
	Hour        int       `json:"current_hour"`
	DayOfWeek   int       `json:"day_of_week"`
	LastUpdated time.Time `json:"last_updated"`
}

// TrafficLevelAt maps an hour of day to a congestion level: rush hours
// 7-9 and 17-19 are very heavy, 10-16 moderate, the rest light.
func TrafficLevelAt(hour int) int {
	switch {
	case hour >= 7 && hour <= 9, hour >= 17 && hour <= 19:
		return TrafficVeryHeavy
	case hour >= 10 && hour <= 16:
		return TrafficModerate
	default:
		return TrafficLight
	}
}

// TrafficDescription names a level, or returns "" for an unknown one.
func TrafficDescription(level int) string {
	if level < TrafficLight || level > TrafficVeryHeavy {
		return ""
	}
	return trafficDescriptions[level-1]
}

// CurrentTraffic reports the conditions at now, in now's location. Days run
// from 1 (Sunday) to 7 (Saturday).
func CurrentTraffic(now time.Time) TrafficConditions {
	level := TrafficLevelAt(now.Hour())
	return TrafficConditions{
		Level:       level,
		Description: TrafficDescription(level),
		Hour:        now.Hour(),
		DayOfWeek:   int(now.Weekday()) + 1,
		LastUpdated: now,
	}
}
