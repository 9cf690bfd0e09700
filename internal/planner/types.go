package planner

import (
	"time"

	"github.com/danpilch/niklo/internal/timetable"
)

type Mode string

const (
	RoadOnly Mode = "Road Only"
	Hybrid   Mode = "Hybrid (Road + Train)"
)

type Recommendation string

const (
	RecommendRoad  Recommendation = "Road"
	RecommendTrain Recommendation = "Train"
)

// Details describes the legs of an itinerary. Road itineraries set Summary
// and Duration; hybrid itineraries set the three legs and the chosen train.
type Details struct {
	Summary  string
	Duration string

	Leg1Road  string
	Leg2Train string
	Leg3Walk  string
	Station   timetable.Station
	Train     *timetable.Departure
}

type Itinerary struct {
	Mode              Mode
	LeaveAt           time.Time
	TotalDurationMins int
	DelayBufferMins   int
	Details           Details
}

// CommutePlan compares the direct drive with the best hybrid itinerary.
// TrainRoute is nil when no feasible train exists.
type CommutePlan struct {
	Arrival        time.Time
	RoadRoute      Itinerary
	TrainRoute     *Itinerary
	Recommendation Recommendation
}
