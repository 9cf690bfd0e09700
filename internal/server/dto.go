package server

import (
	"github.com/danpilch/niklo/internal/clock"
	"github.com/danpilch/niklo/internal/planner"
	"github.com/danpilch/niklo/internal/timetable"
)

type CommuteRequest struct {
	Origin          string `json:"origin"`
	ArrivalTime     string `json:"arrival_time"`
	DelayBufferMins int    `json:"delay_buffer_mins"`
}

type TrafficRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

type PredictRequest struct {
	Time      string `json:"time"`
	DayOfWeek *int   `json:"day_of_week"`
}

type PredictResponse struct {
	PredictedDurationMins *float64 `json:"predicted_duration_mins"`
}

type TripRequest struct {
	DepartureTime string  `json:"departure_time"`
	DayOfWeek     *int    `json:"day_of_week"`
	DurationMins  float64 `json:"duration_mins"`
}

type NotifyRequest struct {
	Token string `json:"token"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

type NotifyResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"message_id"`
}

type DepartureResponse struct {
	TrainID      string `json:"train_id"`
	Type         string `json:"type"`
	Departure    string `json:"departure"`
	Arrival      string `json:"arrival"`
	DurationMins int    `json:"duration_mins"`
}

type TrainsResponse struct {
	From      timetable.Station   `json:"from"`
	To        timetable.Station   `json:"to"`
	Direction timetable.Direction `json:"direction"`
	Trains    []DepartureResponse `json:"trains"`
}

type DetailsResponse struct {
	Summary   string             `json:"summary,omitempty"`
	Duration  string             `json:"duration,omitempty"`
	Leg1Road  string             `json:"leg1_road,omitempty"`
	Leg2Train string             `json:"leg2_train,omitempty"`
	Leg3Walk  string             `json:"leg3_walk,omitempty"`
	Train     *DepartureResponse `json:"train,omitempty"`
}

type RouteResponse struct {
	Mode              planner.Mode    `json:"mode"`
	LeaveAt           string          `json:"leave_at"`
	TotalDurationMins int             `json:"total_duration_mins"`
	DelayBufferMins   *int            `json:"delay_buffer_mins,omitempty"`
	Details           DetailsResponse `json:"details"`
}

type CommuteResponse struct {
	RoadRoute      RouteResponse          `json:"road_route"`
	TrainRoute     *RouteResponse         `json:"train_route"`
	Recommendation planner.Recommendation `json:"recommendation"`
}

func departureResponse(d timetable.Departure) DepartureResponse {
	return DepartureResponse{
		TrainID:      d.TrainID,
		Type:         string(d.Type),
		Departure:    clock.Format(d.Departure),
		Arrival:      clock.Format(d.Arrival),
		DurationMins: d.DurationMins,
	}
}

func routeResponse(it planner.Itinerary) RouteResponse {
	r := RouteResponse{
		Mode:              it.Mode,
		LeaveAt:           clock.Format(it.LeaveAt),
		TotalDurationMins: it.TotalDurationMins,
		Details: DetailsResponse{
			Summary:   it.Details.Summary,
			Duration:  it.Details.Duration,
			Leg1Road:  it.Details.Leg1Road,
			Leg2Train: it.Details.Leg2Train,
			Leg3Walk:  it.Details.Leg3Walk,
		},
	}
	if it.Mode == planner.Hybrid {
		buffer := it.DelayBufferMins
		r.DelayBufferMins = &buffer
	}
	if it.Details.Train != nil {
		d := departureResponse(*it.Details.Train)
		r.Details.Train = &d
	}
	return r
}

// NewCommuteResponse renders a plan with HH:MM times.
func NewCommuteResponse(p *planner.CommutePlan) CommuteResponse {
	res := CommuteResponse{
		RoadRoute:      routeResponse(p.RoadRoute),
		Recommendation: p.Recommendation,
	}
	if p.TrainRoute != nil {
		tr := routeResponse(*p.TrainRoute)
		res.TrainRoute = &tr
	}
	return res
}
