package gmaps

// DistanceMatrixResponse represents the response from the Distance Matrix endpoint.
type DistanceMatrixResponse struct {
	Status               string   `json:"status"`
	ErrorMessage         string   `json:"error_message"`
	OriginAddresses      []string `json:"origin_addresses"`
	DestinationAddresses []string `json:"destination_addresses"`
	Rows                 []Row    `json:"rows"`
}

// Row holds the elements for one origin.
type Row struct {
	Elements []Element `json:"elements"`
}

// Element is the result for one origin/destination pair.
type Element struct {
	Status            string     `json:"status"`
	Duration          *TextValue `json:"duration"`
	DurationInTraffic *TextValue `json:"duration_in_traffic"`
	Distance          *TextValue `json:"distance"`
}

// TextValue is a numeric value (seconds or metres) with its display text.
type TextValue struct {
	Value int    `json:"value"`
	Text  string `json:"text"`
}

// Status values.
const (
	StatusOK = "OK"
)

// First returns the single element of a one-by-one matrix.
func (r *DistanceMatrixResponse) First() (*Element, bool) {
	if len(r.Rows) == 0 || len(r.Rows[0].Elements) == 0 {
		return nil, false
	}
	return &r.Rows[0].Elements[0], true
}

// TravelDuration prefers the traffic-aware duration when present.
func (e *Element) TravelDuration() *TextValue {
	if e.DurationInTraffic != nil {
		return e.DurationInTraffic
	}
	return e.Duration
}
