package model

// Location identifies a zone in the fixed location space. It carries no
// structure beyond equality and use as a matrix index.
type Location int

// DeadlineConfig holds the service-level tolerances applied to every request
// at creation time. They are configuration constants of the surrounding
// system, not per-request data.
type DeadlineConfig struct {
	// MaxPickupDelay is the longest a rider will wait at the source, in
	// seconds after request creation.
	MaxPickupDelay float64 `json:"max_pickup_delay" yaml:"max_pickup_delay"`
	// MaxDropoffDelay is the slack allowed on top of the direct trip time
	// before the dropoff deadline expires.
	MaxDropoffDelay float64 `json:"max_dropoff_delay" yaml:"max_dropoff_delay"`
}

// Request is an immutable pickup/drop-off demand. Both deadlines are fixed at
// creation and never recomputed.
type Request struct {
	ID          int // unique within a run, assigned by the request source
	Source      Location
	Destination Location
	Created     float64 // simulation time of creation, seconds
	TravelTime  float64 // direct source->destination time, computed once
	Value       float64 // reward credited to the serving vehicle

	PickupDeadline  float64
	DropoffDeadline float64
}

// NewRequest builds a request with deadlines derived from cfg. The value
// defaults to one unit; callers may weight it afterwards via WithValue.
func NewRequest(id int, source, destination Location, created, travelTime float64, cfg DeadlineConfig) Request {
	return Request{
		ID:              id,
		Source:          source,
		Destination:     destination,
		Created:         created,
		TravelTime:      travelTime,
		Value:           1,
		PickupDeadline:  created + cfg.MaxPickupDelay,
		DropoffDeadline: created + travelTime + cfg.MaxDropoffDelay,
	}
}

// WithValue returns a copy of the request carrying the given reward value.
func (r Request) WithValue(v float64) Request {
	r.Value = v
	return r
}
