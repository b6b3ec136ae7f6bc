package domain

// Represents a planned visiting order for a field technician.
// A Route is the output of the route planner: the sequence of station ids
// to visit, the geodesic distance of each leg, and the cumulative total.
// LegsKm is aligned with StationIDs; leg i is the distance travelled into
// stop i (leg 0 starts at the technician's start point). It is immutable
// planning data with no lifecycle beyond the call that produced it,
// except while held in the session cache.
type Route struct {
	StationIDs []string
	LegsKm     []float64
	TotalKm    float64
}
