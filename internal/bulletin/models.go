package bulletin

// Container is the root of an hourly ARPAV bulletin.
// It only lives for the duration of a single request.
type Container struct {
	Provider   string
	RunAt      uint64
	License    string
	Note       string
	Period     string
	Start      uint64
	End        uint64
	Projection string

	Station Station
}

// Station describes the weather station the bulletin was published for.
type Station struct {
	ID           uint16
	Name         string
	X            float64
	Y            float64
	Elevation    uint8
	Type         string
	Province     string
	Municipality string
	ActivatedOn  string

	// Sensors are kept in document order.
	Sensors []Sensor
}

// Sensor is a single measuring instrument of a station.
type Sensor struct {
	ID        uint64
	Parameter string
	Type      string // output key
	UnitName  string
	UnitCode  uint8
	Note      string
	Frequency uint8

	// Readings are ordered as emitted upstream; the last one is the most recent.
	Readings []Reading
}

// Reading is one observation. Instant is the upstream YYYYMMDDhhmm stamp.
type Reading struct {
	Instant uint64
	Value   float64
}

// Readings maps a sensor type code to its latest value.
type Readings map[string]float64

// Bulletin is the raw document found by the Resolver.
type Bulletin struct {
	Hour int
	Body []byte
}
