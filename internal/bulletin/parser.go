package bulletin

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"

	"golang.org/x/net/html/charset"
)

var (
	// ErrMissingField is wrapped by a DecodeError when a required element is absent.
	ErrMissingField = errors.New("missing required field")
	// ErrDuplicateStation is wrapped when a bulletin carries more than one STAZIONE.
	ErrDuplicateStation = errors.New("expected exactly one station")
)

// DecodeError describes why a bulletin could not be decoded.
type DecodeError struct {
	Path string // slash-separated element path, empty for document level errors
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("error parsing XML: %v", e.Err)
	}
	return fmt.Sprintf("error parsing XML: %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Parse decodes a raw bulletin. It never returns a partially populated
// Container: either every required field is bound or an error is returned.
func Parse(body []byte) (*Container, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	// ARPAV declares ISO-8859-1.
	dec.CharsetReader = charset.NewReaderLabel

	var root node
	if err := dec.Decode(&root); err != nil {
		return nil, &DecodeError{Err: err}
	}

	var c Container
	if err := bind(&root, "", &c, containerSchema); err != nil {
		return nil, err
	}

	stations := root.children("STAZIONE")
	switch {
	case len(stations) == 0:
		return nil, &DecodeError{Path: "STAZIONE", Err: ErrMissingField}
	case len(stations) > 1:
		return nil, &DecodeError{Path: "STAZIONE", Err: ErrDuplicateStation}
	}

	station, err := decodeStation(stations[0])
	if err != nil {
		return nil, err
	}
	c.Station = station

	return &c, nil
}

func decodeStation(n *node) (Station, error) {
	var s Station
	if err := bind(n, "STAZIONE", &s, stationSchema); err != nil {
		return Station{}, err
	}

	sensors := n.children("SENSORE")
	s.Sensors = make([]Sensor, 0, len(sensors))
	for i, sn := range sensors {
		sensor, err := decodeSensor(sn, fmt.Sprintf("STAZIONE/SENSORE[%d]", i))
		if err != nil {
			return Station{}, err
		}
		s.Sensors = append(s.Sensors, sensor)
	}
	return s, nil
}

func decodeSensor(n *node, path string) (Sensor, error) {
	var s Sensor
	if err := bind(n, path, &s, sensorSchema); err != nil {
		return Sensor{}, err
	}

	data := n.children("DATI")
	s.Readings = make([]Reading, 0, len(data))
	for i, dn := range data {
		var r Reading
		if err := bind(dn, fmt.Sprintf("%s/DATI[%d]", path, i), &r, readingSchema); err != nil {
			return Sensor{}, err
		}
		s.Readings = append(s.Readings, r)
	}
	return s, nil
}
