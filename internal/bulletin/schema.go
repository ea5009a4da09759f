package bulletin

import (
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// node is a generic XML element. The typed model is bound from it through the
// schema tables below rather than through struct tags.
type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []node     `xml:",any"`
}

// value resolves name to the first child element with that local name,
// falling back to an attribute. Names are case-sensitive.
func (n *node) value(name string) (string, bool) {
	for i := range n.Children {
		if n.Children[i].XMLName.Local == name {
			return strings.TrimSpace(n.Children[i].Text), true
		}
	}
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return strings.TrimSpace(a.Value), true
		}
	}
	return "", false
}

func (n *node) children(name string) []*node {
	var out []*node
	for i := range n.Children {
		if n.Children[i].XMLName.Local == name {
			out = append(out, &n.Children[i])
		}
	}
	return out
}

// binding ties one element name to a typed field of T.
type binding[T any] struct {
	name string
	set  func(dst *T, raw string) error
}

func text[T any](name string, field func(*T) *string) binding[T] {
	return binding[T]{name: name, set: func(dst *T, raw string) error {
		*field(dst) = raw
		return nil
	}}
}

func unsigned[T any](name string, bits int, assign func(*T, uint64)) binding[T] {
	return binding[T]{name: name, set: func(dst *T, raw string) error {
		v, err := strconv.ParseUint(raw, 10, bits)
		if err != nil {
			return err
		}
		assign(dst, v)
		return nil
	}}
}

func float[T any](name string, field func(*T) *float64) binding[T] {
	return binding[T]{name: name, set: func(dst *T, raw string) error {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite value %q", raw)
		}
		*field(dst) = v
		return nil
	}}
}

var containerSchema = []binding[Container]{
	text("FORNITORE", func(c *Container) *string { return &c.Provider }),
	unsigned("ISTANTERUN", 64, func(c *Container, v uint64) { c.RunAt = v }),
	text("NOTE", func(c *Container) *string { return &c.Note }),
	text("LICENZA", func(c *Container) *string { return &c.License }),
	text("PERIODO", func(c *Container) *string { return &c.Period }),
	unsigned("INIZIO", 64, func(c *Container, v uint64) { c.Start = v }),
	unsigned("FINE", 64, func(c *Container, v uint64) { c.End = v }),
	text("PROJECTION", func(c *Container) *string { return &c.Projection }),
}

var stationSchema = []binding[Station]{
	unsigned("IDSTAZ", 16, func(s *Station, v uint64) { s.ID = uint16(v) }),
	text("NOME", func(s *Station) *string { return &s.Name }),
	float("X", func(s *Station) *float64 { return &s.X }),
	float("Y", func(s *Station) *float64 { return &s.Y }),
	unsigned("QUOTA", 8, func(s *Station, v uint64) { s.Elevation = uint8(v) }),
	text("TIPOSTAZ", func(s *Station) *string { return &s.Type }),
	text("PROVINCIA", func(s *Station) *string { return &s.Province }),
	text("COMUNE", func(s *Station) *string { return &s.Municipality }),
	text("ATTIVAZIONE", func(s *Station) *string { return &s.ActivatedOn }),
}

var sensorSchema = []binding[Sensor]{
	unsigned("ID", 64, func(s *Sensor, v uint64) { s.ID = v }),
	text("PARAMNM", func(s *Sensor) *string { return &s.Parameter }),
	text("TYPE", func(s *Sensor) *string { return &s.Type }),
	text("UNITNM", func(s *Sensor) *string { return &s.UnitName }),
	unsigned("UNITCODE", 8, func(s *Sensor, v uint64) { s.UnitCode = uint8(v) }),
	text("NOTE", func(s *Sensor) *string { return &s.Note }),
	unsigned("FREQ", 8, func(s *Sensor, v uint64) { s.Frequency = uint8(v) }),
}

var readingSchema = []binding[Reading]{
	unsigned("ISTANTE", 64, func(r *Reading, v uint64) { r.Instant = v }),
	float("VM", func(r *Reading) *float64 { return &r.Value }),
}

// bind applies every binding of schema to dst. All names are required.
func bind[T any](n *node, path string, dst *T, schema []binding[T]) error {
	for _, b := range schema {
		raw, ok := n.value(b.name)
		if !ok {
			return &DecodeError{Path: joinPath(path, b.name), Err: ErrMissingField}
		}
		if err := b.set(dst, raw); err != nil {
			return &DecodeError{Path: joinPath(path, b.name), Err: err}
		}
	}
	return nil
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}
