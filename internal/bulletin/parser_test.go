package bulletin

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"testing"
)

const sampleBulletin = `<?xml version="1.0" encoding="UTF-8"?>
<CONTENITORE>
  <FORNITORE>ARPAV - Dipartimento Regionale per la Sicurezza del Territorio</FORNITORE>
  <ISTANTERUN>202410150905</ISTANTERUN>
  <NOTE>Dati non validati</NOTE>
  <LICENZA>CC BY 4.0</LICENZA>
  <PERIODO>ultime 24 ore</PERIODO>
  <INIZIO>202410140900</INIZIO>
  <FINE>202410150900</FINE>
  <PROJECTION>EPSG:3003</PROJECTION>
  <STAZIONE>
    <IDSTAZ>182</IDSTAZ>
    <NOME>Malcesine</NOME>
    <X>1642510.5</X>
    <Y>5061523.25</Y>
    <QUOTA>90</QUOTA>
    <TIPOSTAZ>MM</TIPOSTAZ>
    <PROVINCIA>VR</PROVINCIA>
    <COMUNE>Malcesine</COMUNE>
    <ATTIVAZIONE>1985-06-01</ATTIVAZIONE>
    <SENSORE>
      <ID>300001234</ID>
      <PARAMNM>Temperatura aria a 2m</PARAMNM>
      <TYPE>TEMP</TYPE>
      <UNITNM>gradi Celsius</UNITNM>
      <UNITCODE>1</UNITCODE>
      <NOTE></NOTE>
      <FREQ>60</FREQ>
      <DATI ISTANTE="202410150800"><VM>12.3</VM></DATI>
      <DATI ISTANTE="202410150900"><VM>12.9</VM></DATI>
    </SENSORE>
    <SENSORE>
      <ID>300001235</ID>
      <PARAMNM>Umidita relativa a 2m</PARAMNM>
      <TYPE>UMID</TYPE>
      <UNITNM>%</UNITNM>
      <UNITCODE>5</UNITCODE>
      <NOTE/>
      <FREQ>60</FREQ>
      <EXTRA>ignored</EXTRA>
    </SENSORE>
  </STAZIONE>
</CONTENITORE>`

func TestParseBulletin(t *testing.T) {
	c, err := Parse([]byte(sampleBulletin))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Provider != "ARPAV - Dipartimento Regionale per la Sicurezza del Territorio" {
		t.Errorf("unexpected provider %q", c.Provider)
	}
	if c.RunAt != 202410150905 {
		t.Errorf("expected run 202410150905, got %d", c.RunAt)
	}
	if c.Start != 202410140900 || c.End != 202410150900 {
		t.Errorf("unexpected period bounds %d-%d", c.Start, c.End)
	}
	if c.Projection != "EPSG:3003" {
		t.Errorf("unexpected projection %q", c.Projection)
	}

	s := c.Station
	if s.ID != 182 || s.Name != "Malcesine" || s.Elevation != 90 {
		t.Errorf("unexpected station %+v", s)
	}
	if s.X != 1642510.5 || s.Y != 5061523.25 {
		t.Errorf("unexpected coordinates %f,%f", s.X, s.Y)
	}
	if s.Province != "VR" || s.Municipality != "Malcesine" || s.ActivatedOn != "1985-06-01" {
		t.Errorf("unexpected station metadata %+v", s)
	}

	if len(s.Sensors) != 2 {
		t.Fatalf("expected 2 sensors, got %d", len(s.Sensors))
	}

	temp := s.Sensors[0]
	if temp.Type != "TEMP" || temp.ID != 300001234 || temp.UnitCode != 1 || temp.Frequency != 60 {
		t.Errorf("unexpected sensor %+v", temp)
	}
	want := []Reading{{Instant: 202410150800, Value: 12.3}, {Instant: 202410150900, Value: 12.9}}
	if !reflect.DeepEqual(temp.Readings, want) {
		t.Errorf("expected readings %v, got %v", want, temp.Readings)
	}

	if n := len(s.Sensors[1].Readings); n != 0 {
		t.Errorf("expected no readings for UMID, got %d", n)
	}
}

func TestParseIsPure(t *testing.T) {
	body := []byte(sampleBulletin)

	first, err := Parse(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Parse(body)
		if err != nil {
			t.Fatalf("unexpected error on run %d: %v", i, err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d produced a different graph", i)
		}
		if !reflect.DeepEqual(Extract(first), Extract(again)) {
			t.Fatalf("run %d produced different readings", i)
		}
	}
}

func TestParseReadingAsChildElements(t *testing.T) {
	body := strings.Replace(sampleBulletin,
		`<DATI ISTANTE="202410150900"><VM>12.9</VM></DATI>`,
		`<DATI><ISTANTE>202410150900</ISTANTE><VM>13.4</VM></DATI>`, 1)

	c, err := Parse([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := c.Station.Sensors[0].Readings[1]
	if last.Instant != 202410150900 || last.Value != 13.4 {
		t.Errorf("unexpected reading %+v", last)
	}
}

func TestParseLatin1(t *testing.T) {
	body := strings.Replace(sampleBulletin, `encoding="UTF-8"`, `encoding="ISO-8859-1"`, 1)
	body = strings.Replace(body, "<COMUNE>Malcesine</COMUNE>", "<COMUNE>Citt\xe0</COMUNE>", 1)

	c, err := Parse([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Station.Municipality != "Città" {
		t.Errorf("expected Città, got %q", c.Station.Municipality)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		path     string
		sentinel error
	}{
		{
			name:     "missing station",
			body:     cut(sampleBulletin, "<STAZIONE>", "</STAZIONE>"),
			path:     "STAZIONE",
			sentinel: ErrMissingField,
		},
		{
			name:     "duplicate station",
			body:     strings.Replace(sampleBulletin, "</CONTENITORE>", "<STAZIONE/></CONTENITORE>", 1),
			path:     "STAZIONE",
			sentinel: ErrDuplicateStation,
		},
		{
			name:     "missing container field",
			body:     strings.Replace(sampleBulletin, "<PROJECTION>EPSG:3003</PROJECTION>", "", 1),
			path:     "PROJECTION",
			sentinel: ErrMissingField,
		},
		{
			name:     "missing sensor type",
			body:     strings.Replace(sampleBulletin, "<TYPE>UMID</TYPE>", "", 1),
			path:     "STAZIONE/SENSORE[1]/TYPE",
			sentinel: ErrMissingField,
		},
		{
			name: "missing reading value",
			body: strings.Replace(sampleBulletin, "<VM>12.3</VM>", "", 1),
			path: "STAZIONE/SENSORE[0]/DATI[0]/VM",
		},
		{
			name: "elevation out of range",
			body: strings.Replace(sampleBulletin, "<QUOTA>90</QUOTA>", "<QUOTA>300</QUOTA>", 1),
			path: "STAZIONE/QUOTA",
		},
		{
			name: "non numeric station id",
			body: strings.Replace(sampleBulletin, "<IDSTAZ>182</IDSTAZ>", "<IDSTAZ>abc</IDSTAZ>", 1),
			path: "STAZIONE/IDSTAZ",
		},
		{
			name: "non finite value",
			body: strings.Replace(sampleBulletin, "<VM>12.9</VM>", "<VM>NaN</VM>", 1),
			path: "STAZIONE/SENSORE[0]/DATI[1]/VM",
		},
		{
			name: "malformed document",
			body: "<CONTENITORE><FORNITORE>ARPAV",
		},
		{
			name: "empty body",
			body: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse([]byte(tt.body))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if c != nil {
				t.Fatalf("expected no container on error, got %+v", c)
			}

			var decErr *DecodeError
			if !errors.As(err, &decErr) {
				t.Fatalf("expected *DecodeError, got %T", err)
			}
			if decErr.Path != tt.path {
				t.Errorf("expected path %q, got %q", tt.path, decErr.Path)
			}
			if tt.sentinel != nil && !errors.Is(err, tt.sentinel) {
				t.Errorf("expected %v, got %v", tt.sentinel, err)
			}
			if !strings.HasPrefix(err.Error(), "error parsing XML") {
				t.Errorf("unexpected message %q", err.Error())
			}
		})
	}
}

func TestParseUnsignedWidths(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
	}{
		{"0", true},
		{"65535", true},
		{"65536", false},
		{"-1", false},
	}

	for _, tt := range tests {
		body := strings.Replace(sampleBulletin, "<IDSTAZ>182</IDSTAZ>", "<IDSTAZ>"+tt.value+"</IDSTAZ>", 1)
		c, err := Parse([]byte(body))
		if tt.ok {
			if err != nil {
				t.Errorf("IDSTAZ=%s: unexpected error: %v", tt.value, err)
				continue
			}
			if strconv.Itoa(int(c.Station.ID)) != tt.value {
				t.Errorf("IDSTAZ=%s: got %d", tt.value, c.Station.ID)
			}
		} else if err == nil {
			t.Errorf("IDSTAZ=%s: expected error", tt.value)
		}
	}
}

// cut removes everything from the first start marker through the end marker.
func cut(s, start, end string) string {
	i := strings.Index(s, start)
	j := strings.Index(s, end)
	return s[:i] + s[j+len(end):]
}
