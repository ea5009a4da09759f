package bulletin

// Extract reduces a bulletin to the last reading of every sensor, keyed by
// sensor type. Sensors without readings are skipped; when two sensors share a
// type the later one wins.
func Extract(c *Container) Readings {
	out := make(Readings)
	if c == nil {
		return out
	}

	for _, s := range c.Station.Sensors {
		if len(s.Readings) == 0 {
			continue
		}
		out[s.Type] = s.Readings[len(s.Readings)-1].Value
	}
	return out
}
