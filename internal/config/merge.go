package config

// Overrides are command-line values. Nil fields were not given.
type Overrides struct {
	Extension *string
	Overwrite *bool
	Manifest  *string
}

// Merge returns a copy of c with every set override applied.
func (c Config) Merge(o Overrides) Config {
	if o.Extension != nil {
		c.Extension = *o.Extension
	}
	if o.Overwrite != nil {
		c.Overwrite = *o.Overwrite
	}
	if o.Manifest != nil {
		c.Manifest = *o.Manifest
	}
	return c
}
