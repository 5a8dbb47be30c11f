package weather

// Place is a named location returned by a geocoding lookup.
type Place struct {
	Name    string
	State   string
	Country string
}

// Label is the fully-qualified name of the place: "Name, State, Country", without the state if it is unknown.
func (p Place) Label() string {
	label := p.Name
	if p.State != "" {
		label += ", " + p.State
	}
	return label + ", " + p.Country
}

func (p Place) String() string {
	return p.Label()
}
