package squad

// Squad is one of the fixed identities a team can reserve for a session.
type Squad struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Catalog is the full set of reservable identities. Order matters only for
// display; reservation is by name.
var Catalog = []Squad{
	{Name: "Cobra", Icon: "🐍"},
	{Name: "Tigre", Icon: "🐅"},
	{Name: "Halcón", Icon: "🦅"},
	{Name: "Lobo", Icon: "🐺"},
	{Name: "Tiburón", Icon: "🦈"},
	{Name: "Águila", Icon: "🦅"},
	{Name: "Pantera", Icon: "🐆"},
	{Name: "Oso", Icon: "🐻"},
}

// Valid reports whether name is part of the catalog.
func Valid(name string) bool {
	for _, s := range Catalog {
		if s.Name == name {
			return true
		}
	}
	return false
}
