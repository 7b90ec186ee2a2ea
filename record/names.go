package record

// WellKnownNames are the record names system services publish under.
// Projects embed this struct to add their own.
type WellKnownNames struct {
	// Core services
	GUI     string
	Input   string
	Loader  string
	Storage string

	// User-facing services
	Notification string
	Dialogs      string

	// Drivers
	Radio string
}

// Names contains the well-known record names.
var Names = WellKnownNames{
	GUI:     "gui",
	Input:   "input",
	Loader:  "loader",
	Storage: "storage",

	Notification: "notification",
	Dialogs:      "dialogs",

	Radio: "radio",
}

// All returns every well-known name.
func (n WellKnownNames) All() []string {
	return []string{
		n.GUI, n.Input, n.Loader, n.Storage,
		n.Notification, n.Dialogs,
		n.Radio,
	}
}
