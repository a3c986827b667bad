package constant

// Values of runtime.GOOS the player special-cases.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)
