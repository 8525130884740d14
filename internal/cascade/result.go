package cascade

// actionResult is the Ok/Cancel outcome of running one behavior action
// (§4.6). A CancelAction, and only a CancelAction, yields actionCancel.
type actionResult int

const (
	actionOk actionResult = iota
	actionCancel
)
