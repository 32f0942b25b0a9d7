package vehicle

import "fmt"

// ResolutionError reports that no vehicle file declares the requested name.
// The car it was meant for keeps its defaults.
type ResolutionError struct {
	Name     string
	IsEngine bool
	Folder   string
	Err      error
}

func (e *ResolutionError) Error() string {
	kind := "wagon"
	if e.IsEngine {
		kind = "engine"
	}
	msg := fmt.Sprintf("no %s named %q", kind, e.Name)
	if e.Folder != "" {
		msg = fmt.Sprintf("%s in folder %q", msg, e.Folder)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}
