package workflow

// State is the coordinator's position in a topic visit.
type State int

const (
	StateIdle State = iota
	StateFetchingContent
	StateEditorUninitialized
	StateEditorInitializing
	StateEditorReady
	StateEditing
	StatePublishing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetchingContent:
		return "fetching-content"
	case StateEditorUninitialized:
		return "editor-uninitialized"
	case StateEditorInitializing:
		return "editor-initializing"
	case StateEditorReady:
		return "editor-ready"
	case StateEditing:
		return "editing"
	case StatePublishing:
		return "publishing"
	}
	return "unknown"
}
