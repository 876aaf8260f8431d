package domain

// AnalysisEntry is one scored task as returned by the scoring service, with
// Completed and DueDate reattached from the local store after arrival.
type AnalysisEntry struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	FinalScore         float64  `json:"final_score"`
	UrgencyScore       float64  `json:"urgency_score"`
	EffortScore        float64  `json:"effort_score"`
	DependencyScore    float64  `json:"dependency_score"`
	Strategy           string   `json:"strategy"`
	CircularDependency bool     `json:"circular_dependency,omitempty"`
	Explanations       []string `json:"explanations"`

	Completed bool   `json:"completed"`
	DueDate   string `json:"due_date"`
}

// SuggestedTask is the single task the scoring service recommends next.
type SuggestedTask = AnalysisEntry

type FlowKind string

const (
	FlowCompleted FlowKind = "completed"
	FlowSuggested FlowKind = "suggested"
)

// FlowStep is one entry in the session's completion/suggestion history.
type FlowStep struct {
	Kind  FlowKind `json:"kind"`
	ID    string   `json:"id"`
	Title string   `json:"title"`
}

// Reconcile reattaches the locally owned fields of entry from tasks by id.
// A task that no longer exists falls back to not completed and no due date.
func Reconcile(entry AnalysisEntry, tasks []Task) AnalysisEntry {
	entry.Completed = false
	entry.DueDate = ""
	for _, t := range tasks {
		if t.ID == entry.ID {
			entry.Completed = t.Completed
			entry.DueDate = t.DueDate
			break
		}
	}
	return entry
}
