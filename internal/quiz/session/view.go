package session

// Container identifies the page element a quiz renders into.
type Container struct {
	ID     string `json:"id" validate:"required"`
	Lesson string `json:"lesson" validate:"required"`
	QuizID string `json:"quiz_id" validate:"required"`
}

// Labels for the advance control.
const (
	LabelNext   = "Next"
	LabelFinish = "Finish"
)

// QuestionView is what a container shows while a question awaits an answer.
type QuestionView struct {
	Title       string   `json:"title"`
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options"`
	Index       int      `json:"index"`
	Count       int      `json:"count"`
	NextLabel   string   `json:"next_label"`
	NextEnabled bool     `json:"next_enabled"`
}

// AnswerView marks the options after an answer is accepted.
type AnswerView struct {
	Index       int    `json:"index"`
	Chosen      int    `json:"chosen"`
	Correct     int    `json:"correct"`
	IsCorrect   bool   `json:"is_correct"`
	NextLabel   string `json:"next_label"`
	NextEnabled bool   `json:"next_enabled"`
}

// SummaryView is the final presentation of a session.
type SummaryView struct {
	Header   string `json:"header"`
	Subtitle string `json:"subtitle"`
	Correct  int    `json:"correct"`
	Total    int    `json:"total"`
	Percent  int    `json:"percent"`
}

// Fixed texts of the loading and error presentations.
const (
	LoadingTitle    = "Loading Quiz"
	LoadingSubtitle = "Please wait…"
	ErrorTitle      = "Error Loading Quiz"
	ErrorSubtitle   = "Please try again later."
)

// View renders quiz states into containers. Calls for one container are
// never made concurrently.
type View interface {
	RenderLoading(c Container)
	RenderError(c Container)
	RenderQuestion(c Container, q QuestionView)
	RenderAnswer(c Container, a AnswerView)
	RenderSummary(c Container, s SummaryView)
}
