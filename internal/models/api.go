package models

// UploadResponse is the body returned by POST /upload.
type UploadResponse struct {
	Status string    `json:"status"`
	File   *FileInfo `json:"file,omitempty"`
	Lines  int       `json:"lines"`
}

// ChatRequest is the body accepted by POST /chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the body returned by POST /chat.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// StudyAction names one of the notes study tools.
type StudyAction string

const (
	StudySummary    StudyAction = "summary"
	StudyQuiz       StudyAction = "quiz"
	StudyFlashcards StudyAction = "flashcards"
)

// Valid reports whether a is a known study action.
func (a StudyAction) Valid() bool {
	switch a {
	case StudySummary, StudyQuiz, StudyFlashcards:
		return true
	}
	return false
}

// StudyRequest is the body accepted by POST /api/study.
type StudyRequest struct {
	FileID string      `json:"fileId"`
	Action StudyAction `json:"action"`
}

// Flashcard is a single question/answer pair.
type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// StudyResponse is the body returned by POST /api/study.
type StudyResponse struct {
	Action     StudyAction `json:"action"`
	Result     string      `json:"result"`
	Flashcards []Flashcard `json:"flashcards,omitempty"`
}
