package models

// Role identifies who authored a transcript entry.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Entry is one immutable line of the chat transcript.
type Entry struct {
	Seq  int    `json:"seq"` // 1-based position in the transcript
	Text string `json:"text"`
	Role Role   `json:"role"`
}
