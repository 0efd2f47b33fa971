package models

// Phase identifies which of the status display states is showing.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhasePrompt    Phase = "prompt"
	PhaseUploading Phase = "uploading"
	PhaseSuccess   Phase = "success"
	PhaseFailure   Phase = "failure"
)

// Color is the display color of a status line.
type Color string

const (
	ColorNone   Color = ""
	ColorRed    Color = "red"
	ColorOrange Color = "orange"
	ColorGreen  Color = "green"
)

// Status text shown by the upload and chat flows.
const (
	PromptText       = "❌ Please select a file first."
	UploadingText    = "⏳ Uploading file..."
	SuccessPrefix    = "✅ "
	FailureText      = "❌ Upload failed."
	ChatFailureText  = "❌ Message failed to send."
	StudyFailureText = "❌ Study request failed."
)

// Status is the (text, color) pair shown in a status display.
// Values are immutable; every transition produces a new Status.
type Status struct {
	Phase Phase  `json:"phase"`
	Text  string `json:"text"`
	Color Color  `json:"color"`
}

// IdleStatus is the initial, empty status.
func IdleStatus() Status {
	return Status{Phase: PhaseIdle}
}

// PromptStatus asks the user to select a file.
func PromptStatus() Status {
	return Status{Phase: PhasePrompt, Text: PromptText, Color: ColorRed}
}

// UploadingStatus is shown while an upload request is outstanding.
func UploadingStatus() Status {
	return Status{Phase: PhaseUploading, Text: UploadingText, Color: ColorOrange}
}

// SuccessStatus reports the server's status message.
func SuccessStatus(serverStatus string) Status {
	return Status{Phase: PhaseSuccess, Text: SuccessPrefix + serverStatus, Color: ColorGreen}
}

// FailureStatus reports a failed upload.
func FailureStatus() Status {
	return Status{Phase: PhaseFailure, Text: FailureText, Color: ColorRed}
}

// ChatFailureStatus reports a chat message that got no reply.
func ChatFailureStatus() Status {
	return Status{Phase: PhaseFailure, Text: ChatFailureText, Color: ColorRed}
}

// StudyFailureStatus reports a study tool request that got no result.
func StudyFailureStatus() Status {
	return Status{Phase: PhaseFailure, Text: StudyFailureText, Color: ColorRed}
}
