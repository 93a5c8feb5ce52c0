// Package devserver pushes rebuild notifications to connected browsers
// over a websocket. The watch command broadcasts a reload after every
// successful rebuild and a diagnostics message when a rebuild fails, so
// the page can refresh itself or show the errors without polling.
package devserver

// Message types pushed to clients.
const (
	TypeReload      = "reload"
	TypeDiagnostics = "diagnostics"
)

// Message is one JSON push to connected clients.
type Message struct {
	Type    string `json:"type"`
	File    string `json:"file,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// Reload announces that file was rebuilt and the page should refresh.
func Reload(file string) Message {
	return Message{Type: TypeReload, File: file}
}

// Diagnostics carries rendered compile problems for file, one line per
// diagnostic, for an error overlay.
func Diagnostics(file string, rendered []string) Message {
	return Message{Type: TypeDiagnostics, File: file, Payload: rendered}
}
