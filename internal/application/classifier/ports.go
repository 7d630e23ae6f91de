package classifier

import (
	"context"
	"errors"
	"time"

	"github.com/bryanwahyu/aiact-classifier/internal/domain/workflow"
)

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrBusy               = errors.New("session is busy")
	ErrPublishingDisabled = errors.New("report publishing is disabled")
	ErrExportDisabled     = errors.New("report export is not configured")
	ErrUnknownFormat      = errors.New("unknown report format")
)

// Report formats.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// View is a session snapshot plus registry timestamps.
type View struct {
	workflow.View
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Document is an exported report.
type Document struct {
	Name        string
	ContentType string
	Body        []byte
}

// Exporter renders a finished session.
type Exporter interface {
	Export(v View, format string) (Document, error)
}

// Publisher stores a document and returns where it can be fetched.
type Publisher interface {
	Publish(ctx context.Context, name, contentType string, body []byte) (string, error)
}

// Recorder counts workflow events.
type Recorder interface {
	SessionCreated()
	AssessmentCompleted(failed bool)
	StepFinalized(overridden bool)
	ReportCompleted(failed bool)
}

type nopRecorder struct{}

func (nopRecorder) SessionCreated() {}
func (nopRecorder) AssessmentCompleted(bool) {}
func (nopRecorder) StepFinalized(bool) {}
func (nopRecorder) ReportCompleted(bool) {}
