package notify

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/jeferson-peter/forecast-etl/internal/domain"
)

// emailBody is the shared HTML layout for both notification kinds.
// It mirrors the run metadata surfaced by the scheduler's own alerting:
// task, execution window, and duration.
var emailBody = template.Must(template.New("email").Parse(`
<p>Task: {{.Task}} in pipeline: {{.Pipeline}} has {{.Outcome}}.</p>
{{- if .Error}}
<p>Error: {{.Error}}</p>
{{- end}}
<p>Workflow ID: {{.WorkflowID}}</p>
<p>Run ID: {{.RunID}}</p>
<p>Start Date: {{.StartedAt}}</p>
<p>End Date: {{.CompletedAt}}</p>
<p>Duration: {{.DurationSeconds}} seconds</p>
`))

// emailData is the template context for emailBody.
type emailData struct {
	Pipeline        string
	Task            string
	Outcome         string
	Error           string
	WorkflowID      string
	RunID           string
	StartedAt       string
	CompletedAt     string
	DurationSeconds string
}

// renderFailure produces the subject and HTML body for a failed run.
func renderFailure(in domain.NotificationInput) (subject, html string, err error) {
	subject = fmt.Sprintf("Pipeline Alert: %s Failed", in.Pipeline)
	html, err = render(in, "failed")
	return subject, html, err
}

// renderSuccess produces the subject and HTML body for a successful run.
func renderSuccess(in domain.NotificationInput) (subject, html string, err error) {
	subject = fmt.Sprintf("Pipeline Notification: %s Succeeded", in.Pipeline)
	html, err = render(in, "succeeded")
	return subject, html, err
}

func render(in domain.NotificationInput, outcome string) (string, error) {
	task := in.Task
	if task == "" {
		task = in.Pipeline
	}

	data := emailData{
		Pipeline:        in.Pipeline,
		Task:            task,
		Outcome:         outcome,
		Error:           in.Error,
		WorkflowID:      in.WorkflowID,
		RunID:           in.RunID,
		StartedAt:       formatTime(in.StartedAt),
		CompletedAt:     formatTime(in.CompletedAt),
		DurationSeconds: fmt.Sprintf("%.1f", in.Duration().Seconds()),
	}

	var b strings.Builder
	if err := emailBody.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render notification body: %w", err)
	}
	return b.String(), nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
