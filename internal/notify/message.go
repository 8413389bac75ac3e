package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"mime"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message is a rendered notification e-mail.
type Message struct {
	ID      string
	From    string
	To      string
	Subject string
	Date    time.Time
	HTML    string
}

const timestampLayout = "2006-01-02 15:04:05 UTC"

var bodyTemplate = template.Must(template.New("body").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Pipeline CI/CD Notification</title>
</head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
    <div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px;">
        <h2 style="color: {{.Color}};">Pipeline CI/CD - {{.S.Status}}</h2>
        <div style="background-color: white; padding: 15px; border-radius: 5px; margin: 15px 0;">
            <h3>Informações do Pipeline</h3>
            <ul>
                <li><strong>Repositório:</strong> {{.S.Repository}}</li>
                <li><strong>Workflow:</strong> {{.S.Workflow}}</li>
                <li><strong>Branch:</strong> {{.S.Ref}}</li>
                <li><strong>Commit:</strong> {{.S.SHA}}</li>
                <li><strong>Autor:</strong> {{.S.Actor}}</li>
                <li><strong>Run ID:</strong> {{.S.RunID}}</li>
                <li><strong>Timestamp:</strong> {{.Timestamp}}</li>
            </ul>
        </div>
        <div style="background-color: white; padding: 15px; border-radius: 5px; margin: 15px 0;">
            <h3>Etapas Executadas</h3>
            <ul>
                <li><strong>Tests:</strong> Execução dos testes unitários</li>
                <li><strong>Build:</strong> Empacotamento da aplicação</li>
                <li><strong>Artifacts:</strong> Armazenamento de artefatos</li>
                <li><strong>Notification:</strong> Envio desta notificação</li>
            </ul>
        </div>
        <div style="text-align: center; margin-top: 20px; color: #6c757d;">
            <p>Mensagem automática do GitHub Actions</p>
            <p>Gerada em: {{.Timestamp}}</p>
        </div>
    </div>
</body>
</html>
`))

// Subject is "[STATUS] Pipeline CI/CD - repository".
func Subject(s *Settings) string {
	return fmt.Sprintf("[%s] Pipeline CI/CD - %s", s.Status, s.Repository)
}

// statusColor is green for SUCCESS and red for anything else.
func statusColor(status string) string {
	if status == "SUCCESS" {
		return "#28a745"
	}
	return "#dc3545"
}

// Build renders the notification for s at time now.
func Build(s *Settings, now time.Time) (*Message, error) {
	now = now.UTC()
	var body bytes.Buffer
	err := bodyTemplate.Execute(&body, struct {
		S         *Settings
		Color     string
		Timestamp string
	}{s, statusColor(s.Status), now.Format(timestampLayout)})
	if err != nil {
		return nil, fmt.Errorf("render body: %w", err)
	}
	domain := "crocstat.local"
	if i := strings.LastIndex(s.Sender, "@"); i >= 0 && i < len(s.Sender)-1 {
		domain = s.Sender[i+1:]
	}
	return &Message{
		ID:      fmt.Sprintf("<%s@%s>", uuid.NewString(), domain),
		From:    s.Sender,
		To:      s.Recipient,
		Subject: Subject(s),
		Date:    now,
		HTML:    body.String(),
	}, nil
}

// Bytes encodes the message as an RFC 5322 document with an HTML body.
func (m *Message) Bytes() []byte {
	var b bytes.Buffer
	header := func(k, v string) { fmt.Fprintf(&b, "%s: %s\r\n", k, v) }
	header("From", m.From)
	header("To", m.To)
	header("Subject", mime.QEncoding.Encode("utf-8", m.Subject))
	header("Date", m.Date.Format(time.RFC1123Z))
	header("Message-ID", m.ID)
	header("MIME-Version", "1.0")
	header("Content-Type", `text/html; charset="UTF-8"`)
	header("Content-Transfer-Encoding", "8bit")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(strings.ReplaceAll(m.HTML, "\r\n", "\n"), "\n", "\r\n"))
	return b.Bytes()
}
