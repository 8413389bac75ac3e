// Package notify sends the CI pipeline status e-mail. Delivery problems
// never fail the pipeline: the message is printed as a simulation instead.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/apex/log"
)

// ErrNoRecipient is returned when PIPELINE_EMAIL_RECIPIENT is unset.
var ErrNoRecipient = errors.New("PIPELINE_EMAIL_RECIPIENT not set")

// Notifier builds and sends the notification, writing progress to Out.
type Notifier struct {
	Settings *Settings
	// Sender defaults to an SMTPSender built from Settings.
	Sender Sender
	Out    io.Writer
	// Now defaults to time.Now.
	Now func() time.Time
}

func (n *Notifier) now() time.Time {
	if n.Now != nil {
		return n.Now()
	}
	return time.Now()
}

// Run sends the notification. It only fails when there is no recipient;
// a missing password or a transport error falls back to Simulate.
func (n *Notifier) Run(ctx context.Context) error {
	s := n.Settings
	if strings.TrimSpace(s.Recipient) == "" {
		fmt.Fprintln(n.Out, "ERRO: Variável de ambiente PIPELINE_EMAIL_RECIPIENT não definida!")
		return ErrNoRecipient
	}
	if s.Password == "" {
		fmt.Fprintln(n.Out, "AVISO: Variável de ambiente PIPELINE_EMAIL_PASSWORD não definida!")
		fmt.Fprintln(n.Out, "Simulando envio de email...")
		n.Simulate()
		return nil
	}
	msg, err := Build(s, n.now())
	if err != nil {
		return err
	}
	sender := n.Sender
	if sender == nil {
		sender = NewSMTPSender(s)
	}
	log.WithFields(log.Fields{"server": s.Addr(), "to": s.Recipient}).Info("sending pipeline notification")
	if err := sender.Send(ctx, msg); err != nil {
		log.WithError(err).Warn("notification delivery failed")
		fmt.Fprintf(n.Out, "Erro ao enviar email: %v\n", err)
		fmt.Fprintln(n.Out, "Simulando envio de email...")
		n.Simulate()
		return nil
	}
	fmt.Fprintf(n.Out, "Email enviado com sucesso para: %s\n", s.Recipient)
	return nil
}

// Simulate prints what would have been sent.
func (n *Notifier) Simulate() {
	s := n.Settings
	to := s.Recipient
	if to == "" {
		to = "NÃO DEFINIDO"
	}
	banner := strings.Repeat("=", 60)
	w := n.Out
	fmt.Fprintln(w, "\n"+banner)
	fmt.Fprintln(w, "SIMULAÇÃO DE ENVIO DE EMAIL")
	fmt.Fprintln(w, banner)
	fmt.Fprintf(w, "De: %s\n", s.Sender)
	fmt.Fprintf(w, "Para: %s\n", to)
	fmt.Fprintf(w, "Assunto: %s\n", Subject(s))
	fmt.Fprintln(w, "\nConteúdo:")
	fmt.Fprintf(w, "Status: %s\n", s.Status)
	fmt.Fprintf(w, "Repositório: %s\n", s.Repository)
	fmt.Fprintf(w, "Branch: %s\n", s.Ref)
	fmt.Fprintf(w, "Autor: %s\n", s.Actor)
	fmt.Fprintf(w, "Commit: %s\n", s.SHA)
	fmt.Fprintf(w, "Timestamp: %s\n", n.now().UTC().Format(timestampLayout))
	fmt.Fprintln(w, "\nPipeline executado com sucesso!")
	fmt.Fprintln(w, banner)
}
