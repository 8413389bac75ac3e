// Package menu runs the interactive numbered selection loop over the
// analysis catalog.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/KaramelBytes/crocstat-cli/internal/analysis"
	"github.com/KaramelBytes/crocstat-cli/internal/dataset"
	"github.com/apex/log"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

const (
	menuWidth   = 80
	columnWidth = 40
)

var errExit = errors.New("exit requested")

// Options configures a menu session.
type Options struct {
	In  io.Reader
	Out io.Writer
	// Catalog defaults to analysis.Catalog().
	Catalog  []analysis.Analysis
	Analysis analysis.Options
	// Pause waits for ENTER after each report or rejected input.
	Pause bool
}

type session struct {
	opt   Options
	table *dataset.Table
	lines <-chan string
	title *color.Color
	warn  *color.Color
	fail  *color.Color
	ok    *color.Color
}

// Run shows the menu until the user picks 0, input ends, or ctx is done.
// Errors raised by analyses are reported and the loop continues.
func Run(ctx context.Context, t *dataset.Table, opt Options) error {
	if opt.Catalog == nil {
		opt.Catalog = analysis.Catalog()
	}
	if opt.In == nil {
		opt.In = os.Stdin
	}
	if opt.Out == nil {
		opt.Out = os.Stdout
	}
	s := &session{
		opt:   opt,
		table: t,
		lines: readLines(ctx, opt.In),
		title: color.New(color.FgCyan, color.Bold),
		warn:  color.New(color.FgYellow),
		fail:  color.New(color.FgRed),
		ok:    color.New(color.FgGreen),
	}
	for {
		s.show()
		choice, ok := s.read(ctx, "Digite sua opção (0-"+strconv.Itoa(len(opt.Catalog))+"): ")
		if !ok {
			if ctx.Err() != nil {
				s.warn.Fprintln(opt.Out, "\n\nPrograma interrompido pelo usuário. Até mais!")
				return nil
			}
			s.goodbye()
			return nil
		}
		err := s.handle(ctx, choice)
		if errors.Is(err, errExit) {
			s.goodbye()
			return nil
		}
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			s.warn.Fprintln(opt.Out, "\n\nPrograma interrompido pelo usuário. Até mais!")
			return nil
		}
	}
}

func (s *session) goodbye() {
	s.ok.Fprintln(s.opt.Out, "\nObrigado por usar o Analisador de Crocodilos! Até mais!")
}

func (s *session) show() {
	out := s.opt.Out
	banner := strings.Repeat("=", menuWidth)
	fmt.Fprintln(out, "\n"+banner)
	s.title.Fprintln(out, "🐊 ANÁLISE INTERATIVA DO DATASET DE CROCODILOS 🐊")
	fmt.Fprintln(out, banner)
	fmt.Fprintf(out, "Escolha uma das %d opções de análise:\n\n", len(s.opt.Catalog))
	options := make([]string, len(s.opt.Catalog))
	for i, a := range s.opt.Catalog {
		options[i] = runewidth.FillRight(strconv.Itoa(a.Number)+".", 4) + a.Label
	}
	for i := 0; i < len(options); i += 2 {
		left := options[i]
		right := ""
		if i+1 < len(options) {
			right = options[i+1]
		}
		fmt.Fprintln(out, strings.TrimRight(runewidth.FillRight(left, columnWidth)+" "+right, " "))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "0.  Sair")
	fmt.Fprintln(out, banner)
}

func (s *session) handle(ctx context.Context, choice string) error {
	if choice == "0" {
		return errExit
	}
	n, err := strconv.Atoi(choice)
	if err != nil {
		s.warn.Fprintln(s.opt.Out, "Por favor, digite apenas números!")
		s.pause(ctx)
		return nil
	}
	var picked *analysis.Analysis
	for i := range s.opt.Catalog {
		if s.opt.Catalog[i].Number == n {
			picked = &s.opt.Catalog[i]
			break
		}
	}
	if picked == nil {
		s.warn.Fprintf(s.opt.Out, "Opção inválida! Por favor, digite um número de 0 a %d.\n", len(s.opt.Catalog))
		s.pause(ctx)
		return nil
	}
	log.WithField("analysis", picked.Key).Debug("running analysis")
	fmt.Fprint(s.opt.Out, "\n\n")
	rep, err := picked.Run(s.table, s.opt.Analysis)
	if err != nil {
		s.fail.Fprintf(s.opt.Out, "Erro inesperado: %v\n", err)
	} else if _, err := rep.WriteTo(s.opt.Out); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	s.pause(ctx)
	return nil
}

func (s *session) pause(ctx context.Context) {
	if !s.opt.Pause {
		return
	}
	s.read(ctx, "\nPressione ENTER para continuar...")
}

// read prints prompt and waits for the next input line.
func (s *session) read(ctx context.Context, prompt string) (string, bool) {
	fmt.Fprint(s.opt.Out, prompt)
	select {
	case <-ctx.Done():
		return "", false
	case line, ok := <-s.lines:
		if !ok {
			return "", false
		}
		return strings.TrimSpace(line), true
	}
}

// readLines feeds input lines to a channel so a blocked read does not keep
// the loop from observing cancellation.
func readLines(ctx context.Context, in io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case ch <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil {
			log.WithError(err).Warn("menu: reading input failed")
		}
	}()
	return ch
}
