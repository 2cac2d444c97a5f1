package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	_ "lispy/opdefs"
	"lispy/session"

	"github.com/alexflint/go-arg"
	"github.com/peterh/liner"
	"go.uber.org/zap"
)

const (
	promptMain = "lispy> "
	promptCont = "...    "
)

type ReplArgs struct {
	Files        []string `arg:"positional" help:"scripts to run instead of starting the REPL"`
	LinerHistory string   `arg:"--liner-history,env:LISPY_LINER_HISTORY" default:".lispy_history" help:"line editing history, relative to the home directory"`
}

func main() {
	var flags struct {
		session.SessionArgs
		ReplArgs
	}
	arg.MustParse(&flags)
	log.SetOutput(ioutil.Discard)

	sess, err := session.CreateFromArgs(&flags.SessionArgs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start session: %v\n", err)
		os.Exit(1)
	}
	r := &repl{
		executor: sess.Executor,
		history:  sess.History,
		logger:   sess.Logger,
		out:      os.Stdout,
		errOut:   os.Stderr,
	}

	code := 0
	if len(flags.Files) > 0 {
		if !r.load(context.Background(), flags.Files) {
			code = 1
		}
	} else {
		code = interactive(r, flags.LinerHistory)
	}
	if err := sess.Close(); err != nil {
		sess.Logger.Warn("failed to close session", zap.Error(err))
	}
	os.Exit(code)
}

func interactive(r *repl, historyFile string) int {
	fmt.Println("lispy. Type :help for builtins or :quit to exit.")

	histPath := historyFile
	if home, err := os.UserHomeDir(); err == nil && !filepath.IsAbs(historyFile) {
		histPath = filepath.Join(home, historyFile)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetWordCompleter(r.complete)
	ln.SetTabCompletionStyle(liner.TabPrints)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	ctx := context.Background()
	for {
		src, ok := readForm(ln)
		if !ok {
			fmt.Println()
			return 0
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		if isCommand(src) {
			ln.AppendHistory(src)
			if r.command(ctx, src) {
				return 0
			}
			continue
		}
		if r.eval(ctx, src) {
			ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		}
	}
}

// readForm reads lines until they hold whole expressions. Ctrl+C drops what
// was typed so far; Ctrl+D ends the session.
func readForm(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if isCommand(src) || !needsMore(src) {
			return src, true
		}
	}
}
