package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"github.com/urfave/cli/v2"

	"njscore/pkg/driver"
	"njscore/pkg/errors"
	"njscore/pkg/lexer"
	"njscore/pkg/vm"
)

var (
	functionColor = color.New(color.FgMagenta).SprintfFunc()
	specialColor  = color.New(color.Bold).SprintfFunc()
	numberColor   = color.New(color.FgRed).SprintfFunc()
	stringColor   = color.New(color.FgGreen).SprintfFunc()
)

const historyFile = ".njscore_history"

// prompter is satisfied by liner.State and by the plain reader used when
// stdin is not a terminal.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

type dumbterm struct{ r *bufio.Reader }

func (d dumbterm) Prompt(p string) (string, error) {
	line, err := d.r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (d dumbterm) AppendHistory(string) {}

func repl(ctx *cli.Context) error {
	e, logger, err := newEngine(ctx)
	if err != nil {
		return err
	}
	defer logger.Sync()

	r, err := e.NewVM()
	if err != nil {
		return err
	}

	var p prompter
	if !liner.TerminalSupported() || !isatty.IsTerminal(os.Stdin.Fd()) {
		p = dumbterm{bufio.NewReader(os.Stdin)}
	} else {
		lr := liner.NewLiner()
		defer lr.Close()
		lr.SetCtrlCAborts(true)
		lr.SetWordCompleter(func(line string, pos int) (string, []string, string) {
			return e.CompleteLine(r, line, pos)
		})
		lr.SetTabCompletionStyle(liner.TabPrints)

		if home, err := os.UserHomeDir(); err == nil {
			path := filepath.Join(home, historyFile)
			if f, err := os.Open(path); err == nil {
				lr.ReadHistory(f)
				f.Close()
			}
			defer func() {
				if f, err := os.Create(path); err == nil {
					lr.WriteHistory(f)
					f.Close()
				}
			}()
		}
		p = lr
	}

	for {
		line, err := p.Prompt("> ")
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err == io.EOF {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" {
			return nil
		}
		p.AppendHistory(line)

		out, err := inspect(e, r, line)
		if err != nil {
			fmt.Fprintln(os.Stderr, errorColor("%s", errors.Describe(err)))
			continue
		}
		fmt.Println(out)
	}
}

// inspect evaluates a member chain and renders its value.
func inspect(e *driver.Engine, r *vm.Realm, line string) (string, error) {
	start, ref := lexer.TrailingReference(line)
	if start != 0 || ref != line || strings.HasSuffix(ref, ".") {
		return "", fmt.Errorf("only member chains such as Math.max can be inspected")
	}
	v, err := driver.Lookup(r, ref)
	if err != nil {
		return "", err
	}
	return render(e, r, v), nil
}

func render(e *driver.Engine, r *vm.Realm, v vm.Value) string {
	switch v.Type() {
	case vm.TypeUndefined, vm.TypeNull:
		return specialColor("%s", v.Inspect())
	case vm.TypeBoolean, vm.TypeNumber:
		return numberColor("%s", v.Inspect())
	case vm.TypeString:
		return stringColor("%q", v.AsString())
	case vm.TypeFunction:
		if name := e.FunctionName(r, v); name != "" {
			return functionColor("[Function: %s]", name)
		}
		return functionColor("[Function: %s]", v.AsObject().Name())
	}
	o := v.AsObject()
	keys := r.OwnKeys(o)
	if len(keys) == 0 {
		return fmt.Sprintf("[object %s]", o.Class())
	}
	return fmt.Sprintf("[object %s] { %s }", o.Class(), strings.Join(keys, ", "))
}
