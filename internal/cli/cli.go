package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ahmedbadawy4/llm-pii-shield/internal/config"
	"github.com/ahmedbadawy4/llm-pii-shield/internal/harness"
)

// Commands harnessctl understands.
const (
	CmdHealth = "health"
	CmdSend   = "send"
	CmdStats  = "stats"
)

// Options is a parsed harnessctl invocation.
type Options struct {
	Command string
	Form    harness.Form
	Verbose bool
	Config  *config.Config
}

// Parse parses flags and environment into Options. The form is seeded from the
// runtime defaults first; flags given explicitly on the command line win.
func Parse(args []string) (Options, error) {
	fs, cfg := config.NewFlagSet("harnessctl")
	fs.SetOutput(io.Discard)

	var (
		flagForm harness.Form
		verbose  bool
	)
	fs.StringVar(&flagForm.BaseURL, "base", "", "Base URL of the chat API (overrides -api-base-url)")
	fs.StringVar(&flagForm.Model, "model", "", "Model identifier (overrides -default-model)")
	fs.StringVar(&flagForm.SystemPrompt, "system", "", "System prompt")
	fs.StringVar(&flagForm.UserPrompt, "prompt", "", "User message")
	fs.BoolVar(&flagForm.ShowPayload, "show-payload", false, "Print the outgoing payload")
	fs.BoolVar(&verbose, "v", false, "Print placeholders and trigger changes too")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			usage(os.Stdout)
			return Options{}, err
		}
		usage(os.Stderr)
		return Options{}, err
	}
	if err := cfg.Finish(); err != nil {
		return Options{}, err
	}

	if fs.NArg() != 1 {
		usage(os.Stderr)
		return Options{}, fmt.Errorf("expected exactly one command, got %d", fs.NArg())
	}
	cmd := fs.Arg(0)
	switch cmd {
	case CmdHealth, CmdSend, CmdStats:
	default:
		usage(os.Stderr)
		return Options{}, fmt.Errorf("unknown command %q", cmd)
	}

	var form harness.Form
	harness.Seed(&form, cfg.Runtime, "")
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "base":
			form.BaseURL = flagForm.BaseURL
		case "model":
			form.Model = flagForm.Model
		case "system":
			form.SystemPrompt = flagForm.SystemPrompt
		case "prompt":
			form.UserPrompt = flagForm.UserPrompt
		case "show-payload":
			form.ShowPayload = flagForm.ShowPayload
		}
	})

	return Options{Command: cmd, Form: form, Verbose: verbose, Config: cfg}, nil
}

func usage(out io.Writer) {
	fmt.Fprintln(out, "usage: harnessctl [flags] health|send|stats")
	fmt.Fprintln(out, "flags:")
	fmt.Fprintln(out, "  -base URL            Chat API base URL")
	fmt.Fprintln(out, "  -model NAME          Model identifier")
	fmt.Fprintln(out, "  -system PROMPT       System prompt")
	fmt.Fprintln(out, "  -prompt TEXT         User message")
	fmt.Fprintln(out, "  -show-payload        Print the outgoing payload")
	fmt.Fprintln(out, "  -admin-key KEY       X-Admin-Key for stats")
	fmt.Fprintln(out, "  -runtime-config FILE YAML runtime defaults")
	fmt.Fprintln(out, "  -request-timeout D   Upstream timeout (0 disables)")
	fmt.Fprintln(out, "  -proxy-url URL       Outbound HTTP proxy")
	fmt.Fprintln(out, "  -v                   Verbose output")
}
