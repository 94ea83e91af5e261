package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/Neev4n/vfs-shell/internal/config"
	"github.com/Neev4n/vfs-shell/internal/debug"
	"github.com/Neev4n/vfs-shell/internal/history"
	"github.com/Neev4n/vfs-shell/internal/vfs"
)

// ErrExit is returned by the exit builtin once history has been saved.
var ErrExit = errors.New("exit")

type Builtin func(args []string, s *Shell) error

var errColor = color.New(color.FgRed)

type Options struct {
	Hostname      string
	Archive       string
	LogFile       string
	StartupScript string

	// Fs defaults to the host filesystem.
	Fs     afero.Fs
	Config *config.Config
	Parser Parser

	In  LineReader
	Out io.Writer
	Err io.Writer
}

type Shell struct {
	hostname string
	fs       afero.Fs
	vfs      *vfs.FS
	cwd      string
	history  *history.Log
	parser   Parser
	builtins map[string]Builtin

	in  LineReader
	Out io.Writer
	Err io.Writer
}

// New extracts opts.Archive into the configured work directory and returns
// a shell positioned at the archive root. The startup script is not run;
// see Start.
func New(ctx context.Context, opts Options) (*Shell, error) {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Parser == nil {
		opts.Parser = QuoteParser{}
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.In == nil {
		opts.In = NewLineReader(os.Stdin, opts.Out)
	}
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	summary, err := vfs.ExtractFile(ctx, opts.Fs, opts.Archive, cfg.WorkDir)
	if err != nil {
		return nil, err
	}
	root, err := vfs.DetectRoot(opts.Fs, cfg.WorkDir, cfg.RootDir, summary)
	if err != nil {
		return nil, err
	}
	debug.DPrintf(debug.SHELL, "host %s root %s (%v)", opts.Hostname, root, summary)

	s := &Shell{
		hostname: opts.Hostname,
		fs:       opts.Fs,
		vfs:      vfs.New(opts.Fs, root, vfs.WithSortedListing(cfg.SortListing)),
		cwd:      root,
		history: history.New(opts.Fs, opts.LogFile,
			history.WithTimeFormat(cfg.History.TimeFormat),
			history.WithFlushEachCommand(cfg.History.FlushEachCommand)),
		parser:   opts.Parser,
		builtins: make(map[string]Builtin),
		in:       opts.In,
		Out:      opts.Out,
		Err:      opts.Err,
	}
	s.registerBuiltins()
	return s, nil
}

// Start builds the shell and runs the startup script through it. If the
// script ends the session the shell is returned together with ErrExit.
func Start(ctx context.Context, opts Options) (*Shell, error) {
	s, err := New(ctx, opts)
	if err != nil {
		return nil, err
	}
	if opts.StartupScript == "" {
		return s, nil
	}
	return s, s.Source(opts.StartupScript)
}

func (s *Shell) Hostname() string {
	return s.hostname
}

// Cwd is the host path of the current directory.
func (s *Shell) Cwd() string {
	return s.cwd
}

func (s *Shell) Root() string {
	return s.vfs.Root()
}

func (s *Shell) History() []history.Entry {
	return s.history.Entries()
}

func (s *Shell) Prompt() string {
	return fmt.Sprintf("%s: %s $ ", s.hostname, s.cwd)
}

// Run reads and executes lines until exit or end of input.
func (s *Shell) Run() error {
	for {
		s.in.SetPrompt(s.Prompt())

		line, err := s.in.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				debug.DPrintf(debug.SHELL, "end of input")
				return s.history.Save()
			}
			return err
		}

		if err := s.Execute(line); err != nil {
			if errors.Is(err, ErrExit) {
				return nil
			}
			return err
		}
	}
}

// Source executes every line of the script at path in order, with
// surrounding whitespace removed.
func (s *Shell) Source(path string) error {
	f, err := s.fs.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open startup script %s", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if err := s.Execute(strings.TrimSpace(scanner.Text())); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "read startup script %s", path)
	}
	return nil
}

// Execute records line in the history exactly as given and dispatches it.
// Only ErrExit is returned; every other failure is reported on Err.
func (s *Shell) Execute(line string) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	if err := s.history.Record(line); err != nil {
		s.errorf("history: %v", err)
	}

	fields, err := s.parser.Parse(line)
	if err != nil {
		s.errorf("parse error: %v", err)
		return nil
	}
	if len(fields) == 0 {
		return nil
	}

	name, args := fields[0], fields[1:]
	fn, ok := s.builtins[name]
	if !ok {
		fmt.Fprintf(s.Out, "Unknown command: %s\n", name)
		return nil
	}

	debug.DPrintf(debug.SHELL, "%s %q", name, args)
	if err := fn(args, s); err != nil {
		if errors.Is(err, ErrExit) {
			return ErrExit
		}
		s.errorf("%s: %v", name, err)
	}
	return nil
}

func (s *Shell) errorf(format string, args ...interface{}) {
	errColor.Fprintf(s.Err, format+"\n", args...)
}
