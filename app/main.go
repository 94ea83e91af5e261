package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/Neev4n/vfs-shell/internal/config"
	"github.com/Neev4n/vfs-shell/internal/debug"
	"github.com/Neev4n/vfs-shell/internal/shell"
)

const usage = "Usage: vfsh <hostname> <vfs_archive_path> <log_file_path> <startup_script_path>"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 4 {
		fmt.Fprintln(stderr, usage)
		return 1
	}

	fs := afero.NewOsFs()
	cfg, err := config.FromEnv(fs)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	debug.DPrintf(debug.SHELL, "session %s", debug.Session())

	in, closeIn, err := lineReader(stdin, stdout)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer closeIn()

	s, err := shell.Start(context.Background(), shell.Options{
		Hostname:      args[0],
		Archive:       args[1],
		LogFile:       args[2],
		StartupScript: args[3],
		Fs:            fs,
		Config:        cfg,
		In:            in,
		Out:           stdout,
		Err:           stderr,
	})
	if errors.Is(err, shell.ErrExit) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if err := s.Run(); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

// lineReader uses readline when stdin is a terminal and a plain prompt
// reader otherwise.
func lineReader(stdin io.Reader, stdout io.Writer) (shell.LineReader, func(), error) {
	if f, ok := stdin.(*os.File); ok && readline.IsTerminal(int(f.Fd())) {
		rl, err := readline.NewEx(&readline.Config{
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
			Stdout:          stdout,
		})
		if err != nil {
			return nil, nil, errors.Wrap(err, "init readline")
		}
		return rl, func() { rl.Close() }, nil
	}
	return shell.NewLineReader(stdin, stdout), func() {}, nil
}
