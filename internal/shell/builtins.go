package shell

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/Neev4n/vfs-shell/internal/calendar"
	"github.com/Neev4n/vfs-shell/internal/clock"
	"github.com/Neev4n/vfs-shell/internal/vfs"
)

const calUsage = "usage: cal [year [month]]"

func (s *Shell) registerBuiltins() {

	s.builtins["exit"] = func(args []string, s *Shell) error {
		if err := s.history.Save(); err != nil {
			return err
		}
		return ErrExit
	}

	s.builtins["cd"] = func(args []string, s *Shell) error {
		target := "/"
		if len(args) > 0 {
			target = args[0]
		}

		if dir, ok := s.dir("cd", target); ok {
			s.cwd = dir
		}
		return nil
	}

	s.builtins["pwd"] = func(args []string, s *Shell) error {
		fmt.Fprintln(s.Out, s.vfs.Virtual(s.cwd))
		return nil
	}

	s.builtins["ls"] = func(args []string, s *Shell) error {
		dir := s.cwd
		if len(args) > 0 {
			var ok bool
			if dir, ok = s.dir("ls", args[0]); !ok {
				return nil
			}
		}

		infos, err := s.vfs.List(dir)
		if err != nil {
			return err
		}
		for _, info := range infos {
			fmt.Fprintln(s.Out, info.Name())
		}
		return nil
	}

	s.builtins["tree"] = func(args []string, s *Shell) error {
		dir := s.cwd
		if len(args) > 0 {
			var ok bool
			if dir, ok = s.dir("tree", args[0]); !ok {
				return nil
			}
		}

		return s.vfs.Walk(dir, func(depth int, p string, info os.FileInfo) error {
			fmt.Fprintln(s.Out, strings.Repeat("  ", depth)+info.Name())
			return nil
		})
	}

	s.builtins["cal"] = func(args []string, s *Shell) error {
		nums := make([]int, len(args))
		for i, arg := range args {
			n, err := strconv.Atoi(arg)
			if err != nil {
				s.errorf("cal: %s: not a number", arg)
				s.errorf(calUsage)
				return nil
			}
			nums[i] = n
		}

		var (
			out string
			err error
		)
		switch len(nums) {
		case 0:
			now := clock.Now()
			out, err = calendar.Month(now.Year(), int(now.Month()))
		case 1:
			out, err = calendar.Year(nums[0])
		case 2:
			out, err = calendar.Month(nums[0], nums[1])
		default:
			s.errorf(calUsage)
			return nil
		}
		if err != nil {
			s.errorf("cal: %v", err)
			return nil
		}

		fmt.Fprint(s.Out, out)
		return nil
	}
}

// dir resolves target to a directory for cmd, reporting failures on Err.
func (s *Shell) dir(cmd, target string) (string, bool) {
	p, err := s.vfs.Dir(s.cwd, target)
	if err == nil {
		return p, true
	}

	switch {
	case errors.Is(err, vfs.ErrOutsideRoot):
		s.errorf("%s: %s: Outside of filesystem root", cmd, target)
	case s.exists(target):
		s.errorf("%s: %s: Not a directory", cmd, target)
	default:
		s.errorf("%s: %s: No such file or directory", cmd, target)
	}
	return "", false
}

func (s *Shell) exists(target string) bool {
	p, err := s.vfs.Resolve(s.cwd, target)
	return err == nil && s.vfs.Exists(p)
}
