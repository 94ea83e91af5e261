package debug

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Debug output is controlled by the VFSH_DEBUG environment variable, a list
// of labels separated by ';' (e.g. "SHELL;VFS").
const EnvVar = "VFSH_DEBUG"

type Tselector string

const (
	ALWAYS  Tselector = "ALWAYS"
	SHELL   Tselector = "SHELL"
	VFS     Tselector = "VFS"
	HISTORY Tselector = "HISTORY"
	CONFIG  Tselector = "CONFIG"
)

var (
	session = uuid.NewString()

	once   sync.Once
	labels map[Tselector]bool
)

func init() {
	log.SetFlags(log.Ltime | log.Lmicroseconds)
}

// Session returns the id stamped on every debug line of this process.
func Session() string {
	return session
}

func loadLabels() {
	labels = make(map[Tselector]bool)
	s := os.Getenv(EnvVar)
	if s == "" {
		return
	}
	for _, l := range strings.Split(s, ";") {
		if l = strings.TrimSpace(l); l != "" {
			labels[Tselector(l)] = true
		}
	}
}

func Enabled(label Tselector) bool {
	once.Do(loadLabels)
	return label == ALWAYS || labels[label]
}

func DPrintf(label Tselector, format string, v ...interface{}) {
	if Enabled(label) {
		log.Printf("%v %v %v", session[:8], label, fmt.Sprintf(format, v...))
	}
}
