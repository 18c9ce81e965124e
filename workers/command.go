package workers

import (
	"log"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// CommandWorker writes each detection's region to a temporary WAVE file,
// substitutes {file} in a command template, and invokes it through the
// shell, per spec.md §4.G "Command-line worker".
//
// Grounded on CommandLineWorker in original_source/auditok/workers.py,
// which shells out with os.system; here exec.Command is used instead of
// os/exec-via-os.system so the command line isn't re-parsed by a second
// shell layer on every platform.
type CommandWorker struct {
	*base
	command string
	logger  *log.Logger
}

// NewCommandWorker constructs and starts a CommandWorker. command must
// contain the placeholder "{file}".
func NewCommandWorker(command string, logger *log.Logger) *CommandWorker {
	w := &CommandWorker{command: command, logger: logger}
	w.base = newBase(DefaultTimeout, w.processMessage, nil)
	return w
}

func (w *CommandWorker) processMessage(msg Message) {
	tmp, err := os.CreateTemp("", "auditok-region-*.wav")
	if err != nil {
		if w.logger != nil {
			w.logger.Printf("[COMMAND]: detection %d: creating temp file: %v", msg.Detection.ID, err)
		}
		return
	}
	filename := tmp.Name()
	tmp.Close()
	defer os.Remove(filename)

	if _, err := msg.Region.Save(filename, "wav"); err != nil {
		if w.logger != nil {
			w.logger.Printf("[COMMAND]: detection %d: saving region: %v", msg.Detection.ID, err)
		}
		return
	}

	commandLine := strings.ReplaceAll(w.command, "{file}", filename)
	shell, flag := "/bin/sh", "-c"
	if runtime.GOOS == "windows" {
		shell, flag = "cmd", "/C"
	}
	cmd := exec.Command(shell, flag, commandLine)
	if err := cmd.Run(); err != nil && w.logger != nil {
		w.logger.Printf("[COMMAND]: detection %d: command %q: %v", msg.Detection.ID, commandLine, err)
		return
	}
	if w.logger != nil {
		w.logger.Printf("[COMMAND]: detection %d command: %q", msg.Detection.ID, commandLine)
	}
}
