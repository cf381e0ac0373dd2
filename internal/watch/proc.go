package watch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/picogen/picogen/internal/config"
)

// serverProc is a managed dev-server subprocess: the running command, its
// captured output when request logging is suppressed, and a channel closed
// out by Wait.
type serverProc struct {
	cmd    *exec.Cmd
	stdout bytes.Buffer
	stderr bytes.Buffer
	done   chan error
}

// launchServer re-executes this binary in server mode, handing it the full
// option set as a JSON blob through the config command. A relaunch after a
// change passes reload=true so the fresh server starts with the reload flag
// pre-armed.
func launchServer(cfg *config.Config, reload bool) (*serverProc, error) {
	child := *cfg
	child.Mode = "serv"
	if reload {
		child.Mode = "servreload"
	}
	blob, err := json.Marshal(&child)
	if err != nil {
		return nil, fmt.Errorf("encode server options: %w", err)
	}

	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate executable: %w", err)
	}

	p := &serverProc{
		cmd:  exec.Command(exe, "config", string(blob)),
		done: make(chan error, 1),
	}
	if cfg.NoLog {
		p.cmd.Stdout = &p.stdout
		p.cmd.Stderr = &p.stderr
	} else {
		p.cmd.Stdout = os.Stdout
		p.cmd.Stderr = os.Stderr
	}

	if err := p.cmd.Start(); err != nil {
		return nil, fmt.Errorf("start server: %w", err)
	}
	go func() { p.done <- p.cmd.Wait() }()

	// Grace window to catch servers that die immediately, e.g. a port
	// already in use or a broken page tree.
	select {
	case <-p.done:
		p.dumpOutput()
		return nil, errors.New("server start failed")
	case <-time.After(time.Second):
		return p, nil
	}
}

// stop kills the child and reaps it.
func (p *serverProc) stop() {
	_ = p.cmd.Process.Kill()
	<-p.done
}

// dumpOutput prints the child's exit status and any captured output. Called
// after the process has been reaped.
func (p *serverProc) dumpOutput() {
	if p.cmd.ProcessState != nil {
		fmt.Fprintf(os.Stderr, "Server return code: %d\n", p.cmd.ProcessState.ExitCode())
	}
	if p.stdout.Len() > 0 {
		fmt.Fprintf(os.Stderr, "Server output:\n%s\n", p.stdout.String())
	}
	if p.stderr.Len() > 0 {
		fmt.Fprintf(os.Stderr, "%s\n", p.stderr.String())
	}
}
