package dispatch

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/holger24/AFD-sub001/internal/errors"
)

// Spawner starts an external helper and hands back a tracked process
// handle. The console uses ExecSpawner; tests substitute a fake.
type Spawner interface {
	Spawn(program string, args ...string) (pid int, proc Process, err error)
}

// ExecSpawner launches helpers through os/exec with the console's
// environment. Children get their own process group so the exit sweep
// signals them without touching the console itself.
type ExecSpawner struct {
	// WorkDir, when set, becomes the child's working directory.
	WorkDir string
}

// Spawn starts the program detached from the console's stdio.
func (s *ExecSpawner) Spawn(program string, args ...string) (int, Process, error) {
	cmd := exec.Command(program, args...)
	cmd.Dir = s.WorkDir
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return 0, nil, errors.WrapWithCode(err, errors.ErrSpawn,
			fmt.Sprintf("Couldn't start %s", program),
			"Make sure the program is installed and on your PATH.")
	}

	// Reap in the background so finished viewers don't linger as zombies.
	go func() { _ = cmd.Wait() }()

	return cmd.Process.Pid, &osProcess{p: cmd.Process}, nil
}

// osProcess adapts *os.Process to the table's Process interface.
type osProcess struct {
	p *os.Process
}

func (o *osProcess) Signal(sig syscall.Signal) error {
	return o.p.Signal(sig)
}

func (o *osProcess) Kill() error {
	return o.p.Kill()
}

// Alive probes the child with the null signal.
func (o *osProcess) Alive() bool {
	return o.p.Signal(syscall.Signal(0)) == nil
}
