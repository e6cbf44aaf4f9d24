// ABOUTME: Fallback process handling for platforms without process groups
// ABOUTME: Kills only the direct child on timeout

//go:build !unix

package hooks

import "os/exec"

func setProcGroup(*exec.Cmd) {}

func killProcGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
