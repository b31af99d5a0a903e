package orchestrator

import (
	"bufio"
	"strings"

	"imgsorter/internal/report"
)

// confirm asks the user to approve a write run. Accepted answers:
//
//	y - proceed with the write pass
//	n - cancel the run
//	d - run as a simulation instead
//
// Simulations and silent runs skip the prompt. An exhausted or unreadable
// input cancels, never writes.
func (o *Orchestrator) confirm() error {
	if o.Cfg.DryRun || o.Cfg.Silent {
		return nil
	}

	scan := bufio.NewScanner(o.In)
	for {
		o.printf("%s", report.Magenta("Proceed? [y]es / [n]o / [d]ry run first:"))
		if !scan.Scan() {
			return ErrCancelled
		}

		switch strings.ToLower(strings.TrimSpace(scan.Text())) {
		case "y", "yes":
			return nil
		case "n", "no":
			return ErrCancelled
		case "d", "dry":
			o.Cfg.DryRun = true
			return nil
		}
	}
}
