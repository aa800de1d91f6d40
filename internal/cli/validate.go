package cli

import (
	"fmt"
)

type ValidateCmd struct {
	Files []string `arg:"" type:"existingfile" help:"Schedule files to check."`
}

func (c *ValidateCmd) Run(ctx *Context) error {
	invalid := 0
	for _, path := range c.Files {
		sched, _, err := LoadScheduleFile(path)
		if err != nil {
			invalid++
			fmt.Fprintf(ctx.Out, "%s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(ctx.Out, "%s: ok (%d shifts)\n", path, len(sched.Shifts))
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d schedule files are invalid", invalid, len(c.Files))
	}
	return nil
}
