package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// validateCommand creates the "validate" command. Each file is checked
// against every tree invariant; the command fails if any file does.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check mind map snapshots",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				t, err := loadTree(path)
				if err != nil {
					failed++
					printError("%v", err)
					continue
				}
				hidden := t.Len() - len(t.Visible())
				if hidden > 0 {
					printSuccess("%s: %d nodes (%d collapsed away)", path, t.Len(), hidden)
				} else {
					printSuccess("%s: %d nodes", path, t.Len())
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files invalid", failed, len(args))
			}
			return nil
		},
	}
}
