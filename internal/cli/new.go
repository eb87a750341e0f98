package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/infinityflow/pkg/mindmap"
	"github.com/matzehuels/infinityflow/pkg/store"
)

// newCommand creates the "new" command.
func (c *CLI) newCommand() *cobra.Command {
	var (
		root    string
		empty   bool
		toStore bool
	)

	cmd := &cobra.Command{
		Use:   "new [file]",
		Short: "Write a starter mind map",
		Long: `Write a starter mind map snapshot.

Without --empty the document holds a root with two branches and one
subtopic. With --store the document is saved to the configured store
instead of a file, and its id is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := mindmap.Default()
			if empty {
				t = mindmap.New(root)
			} else if root != "" {
				var err error
				if t, err = t.SetText(t.RootID(), root); err != nil {
					return err
				}
			}
			if toStore {
				return c.runNewInStore(cmd.Context(), t)
			}
			path := "mindmap.json"
			if len(args) == 1 {
				path = args[0]
			}
			return c.runNew(t, path)
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "root label (default \"Central Topic\")")
	cmd.Flags().BoolVar(&empty, "empty", false, "start with the root only")
	cmd.Flags().BoolVar(&toStore, "store", false, "save to the configured store instead of a file")

	return cmd
}

func (c *CLI) runNew(t *mindmap.Tree, path string) error {
	data, err := mindmap.Marshal(t)
	if err != nil {
		return err
	}
	if err := writeOutput(path, data); err != nil {
		return err
	}
	if path != stdio {
		printSuccess("Created mind map (%d nodes)", t.Len())
		printFile(path)
		printNextStep("Edit it", appName+" edit "+path)
	}
	return nil
}

func (c *CLI) runNewInStore(ctx context.Context, t *mindmap.Tree) error {
	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	doc := store.NewDocument("", t)
	if err := st.Save(ctx, doc); err != nil {
		return err
	}
	printSuccess("Stored mind map %s", StyleHighlight.Render(doc.ID))
	printNextStep("Edit it", appName+" edit --id "+doc.ID)
	return nil
}
