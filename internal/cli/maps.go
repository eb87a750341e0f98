package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/infinityflow/pkg/mindmap"
	"github.com/matzehuels/infinityflow/pkg/store"
)

// mapsCommand creates the "maps" command for documents in the store.
func (c *CLI) mapsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "maps",
		Aliases: []string{"map"},
		Short:   "Manage mind maps in the configured store",
	}

	cmd.AddCommand(c.mapsListCommand())
	cmd.AddCommand(c.mapsExportCommand())
	cmd.AddCommand(c.mapsImportCommand())
	cmd.AddCommand(c.mapsDeleteCommand())

	return cmd
}

// withStore opens the configured store for the duration of fn.
func (c *CLI) withStore(ctx context.Context, fn func(store.Store) error) error {
	st, err := c.newStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	return fn(st)
}

func (c *CLI) mapsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored mind maps",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				sums, err := st.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(sums) == 0 {
					printInfo("No mind maps in the %s store", c.Config.Storage.Backend)
					printNextStep("Create one", appName+" new --store")
					return nil
				}
				fmt.Println(summaryTable(sums, time.Now()))
				return nil
			})
		},
	}
}

func summaryTable(sums []store.Summary, now time.Time) string {
	rows := make([][]string, len(sums))
	for i, s := range sums {
		rows[i] = []string{s.ID, s.Title, fmt.Sprint(s.NodeCount), relativeTime(s.UpdatedAt, now)}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Title", "Nodes", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0 || col == 3:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		}).
		String()
}

func relativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

func (c *CLI) mapsExportCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:     "export <id>",
		Aliases: []string{"show"},
		Short:   "Write a stored mind map as a snapshot file",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				doc, err := st.Load(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("load %s: %w", args[0], err)
				}
				t, err := doc.Tree()
				if err != nil {
					return err
				}
				data, err := mindmap.Marshal(t)
				if err != nil {
					return err
				}
				if err := writeOutput(output, data); err != nil {
					return err
				}
				if output != stdio {
					printSuccess("Exported %s", doc.Title)
					printFile(output)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", stdio, "output file")
	return cmd
}

func (c *CLI) mapsImportCommand() *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Store a snapshot file as a new mind map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTree(args[0])
			if err != nil {
				return err
			}
			return c.withStore(cmd.Context(), func(st store.Store) error {
				doc := store.NewDocument(title, t)
				if err := st.Save(cmd.Context(), doc); err != nil {
					return err
				}
				printSuccess("Imported %s", doc.Title)
				printKeyValue("ID", doc.ID)
				printNextStep("Edit it", fmt.Sprintf("%s edit --id %s", appName, doc.ID))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "document title (default: root label)")
	return cmd
}

func (c *CLI) mapsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>...",
		Aliases: []string{"rm"},
		Short:   "Delete stored mind maps",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				for _, id := range args {
					if err := st.Delete(cmd.Context(), id); err != nil {
						return fmt.Errorf("delete %s: %w", id, err)
					}
					printSuccess("Deleted %s", id)
				}
				return nil
			})
		},
	}
}
