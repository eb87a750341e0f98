package interact_test

import (
	"fmt"

	"github.com/matzehuels/infinityflow/pkg/interact"
	"github.com/matzehuels/infinityflow/pkg/mindmap"
)

func ExampleController_HandleKey() {
	tree := mindmap.Default(mindmap.WithIDGenerator(mindmap.NewSequenceGenerator("k")))
	c := interact.New(tree)

	_ = c.Select("n1")
	_, _ = c.HandleKey(interact.KeyTab)
	_ = c.SetEditText("Idea")
	_, _ = c.HandleKey(interact.KeyEnter)

	n, _ := c.Tree().Node(c.Selected())
	fmt.Println(n.ID, n.Text, n.ParentID)
	fmt.Println("can undo:", c.CanUndo())
	// Output:
	// k1 Idea n1
	// can undo: true
}
