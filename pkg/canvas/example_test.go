package canvas_test

import (
	"fmt"

	"github.com/matzehuels/flowdeck/pkg/canvas"
	"github.com/matzehuels/flowdeck/pkg/diagram"
)

func ExampleCanvas_Drag() {
	c := canvas.New(nil, canvas.Options{})
	box := diagram.NewElement(diagram.KindBox, diagram.R(50, 100, 100, 40))
	arrow := diagram.NewConnector(diagram.KindArrow, diagram.Pt(0, 0), diagram.Pt(90, 95))
	c.Add(box, arrow)

	c.Select(arrow.ID)
	c.BeginDrag(diagram.GripEnd)
	applied, _ := c.Drag(diagram.Vec(2, 2), false)
	c.EndDrag()

	end := c.Graph().Element(arrow.ID)
	fmt.Println(applied, end.End, end.EndShape == box.ID)

	c.Undo()
	end = c.Graph().Element(arrow.ID)
	fmt.Println(end.End, end.EndShape == box.ID)
	// Output:
	// {10 5} {100 100} true
	// {90 95} false
}
