package diagram_test

import (
	"fmt"

	"github.com/matzehuels/flowdeck/pkg/diagram"
)

func ExampleGraph_Attach() {
	g := diagram.New()
	start := diagram.NewElement(diagram.KindBox, diagram.R(0, 0, 80, 40))
	end := diagram.NewElement(diagram.KindDiamond, diagram.R(0, 100, 80, 40))
	arrow := diagram.NewConnector(diagram.KindArrow, diagram.Pt(40, 40), diagram.Pt(40, 100))
	_ = g.AddAll([]*diagram.Element{start, end, arrow})

	from, _ := start.ConnectionPoint(diagram.GripBottomMiddle)
	to, _ := end.ConnectionPoint(diagram.GripTopMiddle)
	_ = g.Attach(arrow.ID, diagram.GripStart, start.ID, from)
	_ = g.Attach(arrow.ID, diagram.GripEnd, end.ID, to)

	fmt.Println("Elements:", g.Len())
	fmt.Println("Connections:", g.ConnectionCount())
	fmt.Println("Valid:", g.Validate() == nil)
	// Output:
	// Elements: 3
	// Connections: 2
	// Valid: true
}

func ExampleGraph_Move() {
	g := diagram.New()
	box := diagram.NewElement(diagram.KindBox, diagram.R(0, 0, 80, 40))
	line := diagram.NewConnector(diagram.KindLine, diagram.Pt(40, 100), diagram.Pt(40, 40))
	_ = g.AddAll([]*diagram.Element{box, line})
	at, _ := box.ConnectionPoint(diagram.GripBottomMiddle)
	_ = g.Attach(line.ID, diagram.GripEnd, box.ID, at)

	// moving the shape drags the bound endpoint along
	_ = g.Move(box.ID, diagram.Vec(20, 0))
	fmt.Println(line.Start, line.End)
	// Output:
	// {40 100} {60 40}
}

func ExampleColor() {
	c := diagram.ARGB(0x80, 0x12, 0x34, 0x56)
	a, _, _, _ := c.Channels()
	fmt.Printf("%#08x %s %d\n", uint32(c), c.Hex(), a)
	// Output:
	// 0x80123456 #123456 128
}
