package layout

// routeEdges emits one RoutedEdge per input edge, in input order and in the
// edge's original direction regardless of any flip during cycle removal.
//
// Each edge gets four waypoints: a source anchor on the side facing the
// target, two control points sharing the horizontal midpoint, and a target
// anchor. Renderers can draw the waypoints as a cubic curve or a polyline;
// either reads correctly.
func (b *builder) routeEdges() []RoutedEdge {
	routed := make([]RoutedEdge, 0, len(b.vg.Edges))
	for _, e := range b.vg.Edges {
		src := b.positioned[b.byID[e.From]]
		dst := b.positioned[b.byID[e.To]]

		var pts []Point
		if e.From == e.To {
			pts = selfLoop(src)
		} else {
			pts = elbow(src, dst)
		}

		routed = append(routed, RoutedEdge{Edge: e, Points: pts})
	}
	return routed
}

// elbow anchors the edge on the node sides facing each other. An edge whose
// original direction runs right to left (its source was ranked after its
// target) anchors on the opposite sides, so the line still leaves and enters
// through the facing borders.
func elbow(src, dst PositionedNode) []Point {
	p0 := Point{X: src.X + src.Width, Y: src.Y + src.Height/2}
	p3 := Point{X: dst.X, Y: dst.Y + dst.Height/2}
	if src.X > dst.X {
		p0.X = src.X
		p3.X = dst.X + dst.Width
	}

	midX := (p0.X + p3.X) / 2
	return []Point{
		p0,
		{X: midX, Y: p0.Y},
		{X: midX, Y: p3.Y},
		p3,
	}
}

// selfLoop draws a small arc over the node's top-right corner.
func selfLoop(n PositionedNode) []Point {
	right := Point{X: n.X + n.Width, Y: n.Y + n.Height/2}
	top := Point{X: n.X + n.Width/2, Y: n.Y}
	overshoot := n.Height / 2
	return []Point{
		right,
		{X: right.X + overshoot, Y: n.Y - overshoot},
		{X: top.X, Y: n.Y - overshoot},
		top,
	}
}
