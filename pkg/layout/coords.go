package layout

// assignCoordinates turns ranks and in-layer slots into canvas geometry.
// Ranks advance left to right; nodes within a rank stack top to bottom and
// every layer is centered on the tallest one, so sparse layers sit in the
// vertical middle of the diagram instead of hugging the top edge.
//
// Above CompactThreshold nodes both gaps shrink by CompactScale. Node sizes
// stay fixed; only whitespace compresses, which keeps labels readable while
// bounding the canvas for dense graphs.
func (b *builder) assignCoordinates() {
	rankGap, nodeGap := b.opts.RankGap, b.opts.NodeGap
	if t := b.opts.CompactThreshold; t > 0 && b.vg.NodeCount() > t {
		rankGap *= b.opts.CompactScale
		nodeGap *= b.opts.CompactScale
	}

	layerHeight := func(n int) float64 {
		return float64(n)*b.opts.NodeHeight + float64(n-1)*nodeGap
	}

	maxHeight := 0.0
	for _, layer := range b.layers {
		if h := layerHeight(len(layer)); h > maxHeight {
			maxHeight = h
		}
	}

	b.positioned = make([]PositionedNode, 0, b.vg.NodeCount())
	b.byID = make(map[string]int, b.vg.NodeCount())

	for r, layer := range b.layers {
		x := float64(r) * (b.opts.NodeWidth + rankGap)
		yStart := (maxHeight - layerHeight(len(layer))) / 2

		for i, id := range layer {
			node, _ := b.vg.Node(id)
			b.byID[id] = len(b.positioned)
			b.positioned = append(b.positioned, PositionedNode{
				Node:   node,
				X:      x,
				Y:      yStart + float64(i)*(b.opts.NodeHeight+nodeGap),
				Width:  b.opts.NodeWidth,
				Height: b.opts.NodeHeight,
				Rank:   r,
			})
		}
	}

	b.width = float64(len(b.layers))*b.opts.NodeWidth + float64(len(b.layers)-1)*rankGap
	b.height = maxHeight
}
