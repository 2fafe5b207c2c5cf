package geometry

import "math"

// linkPath inserts a straight line of points between two anchors, endpoints
// included. Integer interpolation keeps the path reproducible across
// platforms.
func (e *Engine) linkPath(start, end Point) {
	const steps = 5
	for step := int32(0); step <= steps; step++ {
		point := NewPoint(e.dimensions)
		for i := range point.Coords {
			delta := end.Coords[i] - start.Coords[i]
			point.Coords[i] = start.Coords[i] + delta*step/steps
		}
		e.active.Add(point)
	}
}

// stampFeature decorates an anchor visited by the setup phrase with a
// geometric feature. Which feature and how large depend on the character and
// its position in the phrase, so the same character stamps differently at
// different points of the phrase.
func (e *Engine) stampFeature(center Point, code uint32, index uint64) {
	size := 10 + int(code%20)
	featureSeed := e.seed ^ uint64(code) ^ index

	switch (code + uint32(index)) % 5 {
	case 0:
		e.featureSpike(center, featureSeed, size)
	case 1:
		e.featureBlob(center, featureSeed, size)
	case 2:
		e.featureRing(center, featureSeed, size)
	case 3:
		e.featureSpiral(center, featureSeed, size)
	default:
		e.featureScatter(center, featureSeed, size)
	}
}

// buildFallback populates the structure when setup ran with an empty phrase.
// Every alphabet anchor gets a feature, and the first anchors are chained
// together so the structure is connected rather than a disjoint scatter.
func (e *Engine) buildFallback(alphabet []uint32) {
	anchors := make([]Point, 0, len(alphabet))

	for _, code := range alphabet {
		anchor, ok := e.anchors[code]
		if !ok {
			anchor = PointFromSeed(e.seed^uint64(code), e.dimensions, e.rangeBound)
			e.anchors[code] = anchor
		}
		e.active.Add(anchor)
		anchors = append(anchors, anchor)

		featureSeed := e.seed ^ uint64(code)
		switch featureSeed % 5 {
		case 0:
			e.featureSpike(anchor, featureSeed, 5)
		case 1:
			e.featureBlob(anchor, featureSeed, 6)
		case 2:
			e.featureRing(anchor, featureSeed, 7)
		case 3:
			e.featureSpiral(anchor, featureSeed, 8)
		default:
			e.featureScatter(anchor, featureSeed, 5)
		}
	}

	limit := len(anchors)
	if limit > 30 {
		limit = 30
	}
	for i := 0; i < limit; i++ {
		if i+1 < len(anchors) {
			e.linkPath(anchors[i], anchors[(i+1)%len(anchors)])
		}
	}
}

// featureSpike draws a straight ray from the center. The direction is one
// of the 3^N lattice directions, drawn once.
func (e *Engine) featureSpike(center Point, seed uint64, size int) {
	state := seed
	direction := make([]int32, e.dimensions)
	for i := range direction {
		state = lcgNext(state)
		direction[i] = int32(state%3) - 1
	}

	for i := int32(1); i <= int32(size); i++ {
		point := center.Clone()
		for dim := range point.Coords {
			point.Coords[dim] += direction[dim] * i
		}
		e.active.Add(point)
	}
}

// featureBlob scatters points in a tight cloud around the center.
func (e *Engine) featureBlob(center Point, seed uint64, size int) {
	state := seed
	for i := 0; i < size; i++ {
		point := center.Clone()
		for dim := range point.Coords {
			state = lcgNext(state)
			point.Coords[dim] += int32(state%5) - 2
		}
		e.active.Add(point)
	}
}

// featureRing draws a circle in the first two dimensions, with jitter on the
// third when the structure has one.
func (e *Engine) featureRing(center Point, seed uint64, size int) {
	state := seed
	radius := int32(size / 3)
	dims3 := e.dimensions
	if dims3 > 3 {
		dims3 = 3
	}

	for i := 0; i < size; i++ {
		angle := float64(i) / float64(size) * 2 * math.Pi
		point := center.Clone()
		if dims3 >= 2 {
			point.Coords[0] += int32(float64(radius) * math.Cos(angle))
			point.Coords[1] += int32(float64(radius) * math.Sin(angle))
		}
		if dims3 >= 3 {
			state = lcgNext(state)
			point.Coords[2] += int32(state%5) - 2
		}
		e.active.Add(point)
	}
}

// featureSpiral draws an expanding spiral in the first three dimensions and
// jitters the remaining ones.
func (e *Engine) featureSpiral(center Point, seed uint64, size int) {
	state := seed
	dims3 := e.dimensions
	if dims3 > 3 {
		dims3 = 3
	}

	for i := 1; i <= size; i++ {
		angle := float64(i) / 4.0 * math.Pi
		radius := int32(i / 2)
		point := center.Clone()
		if dims3 >= 2 {
			point.Coords[0] += int32(float64(radius) * math.Cos(angle))
			point.Coords[1] += int32(float64(radius) * math.Sin(angle))
			if dims3 >= 3 {
				state = lcgNext(state)
				point.Coords[2] += int32(state%3) + int32(i/3)
			}
		}
		for dim := 3; dim < e.dimensions; dim++ {
			state = lcgNext(state)
			point.Coords[dim] += int32(state%7) - 3
		}
		e.active.Add(point)
	}
}

// featureScatter sprays loose points around the center.
func (e *Engine) featureScatter(center Point, seed uint64, size int) {
	state := seed
	for i := 0; i < size; i++ {
		point := center.Clone()
		for dim := range point.Coords {
			state = lcgNext(state)
			point.Coords[dim] += int32(state%11) - 5
		}
		e.active.Add(point)
	}
}
