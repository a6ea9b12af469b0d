package costumy

// Curve control points cross the interchange boundary in a curve-local
// frame: the control point is expressed as a fraction along the edge
// vector and a fraction along its perpendicular, so the curvature
// survives panel translation and uniform scaling.

// CurvatureToRelative converts an absolute control point into the
// curve-local frame of the edge from start to end. The X component is
// the projection of the control vector onto the edge as a fraction of
// the edge length; the Y component is the perpendicular offset as a
// fraction of the edge length, negative when the control point lies on
// the right of the edge direction. Both components are rounded to 5
// decimals, the precision the interchange format carries.
func CurvatureToRelative(start, end, control Point) Point {
	edge := end.Sub(start)
	edgeLen2 := edge.Dot(edge)
	if edgeLen2 == 0 {
		return Pt(0, 0)
	}
	cv := control.Sub(start)

	sx := cv.Dot(edge) / edgeLen2

	vert := cv.Sub(edge.Mul(sx))
	sy := vert.Length() / edge.Length()
	switch cross := cv.Cross(edge); {
	case cross > 0:
		sy = -sy
	case cross == 0:
		sy = 0
	}
	return Pt(roundTo(sx, 5), roundTo(sy, 5))
}

// CurvatureToAbsolute converts a curve-local control point back into
// world coordinates. It is the inverse of CurvatureToRelative up to
// the rounding applied there.
func CurvatureToAbsolute(start, end, relative Point) Point {
	edge := end.Sub(start)
	perp := Pt(-edge.Y, edge.X)
	return start.Add(edge.Mul(relative.X)).Add(perp.Mul(relative.Y))
}
