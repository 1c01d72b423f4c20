package stepfile

// GetCartesianPointFast parses only the nested coordinate list of an
// IFCCARTESIANPOINT without constructing a full DecodedEntity or
// intermediate Value tree, since this is the hottest leaf type in the
// geometry hot path (every vertex of every profile/face passes through
// it).
func (d *Decoder) GetCartesianPointFast(id uint32) (x, y, z float64, ok bool) {
	ref, found := d.idx.Lookup(id)
	if !found || ref.Type != "IFCCARTESIANPOINT" {
		return 0, 0, 0, false
	}
	open := indexByte(d.data, ref.Start, ref.End, '(')
	if open < 0 {
		return 0, 0, 0, false
	}
	close, err := skipBalanced(d.data, open)
	if err != nil {
		return 0, 0, 0, false
	}
	// Body is "(x, y [, z])" — the single nested list attribute.
	innerOpen := indexByte(d.data, open+1, close, '(')
	if innerOpen < 0 {
		return 0, 0, 0, false
	}
	innerClose, err := skipBalanced(d.data, innerOpen)
	if err != nil {
		return 0, 0, 0, false
	}
	p := &attrParser{data: d.data, pos: innerOpen + 1, end: innerClose}
	coords, err := p.parseValueList()
	if err != nil || len(coords) < 2 {
		return 0, 0, 0, false
	}
	fx, ok1 := coords[0].AsFloat()
	fy, ok2 := coords[1].AsFloat()
	if !ok1 || !ok2 {
		return 0, 0, 0, false
	}
	var fz float64
	if len(coords) >= 3 {
		fz, _ = coords[2].AsFloat()
	}
	return fx, fy, fz, true
}

// GetPolyLoopPointIDsFast returns the ordered list of referenced point ids
// in an IFCPOLYLOOP or IFCPOLYLINE without decoding anything beyond the
// single list-of-references attribute.
func (d *Decoder) GetPolyLoopPointIDsFast(id uint32) ([]uint32, bool) {
	ref, found := d.idx.Lookup(id)
	if !found || (ref.Type != "IFCPOLYLOOP" && ref.Type != "IFCPOLYLINE") {
		return nil, false
	}
	open := indexByte(d.data, ref.Start, ref.End, '(')
	if open < 0 {
		return nil, false
	}
	close, err := skipBalanced(d.data, open)
	if err != nil {
		return nil, false
	}
	innerOpen := indexByte(d.data, open+1, close, '(')
	if innerOpen < 0 {
		return nil, false
	}
	innerClose, err := skipBalanced(d.data, innerOpen)
	if err != nil {
		return nil, false
	}
	p := &attrParser{data: d.data, pos: innerOpen + 1, end: innerClose}
	refs, err := p.parseValueList()
	if err != nil {
		return nil, false
	}
	out := make([]uint32, 0, len(refs))
	for _, v := range refs {
		if rid, ok := v.AsEntityRef(); ok {
			out = append(out, rid)
		}
	}
	return out, true
}
