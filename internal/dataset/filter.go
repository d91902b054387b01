package dataset

// Filter selects the records of src dated within [start, end], both ends
// inclusive. Records with InvalidDate never match. Invalid bounds or
// start after end yield an empty view. The dataset is never modified.
func Filter(src Source, start, end Date) *View {
	v := &View{ds: src.Dataset(), start: start, end: end}
	if !start.Valid() || !end.Valid() || start.After(end) {
		return v
	}
	for i := 0; i < src.Len(); i++ {
		r := src.At(i)
		if r.Date.Within(start, end) {
			v.idx = append(v.idx, r.Index)
		}
	}
	return v
}

// All returns a view over every record of src.
func All(src Source) *View {
	v := &View{ds: src.Dataset(), idx: make([]int, 0, src.Len())}
	for i := 0; i < src.Len(); i++ {
		v.idx = append(v.idx, src.At(i).Index)
	}
	return v
}
