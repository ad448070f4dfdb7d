package index

// Occurrence records how many times one keyword appears in one document.
type Occurrence struct {
	DocID     string `json:"doc_id"`
	Frequency int    `json:"frequency"`
}

// PostingList is the occurrence list of a single keyword, ordered by
// non-increasing Frequency. A document appears at most once.
type PostingList []Occurrence

// DocIDs returns the document ids of the list in order, at most limit of them
// (all of them when limit <= 0).
func (pl PostingList) DocIDs(limit int) []string {
	n := len(pl)
	if limit > 0 && limit < n {
		n = limit
	}
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = pl[i].DocID
	}
	return ids
}

// InsertLast moves the final element of list, a newly appended occurrence, to
// its rank among list[0:n-1], which must already be ordered. The slot is found
// by binary search; on an equal frequency the new occurrence is placed at the
// probed index, ahead of the equal entry. The probed midpoints are returned in
// visiting order, or nil when the list holds fewer than two elements.
func InsertLast(list PostingList) []int {
	n := len(list)
	if n < 2 {
		return nil
	}
	last := list[n-1]
	probes := make([]int, 0, 8)
	low, high, target := 0, n-2, 0
	for high >= low {
		mid := (low + high) / 2
		probes = append(probes, mid)
		switch f := list[mid].Frequency; {
		case last.Frequency == f:
			target = mid
			high = low - 1
		case last.Frequency < f:
			low = mid + 1
			target = mid + 1
		default:
			high = mid - 1
			target = mid
		}
	}
	copy(list[target+1:], list[target:n-1])
	list[target] = last
	return probes
}

// IsSorted reports whether list is ordered by non-increasing frequency.
func IsSorted(list PostingList) bool {
	for i := 1; i < len(list); i++ {
		if list[i-1].Frequency < list[i].Frequency {
			return false
		}
	}
	return true
}
