package reports

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/atinyakov/ReportKeeper/internal/models"
)

// ErrOutOfRange is returned by Move for positions outside the list.
var ErrOutOfRange = errors.New("position out of range")

// Reindex sets every element's Index to its position in list.
func Reindex(list []models.Report) {
	for i := range list {
		list[i].Index = i
	}
}

// Move returns a copy of list with the element at from placed at to; the
// elements in between shift by one. The result is reindexed.
func Move(list []models.Report, from, to int) ([]models.Report, error) {
	if from < 0 || from >= len(list) {
		return nil, fmt.Errorf("%w: from=%d len=%d", ErrOutOfRange, from, len(list))
	}
	if to < 0 || to >= len(list) {
		return nil, fmt.Errorf("%w: to=%d len=%d", ErrOutOfRange, to, len(list))
	}

	out := slices.Clone(list)
	moved := out[from]
	out = slices.Delete(out, from, from+1)
	out = slices.Insert(out, to, moved)
	Reindex(out)
	return out, nil
}

func byIndex(a, b models.Report) int {
	return cmp.Compare(a.Index, b.Index)
}

// isDense reports whether the indices of list are exactly 0..len-1.
func isDense(list []models.Report) bool {
	seen := make([]bool, len(list))
	for _, r := range list {
		if r.Index < 0 || r.Index >= len(list) || seen[r.Index] {
			return false
		}
		seen[r.Index] = true
	}
	return true
}
