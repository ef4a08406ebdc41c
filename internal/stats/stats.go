// Package stats derives rankings and target projections from aggregated
// attendance.
package stats

import (
	"math"
	"sort"

	"github.com/sadopc/rollcall/internal/store"
)

// Ranking splits the subjects that have held classes into the best one, the
// worst one and everything in between.
type Ranking struct {
	Best   *store.SubjectWithAttendance
	Worst  *store.SubjectWithAttendance
	Others []store.SubjectWithAttendance
}

// Rank orders subjects by attendance percentage, highest first. Subjects
// with no held classes are left out. Equal percentages fall back to subject
// id so the result does not depend on input order. Worst is set only when at
// least two subjects qualify.
func Rank(subjects []store.SubjectWithAttendance) Ranking {
	type ranked struct {
		subject store.SubjectWithAttendance
		pct     float64
	}
	var qualified []ranked
	for _, s := range subjects {
		if p := s.Percentage(); p != nil {
			qualified = append(qualified, ranked{subject: s, pct: *p})
		}
	}
	sort.SliceStable(qualified, func(i, j int) bool {
		if qualified[i].pct != qualified[j].pct {
			return qualified[i].pct > qualified[j].pct
		}
		return qualified[i].subject.ID < qualified[j].subject.ID
	})

	var r Ranking
	if len(qualified) == 0 {
		return r
	}
	best := qualified[0].subject
	r.Best = &best
	if len(qualified) < 2 {
		return r
	}
	worst := qualified[len(qualified)-1].subject
	r.Worst = &worst
	for _, q := range qualified[1 : len(qualified)-1] {
		r.Others = append(r.Others, q.subject)
	}
	return r
}

func meets(attended, held int, target float64) bool {
	if held == 0 {
		return true
	}
	return float64(attended)*100 >= target*float64(held)
}

// ClassesToReachTarget returns how many consecutive classes must be attended
// to reach target. It returns 0 when the target is already met and -1 when
// the target can never be reached.
func ClassesToReachTarget(attended, held int, target float64) int {
	if meets(attended, held, target) {
		return 0
	}
	if target >= 100 {
		return -1
	}
	n := int(math.Ceil((target*float64(held) - 100*float64(attended)) / (100 - target)))
	if n < 1 {
		n = 1
	}
	for n > 1 && meets(attended+n-1, held+n-1, target) {
		n--
	}
	for !meets(attended+n, held+n, target) {
		n++
	}
	return n
}

// SkippableClasses returns how many classes can be missed in a row while
// staying at or above target. It returns -1 when the target is zero or
// below, since any number can be missed.
func SkippableClasses(attended, held int, target float64) int {
	if target <= 0 {
		return -1
	}
	if !meets(attended, held, target) {
		return 0
	}
	k := int(math.Floor(100*float64(attended)/target)) - held
	if k < 0 {
		k = 0
	}
	for k > 0 && !meets(attended, held+k, target) {
		k--
	}
	for meets(attended, held+k+1, target) {
		k++
	}
	return k
}
