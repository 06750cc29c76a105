// Package overlap partitions a day's tasks into groups of transitively
// overlapping time ranges.
package overlap

import (
	"slices"
	"time"

	"github.com/mo-tomi/nowtask8/domain"
)

// Group is a run of tasks whose intervals chain together. IsOverlap is set
// when the group holds two or more timed tasks.
type Group struct {
	IsOverlap bool          `json:"is_overlap"`
	Timed     bool          `json:"timed"`
	Tasks     []domain.Task `json:"tasks"`
}

// Overlaps reports whether two half-open intervals intersect; touching
// endpoints do not.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

type span struct {
	task       domain.Task
	start, end time.Time
}

// Detect groups timed tasks by transitive overlap in start order and puts
// every untimed task (no computable interval) in one trailing group. When no
// task is timed the result is a single group holding all of them.
func Detect(tasks []domain.Task) []Group {
	if len(tasks) == 0 {
		return []Group{}
	}

	timed := make([]span, 0, len(tasks))
	untimed := make([]domain.Task, 0)
	for _, t := range tasks {
		start, end, ok := t.Interval()
		if !ok {
			untimed = append(untimed, t)
			continue
		}
		timed = append(timed, span{task: t, start: start, end: end})
	}

	slices.SortStableFunc(timed, func(a, b span) int {
		return a.start.Compare(b.start)
	})

	groups := make([]Group, 0)
	used := make([]bool, len(timed))
	for i := range timed {
		if used[i] {
			continue
		}
		used[i] = true
		members := []span{timed[i]}

		// Input is sorted by start, so anything a later member reaches was
		// not yet visited and one forward pass closes the group.
		for j := i + 1; j < len(timed); j++ {
			if used[j] || !overlapsAny(timed[j], members) {
				continue
			}
			used[j] = true
			members = append(members, timed[j])
		}

		g := Group{IsOverlap: len(members) > 1, Timed: true, Tasks: make([]domain.Task, len(members))}
		for k, m := range members {
			g.Tasks[k] = m.task
		}
		groups = append(groups, g)
	}

	if len(untimed) > 0 {
		groups = append(groups, Group{Tasks: untimed})
	}
	return groups
}

func overlapsAny(candidate span, members []span) bool {
	for _, m := range members {
		if Overlaps(candidate.start, candidate.end, m.start, m.end) {
			return true
		}
	}
	return false
}

// Conflicts returns only the groups that contain overlapping tasks.
func Conflicts(groups []Group) []Group {
	out := make([]Group, 0)
	for _, g := range groups {
		if g.IsOverlap {
			out = append(out, g)
		}
	}
	return out
}
