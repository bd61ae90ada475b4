package journey

// Goals are the claimed task totals that evolve the slime.
var Goals = []int{10, 20, 50, 100}

// MaxLevel is the last slime level.
const MaxLevel = 5

// Level returns the slime level (1 to 5) for a total of claimed tasks.
func Level(total int) int {
	level := 1
	for _, g := range Goals {
		if total >= g {
			level++
		}
	}
	return level
}

// NextGoal returns the next total that evolves the slime, false when the slime
// is at its last level.
func NextGoal(total int) (int, bool) {
	for _, g := range Goals {
		if g > total {
			return g, true
		}
	}
	return 0, false
}
