package account

import "math"

const experiencePerLevelUnit = 100

// LevelFor returns floor(sqrt(experience/100)) + 1.
func LevelFor(experience int64) int {
	if experience <= 0 {
		return 1
	}
	// floor(sqrt(floor(x/100))) == floor(sqrt(x/100)); q keeps the squares below int64 overflow.
	q := experience / experiencePerLevelUnit
	root := int64(math.Sqrt(float64(q)))
	for root > 0 && root*root > q {
		root--
	}
	for (root+1)*(root+1) <= q {
		root++
	}
	return int(root) + 1
}

// NextLevelExperience returns the experience at which level+1 is reached.
func NextLevelExperience(level int) int64 {
	if level < 0 {
		level = 0
	}
	l := int64(level)
	if l*l > math.MaxInt64/experiencePerLevelUnit {
		return math.MaxInt64
	}
	return l * l * experiencePerLevelUnit
}

// Progress reports how far the account is between its current level's
// threshold and the next one, in [0, 1].
func Progress(a *Account) float64 {
	lower := NextLevelExperience(a.Level - 1)
	upper := NextLevelExperience(a.Level)
	if upper <= lower {
		return 0
	}
	p := float64(a.Experience-lower) / float64(upper-lower)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}
