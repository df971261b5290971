package game

import (
	"golang.org/x/exp/rand"

	"deepregrets/catalog"
)

// Random is the only source of nondeterminism in the engine: shuffles, dice,
// tackle faces, random regret selection and game ids.
type Random interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
	Read(p []byte) (int, error)
}

// NewRandom returns a seeded source. The same seed replays the same game.
func NewRandom(seed uint64) Random {
	return rand.New(rand.NewSource(seed))
}

func rollDie(r Random) int {
	return r.Intn(6) + 1
}

func rollDice(r Random, n int) []int {
	rolls := make([]int, n)
	for i := range rolls {
		rolls[i] = rollDie(r)
	}
	return rolls
}

func rollTackle(r Random, die catalog.TackleDie) int {
	return die.Faces[r.Intn(len(die.Faces))]
}

func shuffle[T any](r Random, s []T) {
	r.Shuffle(len(s), func(i, j int) {
		s[i], s[j] = s[j], s[i]
	})
}
