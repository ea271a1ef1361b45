package duel

import (
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/lexleague/lexleague-backend/internal/domain"
)

// duelRoundCount is how many rounds a duel plays.
const duelRoundCount = 5

type promptSeed struct {
	prompt        string
	correctAnswer string
	options       []string
}

// promptSeeds is the built-in question bank. Rounds are generated from it at
// duel creation: seed order and per-round option order are both shuffled.
var promptSeeds = []promptSeed{
	{
		prompt:        `Choose the best meaning of "sustainable growth".`,
		correctAnswer: "Growth that can continue long-term without harm.",
		options: []string{
			"Growth that happens in one week only.",
			"Growth that can continue long-term without harm.",
			"Growth that ignores social impact.",
			"Growth that means no change at all.",
		},
	},
	{
		prompt:        `Pick the sentence with natural usage of "on the same page".`,
		correctAnswer: "Before we start, let us make sure we are on the same page.",
		options: []string{
			"I put the coffee on the same page.",
			"Before we start, let us make sure we are on the same page.",
			"The page is same because it is big.",
			"She same page the result quickly.",
		},
	},
	{
		prompt:        `What does "feasible" mean?`,
		correctAnswer: "Possible and practical to do.",
		options: []string{
			"Extremely expensive.",
			"Possible and practical to do.",
			"Not related to planning.",
			"Always impossible.",
		},
	},
	{
		prompt:        `Choose the best sentence using "take into account".`,
		correctAnswer: "We should take student feedback into account.",
		options: []string{
			"I account into took the bag.",
			"We should take student feedback into account.",
			"The account took into quickly.",
			"She into account take every.",
		},
	},
	{
		prompt:        `What is the closest meaning of "mitigate"?`,
		correctAnswer: "To reduce or make less severe.",
		options: []string{
			"To increase quickly.",
			"To ignore completely.",
			"To reduce or make less severe.",
			"To publish formally.",
		},
	},
}

// pickRounds draws the duel's rounds from the seed bank.
func pickRounds(duelID uuid.UUID) []domain.DuelRound {
	seeds := make([]promptSeed, len(promptSeeds))
	copy(seeds, promptSeeds)
	rand.Shuffle(len(seeds), func(i, j int) { seeds[i], seeds[j] = seeds[j], seeds[i] })

	count := duelRoundCount
	if count > len(seeds) {
		count = len(seeds)
	}

	rounds := make([]domain.DuelRound, 0, count)
	for i, seed := range seeds[:count] {
		options := make([]string, len(seed.options))
		copy(options, seed.options)
		rand.Shuffle(len(options), func(a, b int) { options[a], options[b] = options[b], options[a] })

		rounds = append(rounds, domain.DuelRound{
			ID:            uuid.New(),
			DuelID:        duelID,
			RoundNumber:   i + 1,
			Prompt:        seed.prompt,
			CorrectAnswer: seed.correctAnswer,
			Options:       options,
		})
	}
	return rounds
}
