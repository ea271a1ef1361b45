package domain

import (
	"time"

	"github.com/google/uuid"
)

// DuelStatus is the lifecycle state of a duel.
type DuelStatus string

const (
	DuelWaiting   DuelStatus = "waiting"
	DuelActive    DuelStatus = "active"
	DuelFinished  DuelStatus = "finished"
	DuelCancelled DuelStatus = "cancelled"
)

// Duel is a round-based competitive quiz between two or more students.
// Rounds are generated once at creation and never change afterwards.
type Duel struct {
	ID         uuid.UUID
	CreatedBy  uuid.UUID
	Status     DuelStatus
	StartedAt  *time.Time
	FinishedAt *time.Time
	WinnerID   *uuid.UUID
	CreatedAt  time.Time
}

// DuelRound is one immutable question of a duel. Options holds the correct
// answer and three distractors in a per-round random order.
type DuelRound struct {
	ID            uuid.UUID
	DuelID        uuid.UUID
	RoundNumber   int
	Prompt        string
	CorrectAnswer string
	Options       []string
}

// DuelParticipant tracks one student's standing inside a duel. Unique on
// (DuelID, StudentID); scores are updated with atomic increments.
type DuelParticipant struct {
	DuelID         uuid.UUID
	StudentID      uuid.UUID
	TotalScore     int
	CorrectAnswers int
	JoinedAt       time.Time
}

// DuelAnswer is one student's answer to one round. Append-only, unique on
// (DuelID, RoundID, StudentID) so a round can be answered at most once.
type DuelAnswer struct {
	ID             uuid.UUID
	DuelID         uuid.UUID
	RoundID        uuid.UUID
	StudentID      uuid.UUID
	SelectedAnswer string
	IsCorrect      bool
	ResponseTimeMs int
	PointsEarned   int
	CreatedAt      time.Time
}

// DuelState is the full observable state of a duel, re-fetched by polling
// clients. The engine exposes pull-based reads only.
type DuelState struct {
	Duel         Duel
	Participants []DuelParticipant
	Rounds       []DuelRound
	Answers      []DuelAnswer
}

// DuelHistoryItem is one row of a student's finished-duel history.
type DuelHistoryItem struct {
	Participant DuelParticipant
	Duel        *Duel
}
