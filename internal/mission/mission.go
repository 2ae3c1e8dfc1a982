package mission

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"strconv"
	"time"

	"github.com/vaultrun/scaperoom-backend/internal/quiz"
)

var ErrSectorSolved = errors.New("sector already solved")
var ErrSectorLocked = errors.New("sector locked")
var ErrUnknownSector = errors.New("unknown sector")
var ErrNotEnoughQuestions = errors.New("not enough questions for five sectors")

// TotalSectors is fixed for every mission.
const TotalSectors = 5

// LockoutDuration is the penalty applied after a wrong answer. During the
// lockout the sector rejects all answers and its progress is reset.
const LockoutDuration = 10 * time.Second

type Sector struct {
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	Questions  []quiz.Question `json:"questions"`
	AccessCode string          `json:"access_code"`
	Solved     bool            `json:"solved"`
	Locked     bool            `json:"locked"`
	LockoutEnd *time.Time      `json:"lockout_end,omitempty"` // nil unless Locked
	Cursor     int             `json:"cursor"`
}

type Mission struct {
	Keyword string   `json:"keyword"`
	Sectors []Sector `json:"sectors"`
}

// Plan shuffles the question set uniformly, partitions it into five
// contiguous near-equal chunks (sizes differ by at most one), and assigns
// each chunk to a sector with a fresh 2-digit access code. Fewer than five
// questions cannot populate five non-empty sectors and is rejected.
func Plan(questions []quiz.Question, keyword string, rng *rand.Rand) (Mission, error) {
	if len(questions) < TotalSectors {
		return Mission{}, ErrNotEnoughQuestions
	}

	shuffled := slices.Clone(questions)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	base := len(shuffled) / TotalSectors
	extra := len(shuffled) % TotalSectors

	sectors := make([]Sector, 0, TotalSectors)
	offset := 0
	for i := 0; i < TotalSectors; i++ {
		size := base
		if i < extra {
			size++
		}
		sectors = append(sectors, Sector{
			ID:         i + 1,
			Name:       fmt.Sprintf("SECTOR_0%d", i+1),
			Questions:  shuffled[offset : offset+size],
			AccessCode: randomAccessCode(rng),
		})
		offset += size
	}

	return Mission{Keyword: keyword, Sectors: sectors}, nil
}

// randomAccessCode returns a uniformly random two-digit code, "10".."99".
// Collisions across sectors are allowed.
func randomAccessCode(rng *rand.Rand) string {
	return strconv.Itoa(rng.Intn(90) + 10)
}

type Outcome string

const (
	OutcomeAdvanced Outcome = "advanced"
	OutcomeSolved   Outcome = "solved"
	OutcomeLocked   Outcome = "locked"
)

// Answer applies one answer attempt to a sector and returns the outcome plus
// the updated sector. A correct answer advances the cursor; the last correct
// answer solves the sector for good. A wrong answer locks the sector until
// now+LockoutDuration and resets the cursor to the first question, so a
// mistake costs the sector's whole run.
func Answer(s Sector, optionIndex int, now time.Time) (Outcome, Sector, error) {
	if s.Solved {
		return "", s, ErrSectorSolved
	}
	if s.Locked {
		return "", s, ErrSectorLocked
	}

	q := s.Questions[s.Cursor]
	if optionIndex != q.CorrectIndex {
		end := now.Add(LockoutDuration)
		s.Locked = true
		s.LockoutEnd = &end
		s.Cursor = 0
		return OutcomeLocked, s, nil
	}

	if s.Cursor+1 >= len(s.Questions) {
		s.Solved = true
		s.Locked = false
		s.LockoutEnd = nil
		return OutcomeSolved, s, nil
	}

	s.Cursor++
	return OutcomeAdvanced, s, nil
}

// Tick clears every expired lockout in place and reports whether anything
// unlocked. It is the only transition out of the locked state and must
// tolerate being called late, long past the exact expiry instant.
func Tick(sectors []Sector, now time.Time) bool {
	unlocked := false
	for i := range sectors {
		s := &sectors[i]
		if s.Locked && s.LockoutEnd != nil && !now.Before(*s.LockoutEnd) {
			s.Locked = false
			s.LockoutEnd = nil
			unlocked = true
		}
	}
	return unlocked
}

// VaultOpen reports whether every entered code matches the corresponding
// sector's access code, positionally. The check is pure code equality: a
// sector does not have to be solved for its slot to match, so a lucky guess
// counts.
func VaultOpen(sectors []Sector, codes []string) bool {
	if len(codes) != len(sectors) {
		return false
	}
	for i, s := range sectors {
		if codes[i] != s.AccessCode {
			return false
		}
	}
	return true
}

// SolvedCount is the number of solved sectors, reported to the host as
// advisory progress.
func SolvedCount(sectors []Sector) int {
	n := 0
	for _, s := range sectors {
		if s.Solved {
			n++
		}
	}
	return n
}
