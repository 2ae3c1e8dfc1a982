package team

import (
	"errors"
	"slices"
	"time"

	"github.com/vaultrun/scaperoom-backend/internal/mission"
)

var ErrNotActive = errors.New("mission not active")
var ErrNoIdentity = errors.New("no identity chosen")
var ErrIdentityPending = errors.New("identity request pending")
var ErrVaultDenied = errors.New("access denied")
var ErrAlreadyFinished = errors.New("mission already finished")

type Stage string

const (
	// StageChoosing: connected, picking an identity from the catalog.
	StageChoosing Stage = "choosing"
	// StagePending: reservation requested, awaiting the host's verdict.
	StagePending Stage = "pending"
	// StageLobby: identity accepted, waiting for the launch broadcast.
	StageLobby Stage = "lobby"
	// StageActive: mission payload received, sectors in play.
	StageActive Stage = "active"
	// StageFinished: vault opened, keyword revealed. Terminal.
	StageFinished Stage = "finished"
)

// Session is one team's local copy of the game. After the mission payload
// arrives the sectors here evolve independently of the host and of every
// other team; only reservation and completion flow back over the link.
type Session struct {
	stage    Stage
	identity string
	taken    []string
	keyword  string
	sectors  []mission.Sector
}

func New() *Session {
	return &Session{stage: StageChoosing}
}

func (t *Session) Stage() Stage              { return t.stage }
func (t *Session) Identity() string          { return t.identity }
func (t *Session) Taken() []string           { return slices.Clone(t.taken) }
func (t *Session) Sectors() []mission.Sector { return t.sectors }
func (t *Session) SolvedCount() int          { return mission.SolvedCount(t.sectors) }

// Keyword is empty until the vault has been opened.
func (t *Session) Keyword() string {
	if t.stage != StageFinished {
		return ""
	}
	return t.keyword
}

// Request records the identity the team is asking for. The caller sends the
// REQUEST_IDENTITY envelope; the verdict arrives via ApplyAccepted/ApplyDenied.
func (t *Session) Request(name string) error {
	if t.stage == StagePending {
		return ErrIdentityPending
	}
	if t.stage != StageChoosing {
		return ErrNotActive
	}
	t.identity = name
	t.stage = StagePending
	return nil
}

// ApplySync replaces the taken-identity view. Snapshots are idempotent and
// always safe to reapply.
func (t *Session) ApplySync(taken []string) {
	t.taken = slices.Clone(taken)
}

func (t *Session) ApplyAccepted() {
	if t.stage == StagePending {
		t.stage = StageLobby
	}
}

// ApplyDenied clears the chosen identity so the user may pick another.
func (t *Session) ApplyDenied() {
	if t.stage == StagePending {
		t.identity = ""
		t.stage = StageChoosing
	}
}

// ApplyMission stores the payload and starts local gameplay. The keyword is
// held back from callers until the vault succeeds.
func (t *Session) ApplyMission(keyword string, sectors []mission.Sector) {
	if t.stage == StageActive || t.stage == StageFinished {
		return
	}
	t.keyword = keyword
	t.sectors = sectors
	t.stage = StageActive
}

// Answer attempts one option on the named sector.
func (t *Session) Answer(sectorID, optionIndex int, now time.Time) (mission.Outcome, error) {
	if t.stage != StageActive {
		return "", ErrNotActive
	}
	for i := range t.sectors {
		if t.sectors[i].ID != sectorID {
			continue
		}
		outcome, updated, err := mission.Answer(t.sectors[i], optionIndex, now)
		if err != nil {
			return "", err
		}
		t.sectors[i] = updated
		return outcome, nil
	}
	return "", mission.ErrUnknownSector
}

// Tick sweeps expired lockouts. Called on a regular cadence, not exactly at
// expiry instants.
func (t *Session) Tick(now time.Time) bool {
	if t.stage != StageActive {
		return false
	}
	return mission.Tick(t.sectors, now)
}

// SubmitVault checks the entered codes against every sector positionally. On
// the first success the session transitions to finished and the caller must
// report TEAM_FINISHED exactly once.
func (t *Session) SubmitVault(codes []string) error {
	if t.stage == StageFinished {
		return ErrAlreadyFinished
	}
	if t.stage != StageActive {
		return ErrNotActive
	}
	if !mission.VaultOpen(t.sectors, codes) {
		return ErrVaultDenied
	}
	t.stage = StageFinished
	return nil
}
