package protocol

import "github.com/vaultrun/scaperoom-backend/internal/mission"

// Kind discriminates the flat JSON envelope used on every peer link.
type Kind string

const (
	// host -> team(s): full reservation-set snapshot, always safe to reapply.
	KindSyncIdentities Kind = "SYNC_IDENTITIES"
	// team -> host: reservation attempt for one catalog identity.
	KindRequestIdentity Kind = "REQUEST_IDENTITY"
	// host -> requesting team only.
	KindIdentityAccepted Kind = "IDENTITY_ACCEPTED"
	KindIdentityDenied   Kind = "IDENTITY_DENIED"
	// host -> team(s): one-time full mission payload.
	KindLaunchMission Kind = "LAUNCH_MISSION"
	// team -> host: completion report, deduplicated by identity.
	KindTeamFinished Kind = "TEAM_FINISHED"
	// team -> host: advisory solved-sector count for the monitor view.
	KindSquadProgress Kind = "SQUAD_PROGRESS"
	// either direction: local decode failure feedback.
	KindError Kind = "ERROR"
)

// Envelope carries every message kind; unused fields are omitted on the wire.
type Envelope struct {
	Type     Kind             `json:"type"`
	Reserved []string         `json:"reserved,omitempty"` // SYNC_IDENTITIES
	Name     string           `json:"name,omitempty"`     // REQUEST_IDENTITY, TEAM_FINISHED, SQUAD_PROGRESS
	Keyword  string           `json:"keyword,omitempty"`  // LAUNCH_MISSION
	Sectors  []mission.Sector `json:"sectors,omitempty"`  // LAUNCH_MISSION
	Progress int              `json:"progress,omitempty"` // SQUAD_PROGRESS
	Error    string           `json:"error,omitempty"`    // ERROR
}

func SyncIdentities(reserved []string) Envelope {
	return Envelope{Type: KindSyncIdentities, Reserved: reserved}
}

func RequestIdentity(name string) Envelope {
	return Envelope{Type: KindRequestIdentity, Name: name}
}

func LaunchMission(m mission.Mission) Envelope {
	return Envelope{Type: KindLaunchMission, Keyword: m.Keyword, Sectors: m.Sectors}
}

func TeamFinished(name string) Envelope {
	return Envelope{Type: KindTeamFinished, Name: name}
}

func SquadProgress(name string, solved int) Envelope {
	return Envelope{Type: KindSquadProgress, Name: name, Progress: solved}
}
