package ws

import (
	"github.com/google/uuid"

	"github.com/Dmitriy-Gavrilov/Medicine/internal/call"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/common"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/team"
)

// Event names carried in the "event" field of every pushed message.
const (
	EventNewCall       = "new_call"
	EventCallAccepted  = "call_accepted"
	EventCallRejected  = "call_rejected"
	EventAvailableTeam = "available_team"
	EventMoveStarted   = "move_started"
	EventMoveTeam      = "move_team"
	EventMoveFinished  = "move_finished"
	EventAssignedCall  = "assigned_call"
	EventCompletedCall = "completed_call"
	EventTroubleCall   = "trouble_call"
)

type NewCallEvent struct {
	Event string     `json:"event"`
	Call  *call.Call `json:"call"`
}

func NewCall(c *call.Call) NewCallEvent {
	return NewCallEvent{Event: EventNewCall, Call: c}
}

type CallAcceptedEvent struct {
	Event  string    `json:"event"`
	CallID uuid.UUID `json:"call_id"`
	TeamID uuid.UUID `json:"team_id"`
}

func CallAccepted(callID, teamID uuid.UUID) CallAcceptedEvent {
	return CallAcceptedEvent{Event: EventCallAccepted, CallID: callID, TeamID: teamID}
}

type CallRejectedEvent struct {
	Event  string    `json:"event"`
	CallID uuid.UUID `json:"call_id"`
}

func CallRejected(callID uuid.UUID) CallRejectedEvent {
	return CallRejectedEvent{Event: EventCallRejected, CallID: callID}
}

type AvailableTeamEvent struct {
	Event string     `json:"event"`
	Team  *team.Team `json:"team"`
}

func AvailableTeam(t *team.Team) AvailableTeamEvent {
	return AvailableTeamEvent{Event: EventAvailableTeam, Team: t}
}

type MoveStartedEvent struct {
	Event  string    `json:"event"`
	TeamID uuid.UUID `json:"team_id"`
}

func MoveStarted(teamID uuid.UUID) MoveStartedEvent {
	return MoveStartedEvent{Event: EventMoveStarted, TeamID: teamID}
}

type MoveTeamEvent struct {
	Event       string             `json:"event"`
	TeamID      uuid.UUID          `json:"team_id"`
	Coordinates common.Coordinates `json:"coordinates"`
}

func MoveTeam(teamID uuid.UUID, pos common.Coordinates) MoveTeamEvent {
	return MoveTeamEvent{Event: EventMoveTeam, TeamID: teamID, Coordinates: pos}
}

type MoveFinishedEvent struct {
	Event  string    `json:"event"`
	TeamID uuid.UUID `json:"team_id"`
}

func MoveFinished(teamID uuid.UUID) MoveFinishedEvent {
	return MoveFinishedEvent{Event: EventMoveFinished, TeamID: teamID}
}

type AssignedCallEvent struct {
	Event string         `json:"event"`
	Call  *call.FullInfo `json:"call"`
}

func AssignedCall(info *call.FullInfo) AssignedCallEvent {
	return AssignedCallEvent{Event: EventAssignedCall, Call: info}
}

type CompletedCallEvent struct {
	Event  string    `json:"event"`
	CallID uuid.UUID `json:"call_id"`
}

func CompletedCall(callID uuid.UUID) CompletedCallEvent {
	return CompletedCallEvent{Event: EventCompletedCall, CallID: callID}
}

type TroubleCallEvent struct {
	Event  string    `json:"event"`
	CallID uuid.UUID `json:"call_id"`
}

func TroubleCall(callID uuid.UUID) TroubleCallEvent {
	return TroubleCallEvent{Event: EventTroubleCall, CallID: callID}
}

func eventName(event any) string {
	switch e := event.(type) {
	case NewCallEvent:
		return e.Event
	case CallAcceptedEvent:
		return e.Event
	case CallRejectedEvent:
		return e.Event
	case AvailableTeamEvent:
		return e.Event
	case MoveStartedEvent:
		return e.Event
	case MoveTeamEvent:
		return e.Event
	case MoveFinishedEvent:
		return e.Event
	case AssignedCallEvent:
		return e.Event
	case CompletedCallEvent:
		return e.Event
	case TroubleCallEvent:
		return e.Event
	}
	return "unknown"
}
