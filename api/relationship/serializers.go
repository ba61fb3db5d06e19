package relationship

import (
	"github.com/fogrup/fogrup-backend/api"
	"github.com/fogrup/fogrup-backend/db/model"
)

type InCreateRelationship struct {
	TargetID *uint   `json:"targetId"`
	Type     *string `json:"type"`
}

type InRespondRelationship struct {
	Status *string `json:"status"`
}

// OutRelationship carries the edge plus the caller's perspective, so
// the client never re-derives initiator/target comparisons.
type OutRelationship struct {
	model.Base
	InitiatorID uint         `json:"initiator_id"`
	TargetID    uint         `json:"target_id"`
	Type        string       `json:"type"`
	Status      string       `json:"status"`
	Role        string       `json:"role"`
	Counterpart *api.OutUser `json:"counterpart,omitempty"`
}

func newOutRelationship(rel *model.Relationship, viewerID uint) *OutRelationship {
	out := &OutRelationship{
		Base:        rel.Base,
		InitiatorID: rel.InitiatorID,
		TargetID:    rel.TargetID,
		Type:        rel.Type,
		Status:      rel.Status,
		Role:        rel.RoleFor(viewerID),
	}
	if rel.InitiatorID == viewerID {
		out.Counterpart = api.NewOutUser(rel.Target)
	} else {
		out.Counterpart = api.NewOutUser(rel.Initiator)
	}
	return out
}
