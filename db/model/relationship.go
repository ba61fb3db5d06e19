package model

import "fmt"

const (
	RelTypeMentor   = "mentor"
	RelTypeDownline = "downline"
)

// Rejected rows are deleted rather than kept, so only pending and
// confirmed ever hit the table. The constant remains part of the API
// vocabulary for respond calls.
const (
	RelStatusPending   = "pending"
	RelStatusConfirmed = "confirmed"
	RelStatusRejected  = "rejected"
)

// Relationship is a single directed edge between two members. Type is
// relative to the initiator: type "mentor" on (A -> B) means A wants B
// as mentor, the inverse (B gains A as downline) is implied and never
// stored. PairKey canonicalizes the unordered pair, its unique index
// guarantees at most one active edge per pair in either direction.
type Relationship struct {
	Base
	InitiatorID uint   `json:"initiator_id" gorm:"not null"`
	TargetID    uint   `json:"target_id" gorm:"not null"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	PairKey     string `json:"-" gorm:"uniqueIndex"`
	Initiator   *User  `json:"initiator,omitempty" gorm:"foreignKey:InitiatorID"`
	Target      *User  `json:"target,omitempty" gorm:"foreignKey:TargetID"`
}

// PairKey returns the canonical key for an unordered member pair.
func PairKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

func (r *Relationship) HasParticipant(memberID uint) bool {
	return r.InitiatorID == memberID || r.TargetID == memberID
}

func (r *Relationship) OtherID(memberID uint) uint {
	if r.InitiatorID == memberID {
		return r.TargetID
	}
	return r.InitiatorID
}

// RoleFor reports what the counterpart is to the given member: for a
// "mentor" edge the initiator sees a mentor and the target sees a
// downline, a "downline" edge is the mirror image.
func (r *Relationship) RoleFor(memberID uint) string {
	fromInitiator := r.InitiatorID == memberID
	switch r.Type {
	case RelTypeMentor:
		if fromInitiator {
			return RelTypeMentor
		}
		return RelTypeDownline
	case RelTypeDownline:
		if fromInitiator {
			return RelTypeDownline
		}
		return RelTypeMentor
	}
	return r.Type
}
