package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/fogrup/fogrup-backend/db/model"
	"gorm.io/gorm"
)

type RelationshipService struct {
	DB            *gorm.DB
	Notifications *NotificationService
	Logger        *log.Logger
}

// Create inserts a pending edge. The pair-key unique index rejects a
// second active edge for the same pair in either direction, including
// under concurrent calls. The target's inbox notification is best
// effort: its failure never rolls back the edge.
func (s *RelationshipService) Create(ctx context.Context, initiatorID, targetID uint, relType string) (*model.Relationship, error) {
	if initiatorID == targetID {
		return nil, fmt.Errorf("%w: cannot request a relationship with yourself", ErrInvalidArgument)
	}
	if relType != model.RelTypeMentor && relType != model.RelTypeDownline {
		return nil, fmt.Errorf("%w: unknown relationship type %q", ErrInvalidArgument, relType)
	}

	var target model.User
	if err := s.DB.WithContext(ctx).First(&target, targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rel := &model.Relationship{
		InitiatorID: initiatorID,
		TargetID:    targetID,
		Type:        relType,
		Status:      model.RelStatusPending,
		PairKey:     model.PairKey(initiatorID, targetID),
	}
	if err := s.DB.WithContext(ctx).Create(rel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: an active relationship already exists", ErrConflict)
		}
		return nil, err
	}

	s.notifyRequest(ctx, rel)
	return rel, nil
}

func (s *RelationshipService) notifyRequest(ctx context.Context, rel *model.Relationship) {
	if s.Notifications == nil {
		return
	}
	var initiator model.User
	if err := s.DB.WithContext(ctx).First(&initiator, rel.InitiatorID).Error; err != nil {
		s.Logger.Println(err)
		return
	}
	var text string
	if rel.Type == model.RelTypeMentor {
		text = fmt.Sprintf("%s asks you to become their mentor", initiator.Displayname)
	} else {
		text = fmt.Sprintf("%s invites you to their structure as a downline", initiator.Displayname)
	}
	from, relID := rel.InitiatorID, rel.ID
	if _, err := s.Notifications.Create(ctx, rel.TargetID, model.NotifTypeRelationshipRequest, &from, &relID, text); err != nil {
		s.Logger.Println(err)
	}
}

// Respond lets the target confirm or reject a pending request. A
// rejected edge is deleted outright so the pair key frees up for a
// future re-request.
func (s *RelationshipService) Respond(ctx context.Context, relID, responderID uint, decision string) (*model.Relationship, error) {
	var rel model.Relationship
	if err := s.DB.WithContext(ctx).First(&rel, relID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if rel.TargetID != responderID {
		return nil, fmt.Errorf("%w: only the target may respond", ErrForbidden)
	}
	switch decision {
	case model.RelStatusConfirmed:
		if err := s.DB.WithContext(ctx).Model(&rel).Update("status", model.RelStatusConfirmed).Error; err != nil {
			return nil, err
		}
		rel.Status = model.RelStatusConfirmed
		return &rel, nil
	case model.RelStatusRejected:
		if err := s.DB.WithContext(ctx).Delete(&rel).Error; err != nil {
			return nil, err
		}
		rel.Status = model.RelStatusRejected
		return &rel, nil
	default:
		return nil, fmt.Errorf("%w: unknown decision %q", ErrInvalidArgument, decision)
	}
}

// Delete removes any active edge between the two members, whichever
// side initiated it. Deleting an absent edge succeeds.
func (s *RelationshipService) Delete(ctx context.Context, requesterID, counterpartID uint) error {
	var rel model.Relationship
	err := s.DB.WithContext(ctx).
		Where("pair_key = ?", model.PairKey(requesterID, counterpartID)).
		First(&rel).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if !rel.HasParticipant(requesterID) {
		return ErrForbidden
	}
	return s.DB.WithContext(ctx).Delete(&rel).Error
}

// ListForMember returns every pending or confirmed edge the member
// participates in, with both profiles loaded so callers can derive the
// perspective via RoleFor.
func (s *RelationshipService) ListForMember(ctx context.Context, memberID uint) ([]model.Relationship, error) {
	rels := make([]model.Relationship, 0)
	err := s.DB.WithContext(ctx).
		Preload("Initiator").
		Preload("Target").
		Where("initiator_id = ? OR target_id = ?", memberID, memberID).
		Order("created_at DESC").
		Find(&rels).
		Error
	return rels, err
}
