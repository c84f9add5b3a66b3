package service

import (
	"context"

	"github.com/deppfellow/conference-central/internal/key"
	"github.com/deppfellow/conference-central/internal/model/speaker"
)

type SpeakerService struct {
	Deps
}

func (s *SpeakerService) Create(ctx context.Context, p *speaker.CreateSpeakerPayload) (*speaker.Form, error) {
	sp := &speaker.Speaker{
		ID:           s.IDs.NextID(),
		Speaker:      p.Speaker,
		Organization: p.Organization,
	}
	if err := s.Store.Speakers().Create(ctx, sp); err != nil {
		return nil, err
	}
	return sp.ToForm(), nil
}

func (s *SpeakerService) Get(ctx context.Context, websafeSpeakerKey string) (*speaker.Form, error) {
	k, err := decodeKey(websafeSpeakerKey, key.KindSpeaker)
	if err != nil {
		return nil, err
	}
	sp, err := loadSpeaker(ctx, s.Store, k)
	if err != nil {
		return nil, err
	}
	return sp.ToForm(), nil
}

// Query matches on the exact speaker name and, when given, organization.
func (s *SpeakerService) Query(ctx context.Context, p *speaker.QuerySpeakerPayload) ([]*speaker.Form, error) {
	speakers, err := s.Store.Speakers().Query(ctx, p.Speaker, p.Organization)
	if err != nil {
		return nil, err
	}

	forms := make([]*speaker.Form, 0, len(speakers))
	for _, sp := range speakers {
		forms = append(forms, sp.ToForm())
	}
	return forms, nil
}
