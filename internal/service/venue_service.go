package service

import (
	"context"
	"fmt"
	"math/rand"

	"venuechat-be/internal/dto"
	"venuechat-be/internal/repository/contract"

	"github.com/google/uuid"
)

// PresenceCounter reports live room membership. Implemented by the websocket
// presence registry; injected so venue lookups never reach into gateway
// internals.
type PresenceCounter interface {
	Count(venueId uuid.UUID) int
}

type IVenueService interface {
	GetNearbyVenues(ctx context.Context, latitude, longitude, radiusKm float64) ([]*dto.NearbyVenueResponse, error)
	GetVenueById(ctx context.Context, id uuid.UUID) (*dto.VenueDetailResponse, error)
}

type venueService struct {
	venueRepo   contract.VenueRepository
	messageRepo contract.MessageRepository
	presence    PresenceCounter
}

func NewVenueService(venueRepo contract.VenueRepository, messageRepo contract.MessageRepository, presence PresenceCounter) IVenueService {
	return &venueService{
		venueRepo:   venueRepo,
		messageRepo: messageRepo,
		presence:    presence,
	}
}

// GetNearbyVenues lists active venues around a location. The catalog has no
// real geodata yet, so coordinates are jittered around the caller until a
// proper geospatial backend lands.
func (s *venueService) GetNearbyVenues(ctx context.Context, latitude, longitude, radiusKm float64) ([]*dto.NearbyVenueResponse, error) {
	venues, err := s.venueRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	responses := make([]*dto.NearbyVenueResponse, len(venues))
	for i, v := range venues {
		responses[i] = &dto.NearbyVenueResponse{
			Id:          v.Id,
			Name:        v.Name,
			Type:        "nightclub",
			Description: v.Description,
			IsActive:    v.IsActive,
			Latitude:    latitude + (rand.Float64()-0.5)*0.1,
			Longitude:   longitude + (rand.Float64()-0.5)*0.1,
		}
	}
	return responses, nil
}

func (s *venueService) GetVenueById(ctx context.Context, id uuid.UUID) (*dto.VenueDetailResponse, error) {
	venue, err := s.venueRepo.FindById(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if venue == nil {
		return nil, nil
	}

	messageCount, err := s.messageRepo.CountByVenue(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return &dto.VenueDetailResponse{
		Id:           venue.Id,
		Name:         venue.Name,
		Description:  venue.Description,
		IsActive:     venue.IsActive,
		MessageCount: messageCount,
		ActiveUsers:  s.presence.Count(id),
	}, nil
}
