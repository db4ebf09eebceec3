package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/sporthub-backend/internal/logger"
	"github.com/yungbote/sporthub-backend/internal/platform/apierr"
	"github.com/yungbote/sporthub-backend/internal/repos"
	"github.com/yungbote/sporthub-backend/internal/types"
)

type CreateVenueInput struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

type UpdateVenueInput struct {
	Name        *string `json:"name,omitempty"`
	Location    *string `json:"location,omitempty"`
	Description *string `json:"description,omitempty"`
}

// BatchVenueResult reports the outcome for one item of a batch create.
type BatchVenueResult struct {
	Name    string       `json:"name"`
	Venue   *types.Venue `json:"venue,omitempty"`
	Error   string       `json:"error,omitempty"`
	Created bool         `json:"created"`
}

type VenueService interface {
	CreateVenue(ctx context.Context, operatorID uuid.UUID, input CreateVenueInput) (*types.Venue, error)
	BatchCreateVenues(ctx context.Context, operatorID uuid.UUID, inputs []CreateVenueInput) ([]BatchVenueResult, error)
	UpdateVenue(ctx context.Context, operatorID, id uuid.UUID, input UpdateVenueInput) (*types.Venue, error)
	SetVenueActive(ctx context.Context, operatorID, id uuid.UUID, active bool) error
	GetVenue(ctx context.Context, id uuid.UUID) (*types.Venue, error)
	ListVenues(ctx context.Context, activeOnly bool, page, pageSize int) ([]*types.Venue, int64, error)
}

type venueService struct {
	db        *gorm.DB
	log       *logger.Logger
	policy    RolePolicy
	userRepo  repos.UserRepo
	venueRepo repos.VenueRepo
}

func NewVenueService(db *gorm.DB, log *logger.Logger, policy RolePolicy, userRepo repos.UserRepo, venueRepo repos.VenueRepo) VenueService {
	return &venueService{
		db:        db,
		log:       log.With("service", "VenueService"),
		policy:    policy,
		userRepo:  userRepo,
		venueRepo: venueRepo,
	}
}

func (vs *venueService) requireAdmin(ctx context.Context, operatorID uuid.UUID) (*types.User, error) {
	operator, err := vs.userRepo.GetByID(ctx, nil, operatorID)
	if err != nil {
		return nil, fmt.Errorf("load operator: %w", err)
	}
	if operator == nil {
		return nil, apierr.NotFound("not_found", "operator not found")
	}
	if !vs.policy.CanPublishActivities(operator) {
		return nil, apierr.Forbidden("permission_denied", "admin role required")
	}
	return operator, nil
}

func (vs *venueService) CreateVenue(ctx context.Context, operatorID uuid.UUID, input CreateVenueInput) (*types.Venue, error) {
	if _, err := vs.requireAdmin(ctx, operatorID); err != nil {
		return nil, err
	}
	return vs.createOne(ctx, input)
}

func (vs *venueService) createOne(ctx context.Context, input CreateVenueInput) (*types.Venue, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apierr.Invalid("invalid_input", "venue name is required")
	}
	exists, err := vs.venueRepo.NameExists(ctx, nil, name, nil)
	if err != nil {
		return nil, fmt.Errorf("check venue name: %w", err)
	}
	if exists {
		return nil, apierr.Invalid("name_taken", "venue name %q is already in use", name)
	}
	venue := &types.Venue{
		ID:          uuid.New(),
		Name:        name,
		Location:    strings.TrimSpace(input.Location),
		Description: strings.TrimSpace(input.Description),
		IsActive:    true,
	}
	if err := vs.venueRepo.Create(ctx, nil, venue); err != nil {
		return nil, fmt.Errorf("create venue: %w", err)
	}
	vs.log.Info("Venue created", "venue_id", venue.ID, "name", venue.Name)
	return venue, nil
}

// BatchCreateVenues creates each venue independently; one bad item does
// not fail the batch.
func (vs *venueService) BatchCreateVenues(ctx context.Context, operatorID uuid.UUID, inputs []CreateVenueInput) ([]BatchVenueResult, error) {
	if _, err := vs.requireAdmin(ctx, operatorID); err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, apierr.Invalid("invalid_input", "no venues given")
	}
	results := make([]BatchVenueResult, 0, len(inputs))
	for _, input := range inputs {
		venue, err := vs.createOne(ctx, input)
		if err != nil {
			results = append(results, BatchVenueResult{Name: input.Name, Error: err.Error()})
			continue
		}
		results = append(results, BatchVenueResult{Name: venue.Name, Venue: venue, Created: true})
	}
	return results, nil
}

func (vs *venueService) UpdateVenue(ctx context.Context, operatorID, id uuid.UUID, input UpdateVenueInput) (*types.Venue, error) {
	if _, err := vs.requireAdmin(ctx, operatorID); err != nil {
		return nil, err
	}
	venue, err := vs.venueRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("load venue: %w", err)
	}
	if venue == nil {
		return nil, apierr.NotFound("not_found", "venue not found")
	}
	fields := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apierr.Invalid("invalid_input", "venue name cannot be empty")
		}
		exists, err := vs.venueRepo.NameExists(ctx, nil, name, &id)
		if err != nil {
			return nil, fmt.Errorf("check venue name: %w", err)
		}
		if exists {
			return nil, apierr.Invalid("name_taken", "venue name %q is already in use", name)
		}
		fields["name"] = name
	}
	if input.Location != nil {
		fields["location"] = strings.TrimSpace(*input.Location)
	}
	if input.Description != nil {
		fields["description"] = strings.TrimSpace(*input.Description)
	}
	if len(fields) == 0 {
		return venue, nil
	}
	if err := vs.venueRepo.Update(ctx, nil, id, fields); err != nil {
		return nil, fmt.Errorf("update venue: %w", err)
	}
	return vs.venueRepo.GetByID(ctx, nil, id)
}

// SetVenueActive toggles the venue; deactivation is the delete path.
func (vs *venueService) SetVenueActive(ctx context.Context, operatorID, id uuid.UUID, active bool) error {
	if _, err := vs.requireAdmin(ctx, operatorID); err != nil {
		return err
	}
	venue, err := vs.venueRepo.GetByID(ctx, nil, id)
	if err != nil {
		return fmt.Errorf("load venue: %w", err)
	}
	if venue == nil {
		return apierr.NotFound("not_found", "venue not found")
	}
	if venue.IsActive == active {
		return nil
	}
	if err := vs.venueRepo.Update(ctx, nil, id, map[string]interface{}{"is_active": active}); err != nil {
		return fmt.Errorf("toggle venue: %w", err)
	}
	vs.log.Info("Venue active flag changed", "venue_id", id, "active", active)
	return nil
}

func (vs *venueService) GetVenue(ctx context.Context, id uuid.UUID) (*types.Venue, error) {
	venue, err := vs.venueRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("load venue: %w", err)
	}
	if venue == nil {
		return nil, apierr.NotFound("not_found", "venue not found")
	}
	return venue, nil
}

func (vs *venueService) ListVenues(ctx context.Context, activeOnly bool, page, pageSize int) ([]*types.Venue, int64, error) {
	page, pageSize = normalizePage(page, pageSize)
	venues, total, err := vs.venueRepo.List(ctx, nil, activeOnly, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list venues: %w", err)
	}
	return venues, total, nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}
