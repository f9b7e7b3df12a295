package services

import (
	"campus-activity-service/internal/domain"
	"campus-activity-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ValidationError is a client input problem. Handlers map it to 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// EventPatch carries the fields of a create or update. Nil fields are left
// unchanged.
type EventPatch struct {
	Name        *string
	Description *string
	Location    *string
	Type        *domain.Category
	Capacity    *int
	StartTime   *time.Time
	EndTime     *time.Time
	Geometry    *domain.Coordinate
	Attendees   *int
}

// Apply returns e with the patch fields written over it.
func (p EventPatch) Apply(e domain.Event) domain.Event {
	if p.Name != nil {
		e.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Location != nil {
		e.Location = strings.TrimSpace(*p.Location)
	}
	if p.Type != nil {
		e.Type = *p.Type
	}
	if p.Capacity != nil {
		e.Capacity = *p.Capacity
	}
	if p.StartTime != nil {
		e.StartTime = p.StartTime.UTC()
	}
	if p.EndTime != nil {
		e.EndTime = p.EndTime.UTC()
	}
	if p.Geometry != nil {
		g := *p.Geometry
		e.Geometry = &g
	}
	if p.Attendees != nil {
		n := *p.Attendees
		e.Attendees = &n
	}
	return e
}

type eventRules struct {
	Name      string   `validate:"required,max=200"`
	Type      string   `validate:"required,oneof=music sports art food networking education community custom"`
	Capacity  int      `validate:"gte=0"`
	Attendees *int     `validate:"omitempty,gte=0"`
	Lat       *float64 `validate:"omitempty,gte=-90,lte=90"`
	Lng       *float64 `validate:"omitempty,gte=-180,lte=180"`
}

// EventService applies input validation on top of the event store.
type EventService struct {
	repo     ports.EventRepository
	validate *validator.Validate
}

func NewEventService(repo ports.EventRepository) *EventService {
	return &EventService{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (s *EventService) List(ctx context.Context) ([]domain.Event, error) {
	events, err := s.repo.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *EventService) Create(ctx context.Context, p EventPatch) (domain.Event, error) {
	e := p.Apply(domain.Event{Source: domain.SourcePersisted})
	if err := s.check(e); err != nil {
		return domain.Event{}, err
	}

	created, err := s.repo.CreateEvent(ctx, e)
	if err != nil {
		return domain.Event{}, fmt.Errorf("create event: %w", err)
	}
	return created, nil
}

// Update merges p into the stored event. Unknown ids return
// domain.ErrEventNotFound and leave the store untouched.
func (s *EventService) Update(ctx context.Context, id string, p EventPatch) (domain.Event, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Event{}, &ValidationError{Msg: "Event ID is required"}
	}

	current, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("update event %s: %w", id, err)
	}

	next := p.Apply(current)
	if err := s.check(next); err != nil {
		return domain.Event{}, err
	}

	updated, err := s.repo.UpdateEvent(ctx, next)
	if err != nil {
		return domain.Event{}, fmt.Errorf("update event %s: %w", id, err)
	}
	return updated, nil
}

func (s *EventService) Delete(ctx context.Context, id string) (domain.Event, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Event{}, &ValidationError{Msg: "Event ID is required"}
	}

	deleted, err := s.repo.DeleteEvent(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("delete event %s: %w", id, err)
	}
	return deleted, nil
}

func (s *EventService) check(e domain.Event) error {
	rules := eventRules{
		Name:      e.Name,
		Type:      string(e.Type),
		Capacity:  e.Capacity,
		Attendees: e.Attendees,
	}
	if e.Geometry != nil {
		rules.Lat = &e.Geometry.Lat
		rules.Lng = &e.Geometry.Lng
	}

	if err := s.validate.Struct(rules); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
			}
			return &ValidationError{Msg: "invalid event: " + strings.Join(msgs, ", ")}
		}
		return fmt.Errorf("validate event: %w", err)
	}

	if !e.StartTime.IsZero() && !e.EndTime.IsZero() && e.EndTime.Before(e.StartTime) {
		return &ValidationError{Msg: "invalid event: end_time is before start_time"}
	}
	return nil
}
