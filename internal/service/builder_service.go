package service

import (
	"context"

	"github.com/ray/billdesk/internal/domain"
	"github.com/ray/billdesk/internal/store"
)

// BuilderService manages the billed parties. Invoices keep their own
// snapshot of a builder's identity, so edits here never rewrite history.
type BuilderService interface {
	Create(ctx context.Context, builder *domain.Builder) (*domain.Builder, error)
	Update(ctx context.Context, builder *domain.Builder) (*domain.Builder, error)
	Get(ctx context.Context, id string) (*domain.Builder, error)
	List(ctx context.Context, force bool) ([]*domain.Builder, error)
	Delete(ctx context.Context, id string) error
}

type builderService struct {
	store *store.Store
}

// NewBuilderService creates a builder service.
func NewBuilderService(st *store.Store) BuilderService {
	return &builderService{store: st}
}

func (s *builderService) Create(ctx context.Context, builder *domain.Builder) (*domain.Builder, error) {
	if err := builder.Validate(); err != nil {
		return nil, err
	}
	builder.NormalizeAddress()
	return s.store.Builders.Add(ctx, builder)
}

func (s *builderService) Update(ctx context.Context, builder *domain.Builder) (*domain.Builder, error) {
	if err := builder.Validate(); err != nil {
		return nil, err
	}
	builder.NormalizeAddress()
	return s.store.Builders.Update(ctx, builder)
}

func (s *builderService) Get(ctx context.Context, id string) (*domain.Builder, error) {
	return s.store.Builders.Get(ctx, id)
}

func (s *builderService) List(ctx context.Context, force bool) ([]*domain.Builder, error) {
	return s.store.Builders.List(ctx, force)
}

func (s *builderService) Delete(ctx context.Context, id string) error {
	return s.store.Builders.Delete(ctx, id)
}
