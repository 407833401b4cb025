package support

import (
	"context"
	"log/slog"
	"time"
)

// Result is the outcome of a successful options lookup.
type Result struct {
	Context ResolutionContext
	Options Options
}

// Service runs the options pipeline: validate, resolve, select.
type Service struct {
	validator *Validator
	resolver  *ContextResolver
	selector  *Selector
}

// NewService wires the pipeline around the chain-data resolver and catalog.
func NewService(txResolver TxResolver, catalog Catalog, resolveTimeout time.Duration, logger *slog.Logger) *Service {
	return &Service{
		validator: NewValidator(),
		resolver:  NewContextResolver(txResolver, resolveTimeout, logger),
		selector:  NewSelector(catalog),
	}
}

// Validator returns the allow-list validator used by the service.
func (s *Service) Validator() *Validator {
	return s.validator
}

// Options validates req, resolves its transaction and selects support options.
// Errors are *ProductError, ValidationErrors or *ResolutionError.
func (s *Service) Options(ctx context.Context, req RequestParameters) (*Result, error) {
	params, err := s.validator.Validate(req)
	if err != nil {
		return nil, err
	}

	rc, err := s.resolver.Resolve(ctx, params)
	if err != nil {
		return nil, err
	}

	return &Result{
		Context: rc,
		Options: s.selector.Select(rc),
	}, nil
}

// RenderHTML renders the options of a result as markup.
func (s *Service) RenderHTML(res *Result) (string, error) {
	return s.selector.HTML(res.Options)
}
