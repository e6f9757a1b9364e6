package mock

import (
	"context"

	"github.com/AndreyKolygin/jobgrab"
)

var _ jobgrab.ResultService = (*ResultService)(nil)

// ResultService is a mock implementation of jobgrab.ResultService.
type ResultService struct {
	SaveResultFn       func(ctx context.Context, result *jobgrab.StoredResult) error
	FindLatestResultFn func(ctx context.Context, tabID string) (*jobgrab.StoredResult, error)
	FindResultsFn      func(ctx context.Context, filter jobgrab.ResultFilter) ([]*jobgrab.StoredResult, error)
}

func (s *ResultService) SaveResult(ctx context.Context, result *jobgrab.StoredResult) error {
	return s.SaveResultFn(ctx, result)
}

func (s *ResultService) FindLatestResult(ctx context.Context, tabID string) (*jobgrab.StoredResult, error) {
	return s.FindLatestResultFn(ctx, tabID)
}

func (s *ResultService) FindResults(ctx context.Context, filter jobgrab.ResultFilter) ([]*jobgrab.StoredResult, error) {
	return s.FindResultsFn(ctx, filter)
}
