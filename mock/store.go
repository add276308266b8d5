package mock

import (
	"context"

	"github.com/fwojciec/vidgrade"
)

// Compile-time interface verification.
var (
	_ vidgrade.ReportStore   = (*ReportStore)(nil)
	_ vidgrade.FeatureLoader = (*FeatureLoader)(nil)
)

// ReportStore is a mock implementation of vidgrade.ReportStore.
type ReportStore struct {
	SaveFn func(ctx context.Context, report *vidgrade.Report) error
	FindFn func(ctx context.Context, id string) (*vidgrade.Report, error)
	ListFn func(ctx context.Context) ([]*vidgrade.Report, error)
}

func (s *ReportStore) Save(ctx context.Context, report *vidgrade.Report) error {
	return s.SaveFn(ctx, report)
}

func (s *ReportStore) Find(ctx context.Context, id string) (*vidgrade.Report, error) {
	return s.FindFn(ctx, id)
}

func (s *ReportStore) List(ctx context.Context) ([]*vidgrade.Report, error) {
	return s.ListFn(ctx)
}

// FeatureLoader is a mock implementation of vidgrade.FeatureLoader.
type FeatureLoader struct {
	LoadFn func(path string) ([]vidgrade.Features, error)
}

func (l *FeatureLoader) Load(path string) ([]vidgrade.Features, error) {
	return l.LoadFn(path)
}
