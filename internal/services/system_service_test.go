package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/promostore/storefront/internal/domain"
)

type stubHealthRepository struct {
	collectFn func(context.Context) (domain.SystemHealthReport, error)
}

func (s stubHealthRepository) Collect(ctx context.Context) (domain.SystemHealthReport, error) {
	return s.collectFn(ctx)
}

func TestSystemServiceHealthReport(t *testing.T) {
	started := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)
	now := started.Add(90 * time.Second)

	svc, err := NewSystemService(SystemServiceDeps{
		HealthRepository: stubHealthRepository{collectFn: func(context.Context) (domain.SystemHealthReport, error) {
			return domain.SystemHealthReport{
				Status: domain.HealthStatusOK,
				Checks: map[string]domain.SystemHealthCheck{"catalog": {Status: domain.HealthStatusOK}},
			}, nil
		}},
		Clock: func() time.Time { return now },
		Build: BuildInfo{Version: "1.4.0", CommitSHA: "abc123", Environment: "staging", StartedAt: started},
	})
	if err != nil {
		t.Fatalf("NewSystemService: %v", err)
	}

	report, err := svc.HealthReport(context.Background())
	if err != nil {
		t.Fatalf("HealthReport: %v", err)
	}
	if report.Version != "1.4.0" || report.CommitSHA != "abc123" || report.Environment != "staging" {
		t.Fatalf("unexpected build info: %+v", report)
	}
	if report.Uptime != 90*time.Second {
		t.Fatalf("expected uptime 90s, got %s", report.Uptime)
	}
	if report.Status != domain.HealthStatusOK {
		t.Fatalf("expected ok status, got %s", report.Status)
	}
}

func TestSystemServiceHealthReportError(t *testing.T) {
	svc, err := NewSystemService(SystemServiceDeps{
		HealthRepository: stubHealthRepository{collectFn: func(context.Context) (domain.SystemHealthReport, error) {
			return domain.SystemHealthReport{}, errors.New("collector offline")
		}},
	})
	if err != nil {
		t.Fatalf("NewSystemService: %v", err)
	}
	if _, err := svc.HealthReport(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewSystemServiceRequiresRepository(t *testing.T) {
	if _, err := NewSystemService(SystemServiceDeps{}); err == nil {
		t.Fatal("expected error")
	}
}
