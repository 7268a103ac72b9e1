package core

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func scenarioWorkbook(t *testing.T) []byte {
	return buildWorkbook(t, "Ventes", [][]any{
		{"Année", "Article", "Ventes"},
		{2019, "A", 10},
		{2020, "A", 12},
		{2021, "A", 11},
		{2022, "A", 13},
		{2020, "B", 5},
		{2021, "B", 6},
	})
}

func TestService_Process(t *testing.T) {
	svc := NewService(ServiceOptions{MaxConcurrent: 2, MaxWait: time.Second})

	out, err := svc.Process(context.Background(), bytes.NewReader(scenarioWorkbook(t)), Request{Item: "A", Horizon: 2})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out.RunID == "" {
		t.Error("RunID should be set")
	}
	if len(out.Forecast) != 2 || out.Forecast[0].Year != 2023 {
		t.Errorf("unexpected forecast %+v", out.Forecast)
	}
	if !reflect.DeepEqual(out.Items, []string{"A", "B"}) {
		t.Errorf("Items = %v", out.Items)
	}
	if got := svc.Limiter().ActiveCount(); got != 0 {
		t.Errorf("slot not released, ActiveCount = %d", got)
	}
}

func TestService_ProcessWarning(t *testing.T) {
	svc := NewService(ServiceOptions{})

	out, err := svc.Process(context.Background(), bytes.NewReader(scenarioWorkbook(t)), Request{Item: "B"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out.Warning == nil || out.Warning.Kind != KindInsufficientData {
		t.Fatalf("expected insufficient data warning, got %+v", out.Warning)
	}
	if out.Horizon != DefaultPolicy.DefaultHorizon {
		t.Errorf("Horizon = %d, want default %d", out.Horizon, DefaultPolicy.DefaultHorizon)
	}
}

func TestService_ProcessErrors(t *testing.T) {
	t.Run("file too large", func(t *testing.T) {
		svc := NewService(ServiceOptions{MaxFileSize: 16})
		_, err := svc.Process(context.Background(), bytes.NewReader(scenarioWorkbook(t)), Request{})
		if !errors.Is(err, ErrFileTooLarge) {
			t.Errorf("expected ErrFileTooLarge, got %v", err)
		}
	})

	t.Run("not a workbook", func(t *testing.T) {
		svc := NewService(ServiceOptions{})
		_, err := svc.Process(context.Background(), bytes.NewReader([]byte("a,b,c")), Request{})
		if KindOf(err) != KindParse {
			t.Errorf("expected KindParse, got %v", err)
		}
	})

	t.Run("busy", func(t *testing.T) {
		svc := NewService(ServiceOptions{MaxConcurrent: 1, MaxWait: 20 * time.Millisecond})
		if !svc.Limiter().TryAcquire() {
			t.Fatal("TryAcquire failed")
		}
		defer svc.Limiter().Release()

		_, err := svc.Process(context.Background(), bytes.NewReader(scenarioWorkbook(t)), Request{})
		if !errors.Is(err, ErrTooManyRuns) {
			t.Errorf("expected ErrTooManyRuns, got %v", err)
		}
	})

	t.Run("cancelled while waiting", func(t *testing.T) {
		svc := NewService(ServiceOptions{MaxConcurrent: 1, MaxWait: time.Minute})
		if !svc.Limiter().TryAcquire() {
			t.Fatal("TryAcquire failed")
		}
		defer svc.Limiter().Release()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := svc.Process(ctx, bytes.NewReader(scenarioWorkbook(t)), Request{})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("wrong columns", func(t *testing.T) {
		data := buildWorkbook(t, "", [][]any{
			{"Year", "Item", "Qty"},
			{2019, "A", 10},
		})
		svc := NewService(ServiceOptions{})
		_, err := svc.Process(context.Background(), bytes.NewReader(data), Request{})
		if KindOf(err) != KindSchema {
			t.Errorf("expected KindSchema, got %v", err)
		}
	})
}

func TestService_ListItems(t *testing.T) {
	svc := NewService(ServiceOptions{})

	items, err := svc.ListItems(context.Background(), bytes.NewReader(scenarioWorkbook(t)))
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if !reflect.DeepEqual(items, []string{"A", "B"}) {
		t.Errorf("items = %v", items)
	}
}

func TestService_ListItemsBusy(t *testing.T) {
	svc := NewService(ServiceOptions{MaxConcurrent: 1})
	if !svc.Limiter().TryAcquire() {
		t.Fatal("TryAcquire failed")
	}

	_, err := svc.ListItems(context.Background(), bytes.NewReader(scenarioWorkbook(t)))
	if !errors.Is(err, ErrTooManyRuns) {
		t.Errorf("expected ErrTooManyRuns, got %v", err)
	}

	svc.Limiter().Release()
	if _, err := svc.ListItems(context.Background(), bytes.NewReader(scenarioWorkbook(t))); err != nil {
		t.Fatalf("ListItems after Release: %v", err)
	}
	if n := svc.Limiter().ActiveCount(); n != 0 {
		t.Errorf("ActiveCount = %d after ListItems, want 0", n)
	}
}

func TestService_ProcessKeepsRunID(t *testing.T) {
	svc := NewService(ServiceOptions{})
	ctx := ContextWithRunID(context.Background(), "run-42")

	out, err := svc.Process(ctx, bytes.NewReader(scenarioWorkbook(t)), Request{Item: "A", Horizon: 1})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out.RunID != "run-42" {
		t.Errorf("RunID = %q, want run-42", out.RunID)
	}
	if got := RunIDFromContext(context.Background()); got != "" {
		t.Errorf("RunIDFromContext(empty) = %q", got)
	}
}

func TestNewService_Defaults(t *testing.T) {
	svc := NewService(ServiceOptions{})
	if svc.Policy() != DefaultPolicy {
		t.Errorf("Policy = %+v, want %+v", svc.Policy(), DefaultPolicy)
	}
	if svc.Limiter().MaxConcurrent() != DefaultMaxConcurrentRuns {
		t.Errorf("MaxConcurrent = %d", svc.Limiter().MaxConcurrent())
	}
	if svc.timeout != DefaultRunTimeout {
		t.Errorf("timeout = %v", svc.timeout)
	}
}
