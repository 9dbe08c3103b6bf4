package service

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/pranav-027/delimited-files-excel-converter/internal/model"
	"github.com/pranav-027/delimited-files-excel-converter/internal/store"
	"github.com/pranav-027/delimited-files-excel-converter/internal/tabular"
	"github.com/pranav-027/delimited-files-excel-converter/internal/workbook"
)

// Failure reasons surfaced to callers. Kept short; internal error details
// stay in logs and traces, not in API responses.
const (
	reasonInvalidEncoding = "file is not valid UTF-8 text"
	reasonEncodeFailed    = "workbook encoding failed"
	reasonStoreFailed     = "storing converted file failed"
)

// Converter defines the batch conversion use case.
type Converter interface {
	// ConvertBatch converts each input independently and returns one
	// outcome per input, position-for-position. A file's failure never
	// aborts its siblings.
	ConvertBatch(ctx context.Context, inputs []model.FileInput) []model.ConversionOutcome
}

// converterService is a concrete implementation of Converter.
type converterService struct {
	store       store.Store
	tracer      trace.Tracer
	conversions *prometheus.CounterVec
}

// NewConverter constructs a Converter writing artifacts into st and
// registering its metrics with reg.
func NewConverter(st store.Store, reg prometheus.Registerer) (Converter, error) {
	conversions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversions_total",
			Help: "Total number of file conversions, by outcome.",
		},
		[]string{"outcome"},
	)
	if err := reg.Register(conversions); err != nil {
		return nil, err
	}

	return &converterService{
		store:       st,
		tracer:      otel.Tracer("internal/service"),
		conversions: conversions,
	}, nil
}

// StoredName derives the artifact name for an uploaded file: the final
// extension is stripped and ".xlsx" appended. A name with no extension
// simply gains the suffix ("report.txt" -> "report.xlsx",
// "README" -> "README.xlsx").
func StoredName(displayName string) string {
	return strings.TrimSuffix(displayName, filepath.Ext(displayName)) + ".xlsx"
}

func (s *converterService) ConvertBatch(ctx context.Context, inputs []model.FileInput) []model.ConversionOutcome {
	ctx, span := s.tracer.Start(ctx, "convert_batch",
		trace.WithAttributes(attribute.Int("batch.size", len(inputs))))
	defer span.End()

	outcomes := make([]model.ConversionOutcome, len(inputs))

	// Files have no ordering dependency on each other; convert in
	// parallel, each goroutine owning one slot of the outcome slice.
	var wg sync.WaitGroup
	for i, in := range inputs {
		wg.Add(1)
		go func(i int, in model.FileInput) {
			defer wg.Done()
			outcomes[i] = s.convertOne(ctx, in)
		}(i, in)
	}
	wg.Wait()

	for _, o := range outcomes {
		if o.Converted {
			s.conversions.WithLabelValues("success").Inc()
		} else {
			s.conversions.WithLabelValues("failure").Inc()
		}
	}
	return outcomes
}

// convertOne runs parse -> encode -> put for one file. On any failure no
// artifact is left behind: the store write is the last step.
func (s *converterService) convertOne(ctx context.Context, in model.FileInput) model.ConversionOutcome {
	grid, err := tabular.Parse(in.Data)
	if err != nil {
		return model.FailureOutcome(in.DisplayName, reasonInvalidEncoding)
	}

	data, err := workbook.Encode(grid)
	if err != nil {
		return model.FailureOutcome(in.DisplayName, reasonEncodeFailed)
	}

	storedName := StoredName(in.DisplayName)
	if err := s.store.Put(ctx, storedName, data); err != nil {
		return model.FailureOutcome(in.DisplayName, reasonStoreFailed)
	}
	return model.SuccessOutcome(in.DisplayName, storedName, int64(len(data)))
}
