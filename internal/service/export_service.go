package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/association-site-api/internal/models"
	"github.com/association-site-api/internal/repository"
)

// Export formats
const (
	FormatNDJSON = "ndjson"
	FormatJSON   = "json"
	FormatCSV    = "csv"
	FormatXLSX   = "xlsx"
)

// Export resources
const (
	ResourceSubscribers = "subscribers"
	ResourceArticles    = "articles"
)

// ErrUnsupportedExport is returned for an unknown resource or format
var ErrUnsupportedExport = fmt.Errorf("unsupported export: %w", models.ErrValidation)

var (
	subscriberColumns = []string{"id", "email", "ip_address", "user_agent", "created_at"}
	articleColumns    = []string{"id", "title", "slug", "category", "published", "author_id", "last_modified_by_username", "created_at", "updated_at"}
)

// exportService is the concrete implementation of ExportService
type exportService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newExportService creates a new ExportService
func newExportService(repos *repository.Repositories, log zerolog.Logger) *exportService {
	return &exportService{
		repos: repos,
		log:   log.With().Str("service", "export").Logger(),
	}
}

// StreamSubscribers streams newsletter subscribers in the specified format
func (s *exportService) StreamSubscribers(ctx context.Context, w http.ResponseWriter, format string) error {
	s.log.Info().Str("format", format).Msg("Starting subscribers export")

	stream := func(fn func(any) error) error {
		return s.repos.Subscriber.StreamAll(ctx, func(sub *models.Subscriber) error { return fn(sub) })
	}
	row := func(v any) []string {
		sub := v.(*models.Subscriber)
		return []string{sub.ID, sub.Email, sub.IPAddress, sub.UserAgent, formatTime(sub.CreatedAt)}
	}

	switch format {
	case FormatNDJSON:
		return s.writeNDJSON(w, ResourceSubscribers, stream)
	case FormatJSON:
		return s.writeJSON(w, ResourceSubscribers, stream)
	case FormatCSV:
		return s.writeCSV(w, ResourceSubscribers, subscriberColumns, stream, row)
	case FormatXLSX:
		return s.writeXLSX(w, ResourceSubscribers, subscriberColumns, stream, row)
	default:
		return fmt.Errorf("%w: %s as %s", ErrUnsupportedExport, ResourceSubscribers, format)
	}
}

// StreamArticles streams articles in the specified format
func (s *exportService) StreamArticles(ctx context.Context, w http.ResponseWriter, format string) error {
	s.log.Info().Str("format", format).Msg("Starting articles export")

	stream := func(fn func(any) error) error {
		return s.repos.Article.StreamAll(ctx, func(a *models.Article) error { return fn(a) })
	}
	row := func(v any) []string {
		a := v.(*models.Article)
		return []string{
			a.ID, a.Title, a.Slug, string(a.Category), fmt.Sprint(a.Published),
			a.AuthorID, a.LastModifiedByUsername, formatTime(a.CreatedAt), formatTime(a.UpdatedAt),
		}
	}

	switch format {
	case FormatNDJSON:
		return s.writeNDJSON(w, ResourceArticles, stream)
	case FormatJSON:
		return s.writeJSON(w, ResourceArticles, stream)
	case FormatXLSX:
		return s.writeXLSX(w, ResourceArticles, articleColumns, stream, row)
	default:
		return fmt.Errorf("%w: %s as %s", ErrUnsupportedExport, ResourceArticles, format)
	}
}

// GetCount returns count for a resource
func (s *exportService) GetCount(ctx context.Context, resource string) (int, error) {
	switch resource {
	case ResourceSubscribers:
		return s.repos.Subscriber.Count(ctx)
	case ResourceArticles:
		articles, err := s.repos.Article.List(ctx, repository.ArticleFilter{})
		if err != nil {
			return 0, err
		}
		return len(articles), nil
	default:
		return 0, fmt.Errorf("%w: unknown resource %s", ErrUnsupportedExport, resource)
	}
}

type streamFunc func(fn func(any) error) error

func (s *exportService) writeNDJSON(w http.ResponseWriter, resource string, stream streamFunc) error {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Content-Disposition", "attachment; filename="+resource+".ndjson")

	flusher, _ := w.(http.Flusher)
	count := 0

	err := stream(func(v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		w.Write(data)
		w.Write([]byte("\n"))
		count++

		// Flush every 100 records for streaming
		if count%100 == 0 && flusher != nil {
			flusher.Flush()
		}
		return nil
	})

	s.log.Info().Str("resource", resource).Int("count", count).Msg("Export completed")
	return err
}

func (s *exportService) writeJSON(w http.ResponseWriter, resource string, stream streamFunc) error {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename="+resource+".json")

	w.Write([]byte("["))
	first := true

	err := stream(func(v any) error {
		if !first {
			w.Write([]byte(","))
		}
		first = false

		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		w.Write(data)
		return nil
	})

	w.Write([]byte("]"))
	return err
}

func (s *exportService) writeCSV(w http.ResponseWriter, resource string, header []string, stream streamFunc, row func(any) []string) error {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+resource+".csv")

	writer := csv.NewWriter(w)
	defer writer.Flush()

	writer.Write(header)
	return stream(func(v any) error {
		return writer.Write(row(v))
	})
}

// writeXLSX buffers the workbook through excelize's stream writer and sends it at the end.
func (s *exportService) writeXLSX(w http.ResponseWriter, resource string, header []string, stream streamFunc, row func(any) []string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("create stream writer: %w", err)
	}

	if err := sw.SetRow("A1", toCells(header)); err != nil {
		return err
	}

	line := 2
	err = stream(func(v any) error {
		cell, err := excelize.CoordinatesToCellName(1, line)
		if err != nil {
			return err
		}
		line++
		return sw.SetRow(cell, toCells(row(v)))
	})
	if err != nil {
		return err
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+resource+".xlsx")
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	s.log.Info().Str("resource", resource).Int("count", line-2).Msg("Export completed")
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
