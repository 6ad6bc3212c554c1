package exports

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"chauffeurtop_backend/internal/quotes/domain"
	"chauffeurtop_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

const (
	dateLayout    = "2006-01-02"
	defaultLimit  = 5000
	maxLimit      = 50000
	defaultWindow = 90 // days
)

// QuoteLister abstracts the repository for tests.
type QuoteLister interface {
	ListForExport(ctx context.Context, params ExportParams) ([]QuoteExportRow, error)
}

type Handler struct {
	repo QuoteLister
}

func NewHandler(repo QuoteLister) *Handler {
	return &Handler{repo: repo}
}

// ExportQuotesCSV streams the filtered quotes as a CSV attachment.
func (h *Handler) ExportQuotesCSV(c *gin.Context) {
	params, err := parseExportParams(c)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	rows, err := h.repo.ListForExport(c.Request.Context(), params)
	if httpkit.HandleError(c, err) {
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=quotes.csv")

	writer := csv.NewWriter(c.Writer)
	if err := writer.Write(csvHeaders()); err != nil {
		return
	}
	for _, row := range rows {
		if err := writer.Write(csvRecord(row)); err != nil {
			return
		}
	}
	writer.Flush()
}

func csvHeaders() []string {
	return []string{
		"ID",
		"Created",
		"Status",
		"Name",
		"Email",
		"Phone",
		"City",
		"Pickup",
		"Destination",
		"Trip Type",
		"Trip Date",
		"Trip Time",
		"Passengers",
		"Quoted Price",
		"Confirmed At",
		"Follow-ups",
		"Reminders",
		"Source",
		"UTM Source",
		"UTM Campaign",
	}
}

func csvRecord(row QuoteExportRow) []string {
	return []string{
		row.ID.String(),
		row.CreatedAt.UTC().Format(time.RFC3339),
		row.Status,
		row.Name,
		row.Email,
		row.Phone,
		row.City,
		row.PickupLocation,
		row.Destinations.FinalDestination(),
		row.Destinations.Type,
		row.TripDate,
		row.TripTime,
		strconv.Itoa(row.Passengers),
		formatCents(row.PriceCents),
		formatTimestamp(row.ConfirmedAt),
		strconv.Itoa(row.FollowUpCount),
		strconv.Itoa(row.ReminderCount),
		deref(row.Source),
		deref(row.UTMSource),
		deref(row.UTMCampaign),
	}
}

func parseExportParams(c *gin.Context) (ExportParams, error) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -defaultWindow)
	to := now

	if raw := strings.TrimSpace(c.Query("fromDate")); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return ExportParams{}, fmt.Errorf("invalid fromDate, expected YYYY-MM-DD")
		}
		from = parsed
	}
	if raw := strings.TrimSpace(c.Query("toDate")); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return ExportParams{}, fmt.Errorf("invalid toDate, expected YYYY-MM-DD")
		}
		to = parsed.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	}
	if to.Before(from) {
		return ExportParams{}, fmt.Errorf("toDate is before fromDate")
	}

	params := ExportParams{FromDate: from, ToDate: to, Limit: parseLimit(c)}

	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			return ExportParams{}, err
		}
		params.Status = &status
	}

	return params, nil
}

func parseLimit(c *gin.Context) int {
	limit := defaultLimit
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	if limit > maxLimit {
		return maxLimit
	}
	if limit < 1 {
		return defaultLimit
	}
	return limit
}

func formatCents(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(float64(*v)/100, 'f', 2, 64)
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
