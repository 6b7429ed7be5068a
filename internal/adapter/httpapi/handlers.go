package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/arkatama/pembukuan-backend/internal/domain"
	"github.com/arkatama/pembukuan-backend/internal/usecase/prepaid"
	"github.com/arkatama/pembukuan-backend/internal/usecase/report"
)

const dateLayout = "2006-01-02"

// ReportHandler serves the amortization report endpoints
type ReportHandler struct {
	reports *report.ReportService
	log     zerolog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports *report.ReportService, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, log: log}
}

// GetAmortization handles GET /api/reports/amortization?company_id=...&year=...
func (h *ReportHandler) GetAmortization(w http.ResponseWriter, r *http.Request) {
	companyID, err := uuid.Parse(r.URL.Query().Get("company_id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid company_id")
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid year")
		return
	}

	total, err := h.reports.Aggregate(r.Context(), companyID, year)
	if err != nil {
		h.log.Error().Err(err).Str("company_id", companyID.String()).Int("year", year).
			Msg("Failed to aggregate amortization report")
		WriteError(w, http.StatusInternalServerError, "Failed to build amortization report")
		return
	}

	WriteJSON(w, http.StatusOK, toReportResponse(total))
}

// PrepaidHandler serves the prepaid expense endpoints
type PrepaidHandler struct {
	prepaids *prepaid.PrepaidService
	log      zerolog.Logger
}

// NewPrepaidHandler creates a new prepaid handler
func NewPrepaidHandler(prepaids *prepaid.PrepaidService, log zerolog.Logger) *PrepaidHandler {
	return &PrepaidHandler{prepaids: prepaids, log: log}
}

// GetPeriodTotal handles GET /api/reports/prepaid?company_id=...&start=...&end=...
func (h *PrepaidHandler) GetPeriodTotal(w http.ResponseWriter, r *http.Request) {
	companyID, err := uuid.Parse(r.URL.Query().Get("company_id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid company_id")
		return
	}

	start, err := time.Parse(dateLayout, r.URL.Query().Get("start"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid start date, expected YYYY-MM-DD")
		return
	}

	end, err := time.Parse(dateLayout, r.URL.Query().Get("end"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid end date, expected YYYY-MM-DD")
		return
	}

	total, err := h.prepaids.PeriodTotal(r.Context(), companyID, start, end)
	if err != nil {
		h.log.Error().Err(err).Str("company_id", companyID.String()).
			Msg("Failed to compute prepaid period total")
		WriteError(w, http.StatusInternalServerError, "Failed to compute prepaid expense total")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"company_id":   companyID,
		"period_start": start.Format(dateLayout),
		"period_end":   end.Format(dateLayout),
		"total":        total.String(),
	})
}

// GetStatus handles GET /api/prepaid/{id}/status?as_of=...
func (h *PrepaidHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid prepaid item ID")
		return
	}

	asOf := time.Now()
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		asOf, err = time.Parse(dateLayout, raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid as_of date, expected YYYY-MM-DD")
			return
		}
	}

	item, status, err := h.prepaids.StatusAsOf(r.Context(), itemID, asOf)
	if err != nil {
		var itemErr *domain.InvalidItemError
		if errors.As(err, &itemErr) {
			WriteError(w, http.StatusUnprocessableEntity, itemErr.Error())
			return
		}
		h.log.Error().Err(err).Str("item_id", itemID.String()).Msg("Failed to compute prepaid status")
		WriteError(w, http.StatusNotFound, "Prepaid item not found")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"id":              item.ID,
		"name":            item.Name,
		"amount_bruto":    item.AmountBruto.String(),
		"as_of":           asOf.Format(dateLayout),
		"months_active":   status.MonthsActive,
		"accumulated":     status.Accumulated.String(),
		"book_value":      status.BookValue.String(),
		"monthly_expense": status.MonthlyExpense.String(),
		"closed":          status.Closed,
	})
}

// RegisterContract handles POST /api/prepaid
func (h *PrepaidHandler) RegisterContract(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CompanyID      string `json:"company_id"`
		Name           string `json:"name"`
		AmountNet      string `json:"amount_net"`
		TaxRate        string `json:"tax_rate"`
		StartDate      string `json:"start_date"`
		DurationMonths int    `json:"duration_months"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid company_id")
		return
	}

	amountNet, err := decimal.NewFromString(req.AmountNet)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid amount_net")
		return
	}

	taxRate := decimal.Zero
	if req.TaxRate != "" {
		taxRate, err = decimal.NewFromString(req.TaxRate)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid tax_rate")
			return
		}
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid start_date, expected YYYY-MM-DD")
		return
	}

	item, err := h.prepaids.RegisterContract(r.Context(), companyID, req.Name, amountNet, taxRate, startDate, req.DurationMonths)
	if err != nil {
		var itemErr *domain.InvalidItemError
		if errors.As(err, &itemErr) {
			WriteError(w, http.StatusUnprocessableEntity, itemErr.Error())
			return
		}
		h.log.Error().Err(err).Msg("Failed to register prepaid contract")
		WriteError(w, http.StatusInternalServerError, "Failed to register prepaid contract")
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{
		"id":              item.ID,
		"amount_bruto":    item.AmountBruto.String(),
		"monthly_expense": item.MonthlyExpense().Round(2).String(),
	})
}

// reportResponse is the wire shape of an amortization report total
type reportResponse struct {
	CompanyID  uuid.UUID         `json:"company_id"`
	ReportYear int               `json:"report_year"`
	PerSource  map[string]string `json:"per_source"`
	GrandTotal string            `json:"grand_total"`
	ItemCount  int               `json:"item_count"`
	Warnings   []warningResponse `json:"warnings,omitempty"`
}

type warningResponse struct {
	ItemID uuid.UUID `json:"item_id"`
	Name   string    `json:"name"`
	Reason string    `json:"reason"`
}

func toReportResponse(total *domain.AmortizationReportTotal) reportResponse {
	perSource := make(map[string]string, len(total.PerSource))
	for source, amount := range total.PerSource {
		perSource[string(source)] = amount.String()
	}

	warnings := make([]warningResponse, 0, len(total.Warnings))
	for _, warning := range total.Warnings {
		warnings = append(warnings, warningResponse{
			ItemID: warning.ItemID,
			Name:   warning.Name,
			Reason: warning.Reason,
		})
	}

	return reportResponse{
		CompanyID:  total.CompanyID,
		ReportYear: total.ReportYear,
		PerSource:  perSource,
		GrandTotal: total.GrandTotal.String(),
		ItemCount:  total.ItemCount,
		Warnings:   warnings,
	}
}
