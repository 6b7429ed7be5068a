package httpapi

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/arkatama/pembukuan-backend/internal/usecase/prepaid"
	"github.com/arkatama/pembukuan-backend/internal/usecase/report"
)

// NewRouter assembles the API routes with the middleware chain:
// recovery -> logging -> CORS -> auth -> handler
func NewRouter(reports *report.ReportService, prepaids *prepaid.PrepaidService, apiToken string, log zerolog.Logger) http.Handler {
	reportHandler := NewReportHandler(reports, log)
	prepaidHandler := NewPrepaidHandler(prepaids, log)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/reports/amortization", reportHandler.GetAmortization)
	mux.HandleFunc("GET /api/reports/prepaid", prepaidHandler.GetPeriodTotal)
	mux.HandleFunc("GET /api/prepaid/{id}/status", prepaidHandler.GetStatus)
	mux.HandleFunc("POST /api/prepaid", prepaidHandler.RegisterContract)

	var handler http.Handler = mux
	handler = Auth(apiToken)(handler)
	handler = CORS(handler)
	handler = Logger(log)(handler)
	handler = Recovery(log)(handler)

	return handler
}
