package http

import (
	"net/http"

	"formcount/internal/log"
)

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows, err := s.svc.Reports.Project(r.Context(), q.Get("reportType"), q.Get("year"))
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest, log.ComponentReports, log.OpProject)
		return
	}
	NewJSONResponse().Body(rows).Write(w)
}

func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, http.StatusBadRequest, log.ComponentReports, log.OpExport)
		return
	}
	res, err := s.svc.Reports.Export(r.Context(), req.ReportType, req.Year)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest, log.ComponentReports, log.OpExport)
		return
	}
	log.FromContext(r.Context()).WithComponent(log.ComponentReports).InfoContext(r.Context(), "Report exported",
		log.FieldReportType, res.ReportType, log.FieldYear, res.Year, "rows", res.Rows, "ref", res.Ref)
	NewJSONResponse().Body(res).Write(w)
}
