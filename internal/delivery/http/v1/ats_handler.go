package v1

import (
	"net/http"

	"cvchef-backend/internal/delivery/http/response"
	"cvchef-backend/internal/domain"
	"cvchef-backend/pkg/apperror"
	"cvchef-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

type ATSHandler struct {
	atsUC domain.ATSUsecase
}

// NewATSHandler registers the stateless ATS routes
func NewATSHandler(protected *gin.RouterGroup, atsUC domain.ATSUsecase, aiLimit gin.HandlerFunc) {
	handler := &ATSHandler{atsUC: atsUC}

	ats := protected.Group("/ats")
	{
		ats.POST("/analyze", aiLimit, handler.Analyze)
		ats.POST("/report", handler.Report)
	}
}

// AnalyzeATS godoc
// @Summary      Compare a resume against a job description
// @Tags         ats
// @Accept       json
// @Produce      json
// @Param        request  body      domain.ATSAnalyzeRequest  true  "Resume and job description"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      502      {object}  response.Response
// @Failure      503      {object}  response.Response
// @Router       /ats/analyze [post]
// @Security     BearerAuth
func (h *ATSHandler) Analyze(c *gin.Context) {
	var req domain.ATSAnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(validation.Message(err)))
		return
	}

	feedback, err := h.atsUC.Analyze(c.Request.Context(), req.Resume, req.JobDescription)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "ATS analysis complete", h.atsUC.Present(feedback))
}

// ATSReport godoc
// @Summary      Download ATS feedback as a spreadsheet
// @Tags         ats
// @Accept       json
// @Produce      application/octet-stream
// @Param        request  body      domain.ATSReportRequest  true  "Feedback and format (xlsx or csv, default xlsx)"
// @Success      200      {file}    binary
// @Failure      400      {object}  response.Response
// @Router       /ats/report [post]
// @Security     BearerAuth
func (h *ATSHandler) Report(c *gin.Context) {
	var req domain.ATSReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(validation.Message(err)))
		return
	}

	data, filename, err := h.atsUC.ExportReport(c.Request.Context(), &req.Feedback, req.Format)
	if err != nil {
		c.Error(err)
		return
	}

	contentType := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	if req.Format == "csv" {
		contentType = "text/csv"
	}
	response.Attachment(c, filename, contentType, data)
}
