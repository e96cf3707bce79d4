package v1

import (
	"net/http"

	"cvchef-backend/internal/delivery/http/middleware"
	"cvchef-backend/internal/delivery/http/response"
	"cvchef-backend/internal/domain"
	"cvchef-backend/pkg/apperror"
	"cvchef-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

type ResumeHandler struct {
	resumeUC domain.ResumeUsecase
	exportUC domain.ExportUsecase
}

// NewResumeHandler registers resume routes. Listing accepts anonymous
// callers; everything else needs a token.
func NewResumeHandler(optional, protected *gin.RouterGroup, resumeUC domain.ResumeUsecase, exportUC domain.ExportUsecase, exportLimit gin.HandlerFunc) {
	handler := &ResumeHandler{resumeUC: resumeUC, exportUC: exportUC}

	optional.GET("/resumes", handler.List)

	resumes := protected.Group("/resumes")
	{
		resumes.POST("", handler.Create)
		resumes.GET("/:id", handler.Get)
		resumes.PUT("/:id", handler.Update)
		resumes.DELETE("/:id", handler.Delete)
		resumes.GET("/:id/export", exportLimit, handler.Export)
	}
}

// ListResumes godoc
// @Summary      List my resumes
// @Description  Lists the caller's resumes, newest first. Anonymous callers get an empty list.
// @Tags         resumes
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /resumes [get]
func (h *ResumeHandler) List(c *gin.Context) {
	resumes, err := h.resumeUC.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Resumes retrieved", resumes)
}

// CreateResume godoc
// @Summary      Create a resume
// @Tags         resumes
// @Accept       json
// @Produce      json
// @Param        resume  body      domain.CreateResumeRequest  true  "Resume title"
// @Success      201     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Failure      401     {object}  response.Response
// @Router       /resumes [post]
// @Security     BearerAuth
func (h *ResumeHandler) Create(c *gin.Context) {
	var req domain.CreateResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(validation.Message(err)))
		return
	}

	id, err := h.resumeUC.Create(c.Request.Context(), middleware.UserID(c), req.Title)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Resume created", gin.H{"id": id})
}

// GetResume godoc
// @Summary      Get a resume
// @Tags         resumes
// @Produce      json
// @Param        id   path      string  true  "Resume ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /resumes/{id} [get]
// @Security     BearerAuth
func (h *ResumeHandler) Get(c *gin.Context) {
	resume, err := h.resumeUC.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Resume retrieved", resume)
}

// UpdateResume godoc
// @Summary      Update a resume
// @Description  Merges the fields present in the body onto the saved resume; omitted fields are kept. Send revision to reject the write when someone else saved first.
// @Tags         resumes
// @Accept       json
// @Produce      json
// @Param        id      path      string                      true  "Resume ID"
// @Param        resume  body      domain.UpdateResumeRequest  true  "Resume fields"
// @Success      200     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Failure      409     {object}  response.Response
// @Router       /resumes/{id} [put]
// @Security     BearerAuth
func (h *ResumeHandler) Update(c *gin.Context) {
	var req domain.UpdateResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(validation.Message(err)))
		return
	}

	id, err := h.resumeUC.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.ResumePatch, req.Revision)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Resume updated", gin.H{"id": id})
}

// DeleteResume godoc
// @Summary      Delete a resume
// @Tags         resumes
// @Produce      json
// @Param        id   path      string  true  "Resume ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /resumes/{id} [delete]
// @Security     BearerAuth
func (h *ResumeHandler) Delete(c *gin.Context) {
	id, err := h.resumeUC.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Resume deleted", gin.H{"id": id})
}

// ExportResume godoc
// @Summary      Download a resume as PDF
// @Description  Renders the saved resume onto a single A4 page
// @Tags         resumes
// @Produce      application/pdf
// @Param        id   path      string  true  "Resume ID"
// @Success      200  {file}    binary
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      429  {object}  response.Response
// @Router       /resumes/{id}/export [get]
// @Security     BearerAuth
func (h *ResumeHandler) Export(c *gin.Context) {
	pdf, filename, err := h.exportUC.Export(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Attachment(c, filename, "application/pdf", pdf)
}
