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

type EditorHandler struct {
	editorUC domain.EditorUsecase
}

func NewEditorHandler(protected *gin.RouterGroup, editorUC domain.EditorUsecase, aiLimit gin.HandlerFunc) {
	handler := &EditorHandler{editorUC: editorUC}

	protected.POST("/resumes/:id/editor", aiLimit, handler.Open)

	editor := protected.Group("/editor/:sessionId")
	{
		editor.GET("", handler.View)
		editor.DELETE("", handler.Close)
		editor.POST("/ops", handler.Apply)
		editor.POST("/save", handler.Save)
		editor.GET("/ats", handler.Feedback)
		editor.POST("/ats", aiLimit, handler.AnalyzeATS)
		editor.POST("/chat", aiLimit, handler.Chat)
	}
}

// OpenEditor godoc
// @Summary      Open an editor session
// @Description  Loads the resume into a working copy and starts the assistant transcript. An existing session on the same revision is returned instead.
// @Tags         editor
// @Produce      json
// @Param        id   path      string  true  "Resume ID"
// @Success      201  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      429  {object}  response.Response
// @Router       /resumes/{id}/editor [post]
// @Security     BearerAuth
func (h *EditorHandler) Open(c *gin.Context) {
	view, err := h.editorUC.Open(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Editor session opened", view)
}

// ViewEditor godoc
// @Summary      Get an editor session
// @Tags         editor
// @Produce      json
// @Param        sessionId  path      string  true  "Session ID"
// @Success      200        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Router       /editor/{sessionId} [get]
// @Security     BearerAuth
func (h *EditorHandler) View(c *gin.Context) {
	view, err := h.editorUC.View(c.Request.Context(), middleware.UserID(c), c.Param("sessionId"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Editor session retrieved", view)
}

// ApplyOps godoc
// @Summary      Apply form edits
// @Description  Applies a batch of edits in order. Out of range edits are skipped and reported in applied.
// @Tags         editor
// @Accept       json
// @Produce      json
// @Param        sessionId  path      string                  true  "Session ID"
// @Param        ops        body      domain.ApplyOpsRequest  true  "Edits"
// @Success      200        {object}  response.Response
// @Failure      400        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Router       /editor/{sessionId}/ops [post]
// @Security     BearerAuth
func (h *EditorHandler) Apply(c *gin.Context) {
	var req domain.ApplyOpsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(validation.Message(err)))
		return
	}

	result, err := h.editorUC.Apply(c.Request.Context(), middleware.UserID(c), c.Param("sessionId"), req.Ops)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Edits applied", result)
}

// SaveEditor godoc
// @Summary      Save the working copy
// @Tags         editor
// @Produce      json
// @Param        sessionId  path      string  true  "Session ID"
// @Success      200        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Failure      409        {object}  response.Response
// @Router       /editor/{sessionId}/save [post]
// @Security     BearerAuth
func (h *EditorHandler) Save(c *gin.Context) {
	view, err := h.editorUC.Save(c.Request.Context(), middleware.UserID(c), c.Param("sessionId"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Resume updated successfully", view)
}

// CloseEditor godoc
// @Summary      Close an editor session
// @Description  Discards unsaved edits and the transcript
// @Tags         editor
// @Produce      json
// @Param        sessionId  path      string  true  "Session ID"
// @Success      200        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Router       /editor/{sessionId} [delete]
// @Security     BearerAuth
func (h *EditorHandler) Close(c *gin.Context) {
	if err := h.editorUC.Close(c.Request.Context(), middleware.UserID(c), c.Param("sessionId")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Editor session closed", nil)
}

// AnalyzeEditorATS godoc
// @Summary      Compare the working copy against a job description
// @Tags         editor
// @Accept       json
// @Produce      json
// @Param        sessionId  path      string                     true  "Session ID"
// @Param        request    body      domain.ATSSessionRequest   true  "Job description"
// @Success      200        {object}  response.Response
// @Failure      400        {object}  response.Response
// @Failure      409        {object}  response.Response
// @Failure      502        {object}  response.Response
// @Router       /editor/{sessionId}/ats [post]
// @Security     BearerAuth
func (h *EditorHandler) AnalyzeATS(c *gin.Context) {
	var req domain.ATSSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(validation.Message(err)))
		return
	}

	view, err := h.editorUC.AnalyzeATS(c.Request.Context(), middleware.UserID(c), c.Param("sessionId"), req.JobDescription)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "ATS analysis complete", view)
}

// EditorFeedback godoc
// @Summary      Get the latest ATS feedback
// @Description  Returns null data when no analysis has run in this session
// @Tags         editor
// @Produce      json
// @Param        sessionId  path      string  true  "Session ID"
// @Success      200        {object}  response.Response
// @Router       /editor/{sessionId}/ats [get]
// @Security     BearerAuth
func (h *EditorHandler) Feedback(c *gin.Context) {
	view, err := h.editorUC.Feedback(c.Request.Context(), middleware.UserID(c), c.Param("sessionId"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "ATS feedback retrieved", view)
}

// EditorChat godoc
// @Summary      Send a message to the assistant
// @Description  A failed reply is still recorded in the transcript and flagged with failed=true
// @Tags         editor
// @Accept       json
// @Produce      json
// @Param        sessionId  path      string                  true  "Session ID"
// @Param        message    body      domain.ChatTurnRequest  true  "User message"
// @Success      200        {object}  response.Response
// @Failure      400        {object}  response.Response
// @Failure      409        {object}  response.Response
// @Router       /editor/{sessionId}/chat [post]
// @Security     BearerAuth
func (h *EditorHandler) Chat(c *gin.Context) {
	var req domain.ChatTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(validation.Message(err)))
		return
	}

	result, err := h.editorUC.Chat(c.Request.Context(), middleware.UserID(c), c.Param("sessionId"), req.Message)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Reply received", result)
}
