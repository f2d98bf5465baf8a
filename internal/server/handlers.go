package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goliatone/go-authform/internal/logger"
	"github.com/goliatone/go-authform/pkg/orchestrator"
	"github.com/goliatone/go-authform/pkg/session"
	"github.com/goliatone/go-authform/pkg/strength"
	"github.com/goliatone/go-authform/pkg/toast"
	"github.com/goliatone/go-authform/pkg/validation"
)

const (
	eventInput = "input"
	eventBlur  = "blur"
)

type strengthRequest struct {
	Password   string   `json:"password"`
	UserInputs []string `json:"userInputs"`
}

type strengthResponse struct {
	strength.Result
	Estimate strength.Estimate `json:"estimate"`
}

type validateRequest struct {
	Kind     string `json:"kind"`
	Value    string `json:"value"`
	Required bool   `json:"required"`
	Primary  string `json:"primary"`
}

type fieldRequest struct {
	Event string `json:"event"`
	Value string `json:"value"`
}

type fieldResponse struct {
	Field    session.FieldState `json:"field"`
	Strength *strength.Result   `json:"strength"`
}

type valuesRequest struct {
	Values map[string]string `json:"values"`
}

type submitResponse struct {
	Result session.SubmitResult `json:"result"`
	Toasts []toast.Toast        `json:"toasts"`
}

type draftResponse struct {
	FormID string            `json:"formId"`
	Values map[string]string `json:"values"`
}

type actionRequest struct {
	Provider string `json:"provider"`
}

type toastsResponse struct {
	Toasts []toast.Toast `json:"toasts"`
}

func (s *Server) page(c *gin.Context) {
	sess, ok := sessionFrom(c)
	if !ok {
		abortWithError(c, http.StatusInternalServerError, "session unavailable")
		return
	}

	opts := sess.Snapshot()
	opts.Locale = s.locale
	html, err := s.orchestrator.Generate(c.Request.Context(), orchestrator.Request{
		RenderOptions: opts,
		ThemeName:     s.theme,
		ThemeVariant:  s.variant,
	})
	if err != nil {
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "render failed")
		return
	}
	// Rendered toasts are shown once.
	sess.Toasts()
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

func (s *Server) scoreStrength(c *gin.Context) {
	var req strengthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, strengthResponse{
		Result:   strength.Score(req.Password),
		Estimate: strength.EstimateOf(req.Password, req.UserInputs...),
	})
}

func (s *Server) validateValue(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	kind, _ := validation.ParseKind(req.Kind)
	result := validation.Validate(validation.Field{
		ID:       "value",
		Kind:     kind,
		Value:    req.Value,
		Required: req.Required,
	}, validation.Context{PrimaryPassword: req.Primary})
	if s.metrics != nil {
		s.metrics.FieldValidated(kind, result)
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) fieldEvent(c *gin.Context) {
	sess, ok := sessionFrom(c)
	if !ok {
		abortWithError(c, http.StatusInternalServerError, "session unavailable")
		return
	}
	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	formID, fieldID := c.Param("formId"), c.Param("fieldId")
	state, err := sess.Input(c.Request.Context(), formID, fieldID, req.Value)
	if err == nil && req.Event == eventBlur {
		state, err = sess.Blur(formID, fieldID)
	}
	if err != nil {
		respondWithMappedError(c, err)
		return
	}

	resp := fieldResponse{Field: state}
	if result, ok := sess.Strength(formID); ok {
		resp.Strength = &result
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) toggle(c *gin.Context) {
	sess, ok := sessionFrom(c)
	if !ok {
		abortWithError(c, http.StatusInternalServerError, "session unavailable")
		return
	}
	visible, err := sess.ToggleVisibility(c.Param("formId"), c.Param("fieldId"))
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"visible": visible})
}

func (s *Server) submit(c *gin.Context) {
	sess, ok := sessionFrom(c)
	if !ok {
		abortWithError(c, http.StatusInternalServerError, "session unavailable")
		return
	}
	var req valuesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	formID := c.Param("formId")
	for fieldID, value := range req.Values {
		if _, err := sess.Input(ctx, formID, fieldID, value); err != nil {
			respondWithMappedError(c, err)
			return
		}
	}

	result, err := sess.Submit(ctx, formID)
	if err != nil && result.Toast.ID == "" {
		respondWithMappedError(c, err)
		return
	}
	status := http.StatusOK
	if err != nil {
		// The submitter failed after the generic error toast was queued.
		_ = c.Error(err)
		status = http.StatusInternalServerError
	}
	logger.WithContext(ctx, s.log).Debug("submit handled",
		zap.String("form", formID),
		zap.Bool("valid", result.Valid),
	)
	c.JSON(status, submitResponse{Result: result, Toasts: sess.Toasts()})
}

func (s *Server) loadDraft(c *gin.Context) {
	sess, ok := sessionFrom(c)
	if !ok {
		abortWithError(c, http.StatusInternalServerError, "session unavailable")
		return
	}
	formID := c.Param("formId")
	values, err := sess.LoadDraft(c.Request.Context(), formID)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	c.JSON(http.StatusOK, draftResponse{FormID: formID, Values: values})
}

func (s *Server) saveDraft(c *gin.Context) {
	sess, ok := sessionFrom(c)
	if !ok {
		abortWithError(c, http.StatusInternalServerError, "session unavailable")
		return
	}
	var req valuesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := sess.SaveDraft(c.Request.Context(), c.Param("formId"), req.Values); err != nil {
		respondWithMappedError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) clearDraft(c *gin.Context) {
	sess, ok := sessionFrom(c)
	if !ok {
		abortWithError(c, http.StatusInternalServerError, "session unavailable")
		return
	}
	if err := sess.ClearDraft(c.Request.Context(), c.Param("formId")); err != nil {
		respondWithMappedError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) action(c *gin.Context) {
	sess, ok := sessionFrom(c)
	if !ok {
		abortWithError(c, http.StatusInternalServerError, "session unavailable")
		return
	}
	var req actionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	if _, err := sess.Action(c.Param("action"), req.Provider); err != nil {
		respondWithMappedError(c, err)
		return
	}
	c.JSON(http.StatusOK, toastsResponse{Toasts: sess.Toasts()})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"startedAt": s.startedAt,
		"sessions":  s.sessions.Len(),
	})
}

func (s *Server) openAPI(c *gin.Context) {
	c.Data(http.StatusOK, "application/yaml", openAPISpec)
}
