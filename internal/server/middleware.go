package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-authform/internal/logger"
	"github.com/goliatone/go-authform/pkg/session"
	"github.com/goliatone/go-authform/pkg/toast"
)

const (
	requestIDHeader = "X-Request-ID"
	sessionKey      = "authform.session"
)

// RequestID injects a correlation identifier into the context and headers.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}

		c.Writer.Header().Set(requestIDHeader, reqID)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), reqID))

		c.Next()
	}
}

// AccessLog emits one entry per request with the masked client address.
func AccessLog(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := []zap.Field{
			zap.String("request_id", logger.RequestID(c.Request.Context())),
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", logger.MaskIP(c.ClientIP())),
		}
		if ua := c.Request.UserAgent(); ua != "" {
			fields = append(fields, zap.String("user_agent", ua))
		}

		if len(c.Errors) > 0 {
			log.Error("request failed", append(fields, zap.String("errors", c.Errors.String()))...)
			return
		}
		log.Info("request completed", fields...)
	}
}

// Recovery turns a panic into the generic error toast.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}

	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.WithContext(c.Request.Context(), log).Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
		)
		t := toast.Error(toast.MessageUnexpected)
		if sess, ok := sessionFrom(c); ok {
			sess.Notify(t)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{
			Error:  "internal error",
			Toasts: []toast.Toast{t},
		})
	})
}

// clientSession binds the request to the session named by the client cookie,
// issuing a fresh cookie when the id is missing or malformed. New sessions
// restore their drafts.
func (s *Server) clientSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, _ := c.Cookie(s.cookieName)
		id, sess, created := s.sessions.Acquire(raw)
		if id != raw {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(s.cookieName, id, 0, "/", "", s.cookieSecure, true)
		}
		if created {
			if err := sess.Restore(c.Request.Context()); err != nil {
				logger.WithContext(c.Request.Context(), s.log).Warn("restore drafts failed", zap.Error(err))
			}
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func sessionFrom(c *gin.Context) (*session.Session, bool) {
	value, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := value.(*session.Session)
	return sess, ok
}
