// Package response 서비스 에러 → HTTP 응답 변환
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yankaics/OnlineJudge/internal/service"
	"github.com/yankaics/OnlineJudge/pkg/logger"
)

// Error 서비스 에러를 상태 코드와 본문으로 변환한다.
// 알 수 없는 에러는 내용을 숨기고 500.
func Error(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	var notFoundErr *service.NotFoundError
	var dispatchErr *service.DispatchError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "invalid input",
			"fields": validationErr.Fields,
		})

	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{
			"error": notFoundErr.Error(),
		})

	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "forbidden",
		})

	case errors.Is(err, service.ErrContestNotStarted), errors.Is(err, service.ErrContestEnded):
		c.JSON(http.StatusForbidden, gin.H{
			"error": err.Error(),
		})

	case errors.Is(err, service.ErrRejudgeInProgress):
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
		})

	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid username or password",
		})

	case errors.As(err, &dispatchErr):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":         service.ErrDispatchFailed.Error(),
			"submission_id": dispatchErr.SubmissionID,
		})

	default:
		logger.Error("Unhandled request error",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "internal server error",
		})
	}
}

// Abort 미들웨어용: 응답 후 체인 중단
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
