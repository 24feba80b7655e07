package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/yankaics/OnlineJudge/internal/api/response"
	"github.com/yankaics/OnlineJudge/internal/service"
)

type contestRef struct {
	ContestID int64 `json:"contest_id"`
}

// ContestPermission 본문의 contest_id로 대회 참가 자격 확인.
// 본문은 ShouldBindBodyWith로 읽어 핸들러가 다시 바인딩할 수 있다.
func ContestPermission(gate *service.ContestGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		var ref contestRef
		if err := c.ShouldBindBodyWith(&ref, binding.JSON); err != nil {
			response.Abort(c, service.DecodeError(err))
			return
		}
		if ref.ContestID <= 0 {
			response.Abort(c, &service.ValidationError{Fields: map[string]string{"contest_id": "is required"}})
			return
		}

		if err := gate.Check(c.Request.Context(), ref.ContestID, identity); err != nil {
			response.Abort(c, err)
			return
		}

		c.Next()
	}
}
