package api

import (
	"github.com/gin-gonic/gin"
	"github.com/yankaics/OnlineJudge/internal/api/handlers"
	"github.com/yankaics/OnlineJudge/internal/api/middleware"
	"github.com/yankaics/OnlineJudge/internal/service"
	"github.com/yankaics/OnlineJudge/internal/websocket"
	jwtutil "github.com/yankaics/OnlineJudge/pkg/jwt"
	"github.com/yankaics/OnlineJudge/pkg/ratelimit"
)

// Dependencies 라우터가 필요로 하는 조립된 구성요소
type Dependencies struct {
	Env                string
	CORSAllowedOrigins []string

	JWTManager        *jwtutil.JWTManager
	AuthService       handlers.Authenticator
	SubmissionService handlers.SubmissionService
	ContestGate       *service.ContestGate
	SubmitLimiter     ratelimit.Limiter
	QueueDepth        handlers.QueueDepth
	Hub               *websocket.Hub
}

// SetupRouter API 라우터 설정
func SetupRouter(deps Dependencies) *gin.Engine {
	if deps.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 전역 미들웨어
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(deps.CORSAllowedOrigins))

	authHandler := handlers.NewAuthHandler(deps.AuthService)
	submissionHandler := handlers.NewSubmissionHandler(deps.SubmissionService)
	monitorHandler := handlers.NewMonitorHandler(deps.QueueDepth)

	auth := middleware.Auth(deps.JWTManager)
	submitLimit := middleware.RateLimit(deps.SubmitLimiter, nil)

	router.GET("/health", handlers.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/login", authHandler.Login)

		if deps.Hub != nil {
			wsHandler := handlers.NewWebSocketHandler(deps.Hub, deps.CORSAllowedOrigins)
			v1.GET("/ws", auth, wsHandler.HandleWebSocket)
		}

		submissions := v1.Group("/submissions")
		submissions.Use(auth)
		{
			submissions.POST("", submitLimit, submissionHandler.CreateSubmission)
			submissions.GET("/status", submissionHandler.GetSubmissionStatus)
			submissions.GET("/my", submissionHandler.ListMySubmissions)
			submissions.GET("/:id", submissionHandler.GetSubmission)
			submissions.POST("/share", submissionHandler.ToggleShare)
		}

		contests := v1.Group("/contests")
		contests.Use(auth)
		{
			contests.POST("/submissions",
				middleware.ContestPermission(deps.ContestGate),
				submitLimit,
				submissionHandler.CreateContestSubmission)
		}

		admin := v1.Group("/admin")
		admin.Use(auth, middleware.SuperAdminRequired())
		{
			admin.GET("/submissions", submissionHandler.AdminListSubmissions)
			admin.POST("/submissions/rejudge", submissionHandler.AdminRejudge)
			admin.GET("/judge/queue", monitorHandler.GetQueueDepth)
		}
	}

	return router
}
