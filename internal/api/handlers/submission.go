package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/yankaics/OnlineJudge/internal/api/middleware"
	"github.com/yankaics/OnlineJudge/internal/api/response"
	"github.com/yankaics/OnlineJudge/internal/models"
	"github.com/yankaics/OnlineJudge/internal/service"
)

// SubmissionService 핸들러가 사용하는 제출 서비스 동작
type SubmissionService interface {
	Create(ctx context.Context, requester models.Identity, req models.CreateSubmissionRequest) (int64, error)
	CreateForContest(ctx context.Context, requester models.Identity, req models.CreateContestSubmissionRequest) (int64, error)
	Rejudge(ctx context.Context, requester models.Identity, submissionID int64) error
	ToggleShare(ctx context.Context, requester models.Identity, submissionID int64) (bool, error)
	GetStatus(ctx context.Context, requester models.Identity, submissionID int64) (*service.StatusView, error)
	GetDetail(ctx context.Context, requester models.Identity, submissionID int64) (*service.DetailView, error)
	ListByProblem(ctx context.Context, requester models.Identity, problemID int64, page, pageSize int) (*service.Page[*models.Submission], error)
	ListMine(ctx context.Context, requester models.Identity, filter models.SubmissionFilter) (*service.Page[*models.SubmissionSummary], error)
}

type SubmissionHandler struct {
	submissionService SubmissionService
}

func NewSubmissionHandler(submissionService SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

func invalidField(field, msg string) *service.ValidationError {
	return &service.ValidationError{Fields: map[string]string{field: msg}}
}

// parseID 양의 정수 ID 파싱
func parseID(raw, field string) (int64, error) {
	if raw == "" {
		return 0, invalidField(field, "is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, invalidField(field, "must be a positive integer")
	}
	return id, nil
}

// queryInt 선택 정수 파라미터 (없으면 0)
func queryInt(c *gin.Context, field string) (int, error) {
	raw := c.Query(field)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidField(field, "must be an integer")
	}
	return v, nil
}

func requester(c *gin.Context) models.Identity {
	identity, _ := middleware.GetIdentity(c)
	return identity
}

func bindSubmissionID(c *gin.Context) (int64, error) {
	var req models.SubmissionIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return 0, service.DecodeError(err)
	}
	if err := service.ValidateStruct(&req); err != nil {
		return 0, err
	}
	return req.SubmissionID, nil
}

// CreateSubmission 공개 문제 제출
func (h *SubmissionHandler) CreateSubmission(c *gin.Context) {
	var req models.CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.DecodeError(err))
		return
	}

	id, err := h.submissionService.Create(c.Request.Context(), requester(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"submission_id": id})
}

// CreateContestSubmission 대회 제출 (ContestPermission 뒤에서 실행)
func (h *SubmissionHandler) CreateContestSubmission(c *gin.Context) {
	var req models.CreateContestSubmissionRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		response.Error(c, service.DecodeError(err))
		return
	}

	id, err := h.submissionService.CreateForContest(c.Request.Context(), requester(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"submission_id": id})
}

// GetSubmissionStatus 본인 제출 결과
func (h *SubmissionHandler) GetSubmissionStatus(c *gin.Context) {
	id, err := parseID(c.Query("submission_id"), "submission_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	status, err := h.submissionService.GetStatus(c.Request.Context(), requester(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// GetSubmission 제출 상세
func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	id, err := parseID(c.Param("id"), "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	detail, err := h.submissionService.GetDetail(c.Request.Context(), requester(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// ToggleShare 공유 토글
func (h *SubmissionHandler) ToggleShare(c *gin.Context) {
	id, err := bindSubmissionID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	shared, err := h.submissionService.ToggleShare(c.Request.Context(), requester(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"submission_id": id, "shared": shared})
}

// ListMySubmissions 내 제출 목록
func (h *SubmissionHandler) ListMySubmissions(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	page, err := h.submissionService.ListMine(c.Request.Context(), requester(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func parseFilter(c *gin.Context) (models.SubmissionFilter, error) {
	var filter models.SubmissionFilter
	var err error

	if filter.Page, err = queryInt(c, "page"); err != nil {
		return filter, err
	}
	if filter.PageSize, err = queryInt(c, "page_size"); err != nil {
		return filter, err
	}

	if raw := c.Query("problem_id"); raw != "" {
		id, err := parseID(raw, "problem_id")
		if err != nil {
			return filter, err
		}
		filter.ProblemID = &id
	}

	if raw := c.Query("language"); raw != "" {
		v, err := strconv.Atoi(raw)
		lang := models.Language(v)
		if err != nil || !lang.Valid() {
			return filter, invalidField("language", "unsupported language")
		}
		filter.Language = &lang
	}

	if raw := c.Query("result"); raw != "" {
		v, err := strconv.Atoi(raw)
		result := models.Result(v)
		if err != nil || !result.Valid() {
			return filter, invalidField("result", "unknown result")
		}
		filter.Result = &result
	}

	if raw := c.Query("show_all"); raw != "" {
		showAll, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, invalidField("show_all", "must be a boolean")
		}
		filter.ShowAll = showAll
	}

	return filter, nil
}

// AdminListSubmissions 문제별 제출 목록 (슈퍼관리자)
func (h *SubmissionHandler) AdminListSubmissions(c *gin.Context) {
	problemID, err := parseID(c.Query("problem_id"), "problem_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	page, err := queryInt(c, "page")
	if err != nil {
		response.Error(c, err)
		return
	}
	pageSize, err := queryInt(c, "page_size")
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.submissionService.ListByProblem(c.Request.Context(), requester(c), problemID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// AdminRejudge 재채점 (슈퍼관리자)
func (h *SubmissionHandler) AdminRejudge(c *gin.Context) {
	id, err := bindSubmissionID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.submissionService.Rejudge(c.Request.Context(), requester(c), id); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"submission_id": id, "message": "rejudge queued"})
}
