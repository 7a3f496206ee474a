package v1

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
)

type JobHandler struct {
	jobUC domain.JobUsecase
	appUC domain.ApplicationUsecase
}

func NewJobHandler(
	optional *gin.RouterGroup,
	recruiter *gin.RouterGroup,
	applicant *gin.RouterGroup,
	jobUC domain.JobUsecase,
	appUC domain.ApplicationUsecase,
) {
	handler := &JobHandler{jobUC: jobUC, appUC: appUC}

	optional.GET("/jobs", handler.List)

	applicant.POST("/jobs/apply", handler.Apply)

	recruiter.POST("/jobs", handler.Create)
	recruiter.PATCH("/jobs/:jobId", handler.Update)
	recruiter.DELETE("/jobs/:jobId", handler.Delete)
	recruiter.GET("/jobs/:jobId/applications", handler.ListApplications)
}

// parseJobFilter reads the listing query. Unknown salary or experience
// bands are rejected.
func parseJobFilter(c *gin.Context) (domain.JobFilter, error) {
	salary, err := domain.ParseSalaryBand(c.Query("salary"))
	if err != nil {
		return domain.JobFilter{}, err
	}
	experience, err := domain.ParseExperienceBand(c.Query("experience"))
	if err != nil {
		return domain.JobFilter{}, err
	}
	applied, _ := strconv.ParseBool(c.Query("applied"))

	return domain.JobFilter{
		JobID:          strings.TrimSpace(c.Query("id")),
		AppliedOnly:    applied,
		Location:       strings.TrimSpace(c.Query("location")),
		Type:           strings.TrimSpace(c.Query("type")),
		SalaryBand:     salary,
		ExperienceBand: experience,
	}, nil
}

// ListJobs godoc
// @Summary      List jobs
// @Description  Jobs visible to the caller. Anonymous callers see public fields, applicants get isApplied, recruiters see only their own jobs with applications. With id a single job is returned.
// @Tags         jobs
// @Produce      json
// @Param        id          query     string  false  "Job ID"
// @Param        applied     query     bool    false  "Only jobs the applicant applied to"
// @Param        location    query     string  false  "Location substring"
// @Param        type        query     string  false  "full-time, part-time, contract, internship"
// @Param        salary      query     string  false  "0-50000, 50000-100000, 100000+"
// @Param        experience  query     string  false  "entry, mid, senior"
// @Success      200         {object}  response.Response
// @Failure      400         {object}  response.Response
// @Failure      404         {object}  response.Response
// @Router       /jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	filter, err := parseJobFilter(c)
	if err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	jobs, err := h.jobUC.ListJobs(c.Request.Context(), caller(c), filter)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Jobs fetched successfully", jobs)
}

// CreateJob godoc
// @Summary      Create a job
// @Description  Post a job (recruiter only)
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        job  body      domain.JobInput  true  "Job"
// @Success      201  {object}  response.Response{data=domain.Job}
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /jobs [post]
// @Security     BearerAuth
func (h *JobHandler) Create(c *gin.Context) {
	var input domain.JobInput
	if !bindJSON(c, &input) {
		return
	}

	job, err := h.jobUC.CreateJob(c.Request.Context(), currentUserID(c), input)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Job created successfully", job)
}

// UpdateJob godoc
// @Summary      Update a job
// @Description  Partially update one of the recruiter's jobs
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        jobId  path      string           true  "Job ID"
// @Param        job    body      domain.JobPatch  true  "Fields to change"
// @Success      200    {object}  response.Response{data=domain.Job}
// @Failure      400    {object}  response.Response
// @Failure      403    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Router       /jobs/{jobId} [patch]
// @Security     BearerAuth
func (h *JobHandler) Update(c *gin.Context) {
	var patch domain.JobPatch
	if !bindJSON(c, &patch) {
		return
	}

	job, err := h.jobUC.UpdateJob(c.Request.Context(), currentUserID(c), c.Param("jobId"), patch)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job updated successfully", job)
}

// DeleteJob godoc
// @Summary      Delete a job
// @Description  Delete one of the recruiter's jobs together with its applications
// @Tags         jobs
// @Produce      json
// @Param        jobId  path      string  true  "Job ID"
// @Success      200    {object}  response.Response
// @Failure      403    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Router       /jobs/{jobId} [delete]
// @Security     BearerAuth
func (h *JobHandler) Delete(c *gin.Context) {
	if err := h.jobUC.DeleteJob(c.Request.Context(), currentUserID(c), c.Param("jobId")); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job deleted successfully", nil)
}

// ApplyJob godoc
// @Summary      Apply to a job
// @Description  Applicant applies once per job. A repeat returns 409.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        apply  body      domain.ApplyRequest  true  "Job to apply to"
// @Success      201    {object}  response.Response{data=domain.Application}
// @Failure      400    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Failure      409    {object}  response.Response
// @Router       /jobs/apply [post]
// @Security     BearerAuth
func (h *JobHandler) Apply(c *gin.Context) {
	var req domain.ApplyRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.appUC.Apply(c.Request.Context(), currentUserID(c), req.JobID)
	if err != nil {
		c.Error(err)
		return
	}

	if result.AlreadyApplied {
		response.Error(c, http.StatusConflict, "Already applied to this job", nil)
		return
	}

	response.Success(c, http.StatusCreated, "Applied successfully", result.Application)
}

// ListJobApplications godoc
// @Summary      Applications for a job
// @Description  Applicant profiles for one of the recruiter's jobs
// @Tags         applications
// @Produce      json
// @Param        jobId  path      string  true  "Job ID"
// @Success      200    {object}  response.Response{data=[]domain.JobApplicationView}
// @Failure      403    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Router       /jobs/{jobId}/applications [get]
// @Security     BearerAuth
func (h *JobHandler) ListApplications(c *gin.Context) {
	apps, err := h.appUC.ListForJob(c.Request.Context(), currentUserID(c), c.Param("jobId"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Applications fetched successfully", apps)
}
