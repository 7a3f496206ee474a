package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ApplicationHandler struct {
	appUC domain.ApplicationUsecase
}

func NewApplicationHandler(recruiter *gin.RouterGroup, applicant *gin.RouterGroup, appUC domain.ApplicationUsecase) {
	handler := &ApplicationHandler{appUC: appUC}

	recruiter.GET("/applications", handler.ListForRecruiter)
	recruiter.GET("/applications/export", handler.Export)
	recruiter.PATCH("/applications/status", handler.UpdateStatus)

	applicant.GET("/applicant/applications", handler.ListForApplicant)
}

func recruiterFilter(c *gin.Context) domain.RecruiterApplicationFilter {
	return domain.RecruiterApplicationFilter{
		JobID:  strings.TrimSpace(c.Query("jobId")),
		Status: strings.TrimSpace(c.Query("status")),
	}
}

// ListRecruiterApplications godoc
// @Summary      Recruiter applications
// @Description  Applications across the recruiter's jobs, newest first
// @Tags         applications
// @Produce      json
// @Param        jobId   query     string  false  "Job ID"
// @Param        status  query     string  false  "applied, reviewed, shortlisted, rejected"
// @Success      200     {object}  response.Response{data=[]domain.RecruiterApplicationView}
// @Router       /applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListForRecruiter(c *gin.Context) {
	apps, err := h.appUC.ListForRecruiter(c.Request.Context(), currentUserID(c), recruiterFilter(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Applications fetched successfully", apps)
}

// ExportApplications godoc
// @Summary      Export applications
// @Description  Download the recruiter's applications as an Excel workbook
// @Tags         applications
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        jobId   query  string  false  "Job ID"
// @Param        status  query  string  false  "Status"
// @Success      200     {file}  binary
// @Router       /applications/export [get]
// @Security     BearerAuth
func (h *ApplicationHandler) Export(c *gin.Context) {
	data, filename, err := h.appUC.ExportForRecruiter(c.Request.Context(), currentUserID(c), recruiterFilter(c))
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// UpdateApplicationStatus godoc
// @Summary      Update application status
// @Description  Move an application on one of the recruiter's jobs to any status
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        status  body      domain.StatusUpdateRequest  true  "New status"
// @Success      200     {object}  response.Response{data=domain.StatusUpdateView}
// @Failure      400     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Router       /applications/status [patch]
// @Security     BearerAuth
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var req domain.StatusUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.appUC.SetStatus(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application status updated successfully", view)
}

// ListApplicantApplications godoc
// @Summary      My applications
// @Description  The applicant's own applications, newest first
// @Tags         applications
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.ApplicantApplicationView}
// @Router       /applicant/applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListForApplicant(c *gin.Context) {
	apps, err := h.appUC.ListForApplicant(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Applications fetched successfully", apps)
}
