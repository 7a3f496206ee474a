package v1_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobboard-backend/config"
	v1 "go-jobboard-backend/internal/delivery/http/v1"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/repository/memory"
	"go-jobboard-backend/internal/usecase"
	"go-jobboard-backend/pkg/auth"
	"go-jobboard-backend/pkg/security"
	"go-jobboard-backend/pkg/storage"
	"go-jobboard-backend/pkg/validation"
)

const prefix = "/api/v1.0.0"

type envelope struct {
	Message    string          `json:"message"`
	StatusCode int             `json:"statusCode"`
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Errors     []string        `json:"errors"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Mode:                     "dev",
		AppVersion:               "1.0.0",
		CookieName:               "token",
		JWTTTL:                   time.Hour,
		RateLimitWindowSeconds:   60,
		RateLimitLoginThreshold:  100,
		RateLimitGlobalThreshold: 1000,
	}

	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	jobs := memory.NewJobRepository(store)
	apps := memory.NewApplicationRepository(store)
	validate := validation.New()
	tokens := auth.NewTokenManager("router-test-secret", cfg.JWTTTL)

	uploadDir := t.TempDir()
	files, err := storage.NewLocalStore(uploadDir, "/uploads")
	require.NoError(t, err)

	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        usecase.NewAuthUsecase(users, tokens, validate),
		JobUC:         usecase.NewJobUsecase(jobs, apps, users, validate),
		ApplicationUC: usecase.NewApplicationUsecase(apps, jobs, users, nil, validate),
		ProfileUC:     usecase.NewProfileUsecase(users, validate),
		UploadUC:      usecase.NewUploadUsecase(users, files),
		HealthUC:      usecase.NewHealthUsecase(map[string]domain.Pinger{"store": store}),
		Tokens:        tokens,
		LoginTracker:  security.NewLoginTracker(security.DefaultLoginTrackerConfig(), nil, nil),
		UploadLimiter: security.NewUploadLimiter(10, nil),
		UploadDir:     uploadDir,
		Config:        cfg,
	})
	return &testServer{t: t, router: router}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, prefix+path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// account signs up and signs in, returning the user id and token.
func (s *testServer) account(name, role string) (string, string) {
	s.t.Helper()
	email := strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com"

	w := s.do(http.MethodPost, "/signup", "", map[string]string{
		"name": name, "email": email, "password": "secret123", "role": role,
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/signin", "", map[string]string{"email": email, "password": "secret123"})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())

	var session struct {
		ID    string `json:"_id"`
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(decode(s.t, w).Data, &session))
	return session.ID, session.Token
}

func (s *testServer) createJob(token, title, salary, experience, jobType string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/jobs", token, map[string]interface{}{
		"title":        title,
		"description":  "Build and run services",
		"company":      "Acme",
		"location":     "Bengaluru, India",
		"salary":       salary,
		"experience":   experience,
		"type":         jobType,
		"requirements": []string{"Go"},
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var job struct {
		ID string `json:"_id"`
	}
	require.NoError(s.t, json.Unmarshal(decode(s.t, w).Data, &job))
	return job.ID
}

func TestEnvelope(t *testing.T) {
	s := newTestServer(t)

	t.Run("Should wrap success data", func(t *testing.T) {
		w := s.do(http.MethodGet, "/jobs", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		env := decode(t, w)
		assert.True(t, env.Success)
		assert.Equal(t, http.StatusOK, env.StatusCode)
		assert.JSONEq(t, `[]`, string(env.Data))
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("Should carry null data and an errors array on failure", func(t *testing.T) {
		w := s.do(http.MethodPost, "/signup", "", map[string]string{"email": "not-an-email"})
		require.Equal(t, http.StatusBadRequest, w.Code)

		var raw map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
		assert.Equal(t, false, raw["success"])
		assert.Nil(t, raw["data"])
		assert.Contains(t, raw, "errors")
		assert.NotEmpty(t, raw["errors"])
	})

	t.Run("Should report health", func(t *testing.T) {
		w := s.do(http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAuthRoutes(t *testing.T) {
	s := newTestServer(t)
	_, token := s.account("Ada Lovelace", "applicant")

	t.Run("Should set an http-only cookie on signin", func(t *testing.T) {
		w := s.do(http.MethodPost, "/signin", "", map[string]string{"email": "ada.lovelace@example.com", "password": "secret123"})
		require.Equal(t, http.StatusOK, w.Code)

		var cookie *http.Cookie
		for _, c := range w.Result().Cookies() {
			if c.Name == "token" {
				cookie = c
			}
		}
		require.NotNil(t, cookie)
		assert.True(t, cookie.HttpOnly)
		assert.NotEmpty(t, cookie.Value)

		req := httptest.NewRequest(http.MethodGet, prefix+"/me", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Should reject wrong password with 401", func(t *testing.T) {
		w := s.do(http.MethodPost, "/signin", "", map[string]string{"email": "ada.lovelace@example.com", "password": "wrong-one"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, decode(t, w).Success)
	})

	t.Run("Should reject a duplicate signup", func(t *testing.T) {
		w := s.do(http.MethodPost, "/signup", "", map[string]string{
			"name": "Ada Again", "email": "ada.lovelace@example.com", "password": "secret123", "role": "applicant",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "User already exists", decode(t, w).Message)
	})

	t.Run("Should return the caller from me", func(t *testing.T) {
		w := s.do(http.MethodGet, "/me", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var me map[string]string
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &me))
		assert.Equal(t, "applicant", me["role"])
		assert.NotContains(t, me, "password")
	})

	t.Run("Should reject a malformed token on protected routes", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/me", "garbage", nil).Code)
		assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/me", "", nil).Code)
	})

	t.Run("Should clear the cookie on signout", func(t *testing.T) {
		w := s.do(http.MethodPost, "/signout", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Set-Cookie"), "token=;")
	})
}

func TestJobRoutes(t *testing.T) {
	s := newTestServer(t)
	_, recruiter := s.account("Rita Recruiter", "recruiter")
	_, applicant := s.account("Alan Applicant", "applicant")

	full := s.createJob(recruiter, "Backend Engineer", "₹12,00,000 - ₹18,00,000", "3-4 years", "Full-time")
	s.createJob(recruiter, "Design Intern", "$20,000", "Fresher", "Internship")

	t.Run("Should degrade a malformed token to anonymous", func(t *testing.T) {
		w := s.do(http.MethodGet, "/jobs", "garbage", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var jobs []map[string]interface{}
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &jobs))
		require.Len(t, jobs, 2)
		assert.NotContains(t, jobs[0], "isApplied")
		assert.NotContains(t, jobs[0], "applications")
	})

	t.Run("Should filter anonymous listing by type token", func(t *testing.T) {
		w := s.do(http.MethodGet, "/jobs?type=full-time", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var jobs []map[string]interface{}
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &jobs))
		require.Len(t, jobs, 1)
		assert.Equal(t, full, jobs[0]["_id"])
	})

	t.Run("Should reject an unknown salary band", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/jobs?salary=lots", "", nil).Code)
	})

	t.Run("Should return an object for a single job", func(t *testing.T) {
		w := s.do(http.MethodGet, "/jobs?id="+full, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var job map[string]interface{}
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &job))
		assert.Equal(t, "Backend Engineer", job["title"])
	})

	t.Run("Should 404 an unknown job id", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/jobs?id=missing", "", nil).Code)
	})

	t.Run("Should forbid applicants from posting jobs", func(t *testing.T) {
		w := s.do(http.MethodPost, "/jobs", applicant, map[string]string{"title": "x"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Should require authentication to post jobs", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/jobs", "", map[string]string{}).Code)
	})

	t.Run("Should patch a job", func(t *testing.T) {
		w := s.do(http.MethodPatch, "/jobs/"+full, recruiter, map[string]string{"location": "Remote"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var job map[string]interface{}
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &job))
		assert.Equal(t, "Remote", job["location"])
	})
}

func TestHiringFlow(t *testing.T) {
	s := newTestServer(t)
	_, recruiter := s.account("Rita Recruiter", "recruiter")
	applicantID, applicant := s.account("Alan Applicant", "applicant")
	jobID := s.createJob(recruiter, "Backend Engineer", "$120,000", "5+ years", "Full-time")

	w := s.do(http.MethodPost, "/jobs/apply", applicant, map[string]string{"jobId": jobID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var app struct {
		ID        string `json:"_id"`
		Applicant string `json:"applicant"`
		Status    string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &app))
	assert.Equal(t, applicantID, app.Applicant)
	assert.Equal(t, "applied", app.Status)

	t.Run("Should answer a repeat apply with 409", func(t *testing.T) {
		w := s.do(http.MethodPost, "/jobs/apply", applicant, map[string]string{"jobId": jobID})
		require.Equal(t, http.StatusConflict, w.Code)
		env := decode(t, w)
		assert.False(t, env.Success)
		assert.Equal(t, "Already applied to this job", env.Message)
	})

	t.Run("Should require a job id to apply", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/jobs/apply", applicant, map[string]string{}).Code)
	})

	t.Run("Should mark applied jobs for the applicant", func(t *testing.T) {
		w := s.do(http.MethodGet, "/jobs?applied=true", applicant, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var jobs []map[string]interface{}
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &jobs))
		require.Len(t, jobs, 1)
		assert.Equal(t, true, jobs[0]["isApplied"])
	})

	t.Run("Should nest applications for the owning recruiter", func(t *testing.T) {
		w := s.do(http.MethodGet, "/jobs", recruiter, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var jobs []struct {
			Applications []struct {
				Status    string `json:"status"`
				Applicant struct {
					Name string `json:"name"`
				} `json:"applicant"`
			} `json:"applications"`
		}
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &jobs))
		require.Len(t, jobs, 1)
		require.Len(t, jobs[0].Applications, 1)
		assert.Equal(t, "Alan Applicant", jobs[0].Applications[0].Applicant.Name)
	})

	t.Run("Should update status as the owner", func(t *testing.T) {
		w := s.do(http.MethodPatch, "/applications/status", recruiter, map[string]string{
			"applicationId": app.ID, "status": "shortlisted",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = s.do(http.MethodGet, "/applicant/applications", applicant, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var mine []struct {
			Status string `json:"status"`
			Job    struct {
				Title string `json:"title"`
			} `json:"job"`
		}
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &mine))
		require.Len(t, mine, 1)
		assert.Equal(t, "shortlisted", mine[0].Status)
		assert.Equal(t, "Backend Engineer", mine[0].Job.Title)
	})

	t.Run("Should reject an unknown status", func(t *testing.T) {
		w := s.do(http.MethodPatch, "/applications/status", recruiter, map[string]string{
			"applicationId": app.ID, "status": "hired",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Should forbid another recruiter", func(t *testing.T) {
		_, other := s.account("Oscar Other", "recruiter")
		w := s.do(http.MethodPatch, "/applications/status", other, map[string]string{
			"applicationId": app.ID, "status": "rejected",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/jobs/"+jobID+"/applications", other, nil).Code)
	})

	t.Run("Should list applicant profiles for the owner", func(t *testing.T) {
		w := s.do(http.MethodGet, "/jobs/"+jobID+"/applications", recruiter, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var rows []struct {
			Applicant map[string]interface{} `json:"applicant"`
		}
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &rows))
		require.Len(t, rows, 1)
		assert.Equal(t, "Alan Applicant", rows[0].Applicant["name"])
		assert.NotContains(t, rows[0].Applicant, "_id")
	})

	t.Run("Should export applications as a workbook", func(t *testing.T) {
		w := s.do(http.MethodGet, "/applications/export", recruiter, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
		assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
		assert.NotEmpty(t, w.Body.Bytes())
	})

	t.Run("Should cascade a job delete", func(t *testing.T) {
		require.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/jobs/"+jobID, recruiter, nil).Code)

		w := s.do(http.MethodGet, "/applicant/applications", applicant, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, string(decode(t, w).Data))
	})
}

func TestProfileRoutes(t *testing.T) {
	s := newTestServer(t)
	_, applicant := s.account("Alan Applicant", "applicant")
	_, recruiter := s.account("Rita Recruiter", "recruiter")

	t.Run("Should ignore identity fields on patch", func(t *testing.T) {
		w := s.do(http.MethodPatch, "/profile", applicant, map[string]interface{}{
			"bio":   "Gopher",
			"email": "hijack@example.com",
			"role":  "recruiter",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var user map[string]interface{}
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &user))
		assert.Equal(t, "Gopher", user["bio"])
		assert.Equal(t, "alan.applicant@example.com", user["email"])
		assert.Equal(t, "applicant", user["role"])
	})

	t.Run("Should change the password", func(t *testing.T) {
		w := s.do(http.MethodPatch, "/profile/password", applicant, map[string]string{
			"currentPassword": "secret123", "newPassword": "secret456",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = s.do(http.MethodPost, "/signin", "", map[string]string{"email": "alan.applicant@example.com", "password": "secret456"})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	upload := func(path, token, filename string, data []byte) *httptest.ResponseRecorder {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, prefix+path, &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		return w
	}

	pdf := []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

	t.Run("Should store a resume", func(t *testing.T) {
		w := upload("/profile/resume", applicant, "cv.pdf", pdf)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var user map[string]interface{}
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &user))
		assert.True(t, strings.HasPrefix(user["resume"].(string), "/uploads/resumes/"))
	})

	t.Run("Should reject a disguised resume", func(t *testing.T) {
		w := upload("/profile/resume", applicant, "cv.pdf", []byte("MZ\x90\x00 not a pdf at all"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Should keep resumes for applicants", func(t *testing.T) {
		w := upload("/profile/resume", recruiter, "cv.pdf", pdf)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
