package handlers

import (
	"context"
	"net/http"

	"production_advisor/internal/models"
	"production_advisor/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockAnalysis struct {
	runResp    *models.AnalysisRun
	runErr     error
	evalResp   *models.AnalysisRun
	evalErr    error
	latest     *models.AnalysisRun
	latestErr  error
	getResp    *models.AnalysisRun
	getErr     error
	listResp   []models.RunSummary
	listErr    error
	lastEval   service.EvaluateInput
	lastGetID  string
	lastLimit  int
	runCalls   int
}

func (m *mockAnalysis) Run(ctx context.Context) (*models.AnalysisRun, error) {
	m.runCalls++
	return m.runResp, m.runErr
}
func (m *mockAnalysis) Evaluate(ctx context.Context, in service.EvaluateInput) (*models.AnalysisRun, error) {
	m.lastEval = in
	return m.evalResp, m.evalErr
}
func (m *mockAnalysis) Latest(ctx context.Context) (*models.AnalysisRun, error) {
	return m.latest, m.latestErr
}
func (m *mockAnalysis) Get(ctx context.Context, runID string) (*models.AnalysisRun, error) {
	m.lastGetID = runID
	return m.getResp, m.getErr
}
func (m *mockAnalysis) List(ctx context.Context, limit int) ([]models.RunSummary, error) {
	m.lastLimit = limit
	return m.listResp, m.listErr
}

type mockDecisions struct {
	recordResp models.Decision
	recordErr  error
	listResp   []models.Decision
	listErr    error
	lastParams service.DecisionParams
	lastFilter models.DecisionFilter
}

func (m *mockDecisions) Record(ctx context.Context, p service.DecisionParams) (models.Decision, error) {
	m.lastParams = p
	return m.recordResp, m.recordErr
}
func (m *mockDecisions) List(ctx context.Context, f models.DecisionFilter) ([]models.Decision, error) {
	m.lastFilter = f
	return m.listResp, m.listErr
}

type mockHealth struct {
	err error
}

func (m *mockHealth) Ready(ctx context.Context) error {
	return m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, Config{DefaultTopN: 2})
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func sampleRun(id string) *models.AnalysisRun {
	return &models.AnalysisRun{
		RunID:  id,
		Origin: models.OriginUpstream,
		Recommendations: []models.Recommendation{
			{Kind: models.KindUrgentOrder, SubjectID: "ORD-1", Severity: models.SeverityCritical},
			{Kind: models.KindOverload, SubjectID: "M-2", Severity: models.SeverityHigh},
			{Kind: models.KindIdleMachine, SubjectID: "M-3", Severity: models.SeverityMedium},
		},
	}
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
