package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"cuaderno/internal/assistant"
	"cuaderno/internal/config"
	"cuaderno/internal/model"
	"cuaderno/internal/repository"
	"cuaderno/internal/service"
	"cuaderno/internal/state"
	"cuaderno/internal/store"
	"cuaderno/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAssistant struct {
	prompt string
	image  *assistant.Image
}

func (f *fakeAssistant) Ask(_ context.Context, prompt string, image *assistant.Image) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", assistant.ErrEmptyPrompt
	}
	f.prompt, f.image = prompt, image
	return "Riegue al atardecer.", nil
}

type testServer struct {
	store  *store.MemoryStore
	svc    Services
	router *gin.Engine
}

func newTestServer(t *testing.T, auth service.AuthService) *testServer {
	t.Helper()
	s := store.NewMemoryStore()
	st := state.New()
	repos := service.Repositories{
		Parcels:  repository.New(model.KindParcel, s, st.Parcels),
		Crops:    repository.New(model.KindCrop, s, st.Crops),
		Records:  repository.New(model.KindFinancialRecord, s, st.Records),
		Invoices: repository.New(model.KindInvoice, s, st.Invoices),
		Tasks:    repository.New(model.KindTask, s, st.Tasks),
	}
	fiscal := service.NewFiscalService(s, config.DefaultFiscalProfileID, st.Fiscal, nil)
	health := service.NewHealthService(s)
	loader := service.NewLoaderService(repos, fiscal, health, nil)
	if auth == nil {
		auth = service.NewAuthService("", "", time.Hour)
	}

	svc := Services{
		Parcels:   service.NewParcelService(repos.Parcels, st.Parcels, nil),
		Crops:     service.NewCropService(repos.Crops, st, nil),
		Finance:   service.NewFinanceService(repos.Records, st.Records, nil),
		Invoices:  service.NewInvoiceService(repos.Invoices, st.Invoices, nil),
		Tasks:     service.NewTaskService(repos.Tasks, st.Tasks, nil),
		Fiscal:    fiscal,
		Cascade:   service.NewCascadeService(s, st, repos.Parcels, repos.Crops, false, nil),
		Health:    health,
		Loader:    loader,
		Backup:    service.NewBackupService(s, st, loader, config.DefaultFiscalProfileID),
		Dashboard: service.NewDashboardService(st, health),
		Auth:      auth,
		Assistant: &fakeAssistant{},
	}
	router := NewRouter(svc, RouterOptions{AllowedOrigins: []string{"http://localhost:5173"}})
	return &testServer{store: s, svc: svc, router: router}
}

func (ts *testServer) load(t *testing.T) {
	t.Helper()
	require.NoError(t, ts.svc.Loader.Load(context.Background()))
}

func (ts *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	response.Response
	Data json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &out))
	return out
}

func TestDataRoutesWaitForLoad(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.store.FailOn("Select", model.TableTasks, errors.New("connection refused"))
	require.Error(t, ts.svc.Loader.Load(context.Background()))

	w := ts.do(http.MethodGet, "/api/parcelas", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, decode(t, w).Error, "connection refused")

	w = ts.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "loadError")

	// the connection check stays reachable and reports the check result
	w = ts.do(http.MethodPost, "/api/ajustes/verificar-conexion", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	status := decodeData[service.ConnectionStatus](t, w)
	assert.True(t, status.Connected)
	assert.Equal(t, service.MsgConnectionOK, status.Message)
}

func TestConnectionCheckRetriesLoad(t *testing.T) {
	ts := newTestServer(t, nil)
	require.Error(t, ts.svc.Loader.Ready())

	w := ts.do(http.MethodPost, "/api/ajustes/verificar-conexion", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, ts.svc.Loader.Ready())
	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/api/parcelas", nil).Code)
}

func TestParcelLifecycle(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.load(t)

	w := ts.do(http.MethodPost, "/api/parcelas", map[string]any{"nombre": "Olivar", "ubicacion": "Jaén", "superficie": 2.5})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	parcel := decodeData[model.Parcel](t, w)
	require.NotEmpty(t, parcel.ID)
	assert.Equal(t, "Olivar", ts.store.Rows(model.TableParcels)[0]["nombre"])

	w = ts.do(http.MethodPost, "/api/cultivos", map[string]any{"parcelaId": parcel.ID, "nombreCultivo": "Picual"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = ts.do(http.MethodPut, "/api/parcelas/"+parcel.ID, map[string]any{"nombre": "Olivar Viejo", "superficie": 3})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Olivar Viejo", decodeData[model.Parcel](t, w).Name)

	w = ts.do(http.MethodGet, "/api/parcelas", nil)
	assert.Len(t, decodeData[[]model.Parcel](t, w), 1)

	w = ts.do(http.MethodDelete, "/api/parcelas/"+parcel.ID, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.do(http.MethodDelete, "/api/parcelas/"+parcel.ID+"?confirm=true", nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Empty(t, ts.store.Rows(model.TableParcels))
	assert.Empty(t, ts.store.Rows(model.TableCrops))
	assert.Empty(t, decodeData[[]model.Crop](t, ts.do(http.MethodGet, "/api/cultivos", nil)))
}

func TestErrorStatuses(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.load(t)

	w := ts.do(http.MethodPost, "/api/parcelas", map[string]any{"ubicacion": "sin nombre"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPost, "/api/cultivos", map[string]any{"parcelaId": "missing", "nombreCultivo": "Trigo"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPut, "/api/trabajos/missing", map[string]any{"fechaProgramada": "2024-05-01", "descripcionTarea": "Poda"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(http.MethodDelete, "/api/cultivos/missing?confirm=true", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	ts.store.FailOn("Insert", model.TableTasks, errors.New("Could not find the 'horas_trabajo' column of 'trabajos' in the schema cache"))
	w = ts.do(http.MethodPost, "/api/trabajos", map[string]any{"fechaProgramada": "2024-05-01", "descripcionTarea": "Poda", "horasTrabajo": 4})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	msg := decode(t, w).Error
	assert.Contains(t, msg, "'horas_trabajo'")
	assert.Contains(t, msg, "'trabajos'")
	assert.Empty(t, decodeData[[]model.Task](t, ts.do(http.MethodGet, "/api/trabajos", nil)))
}

func TestInvoiceEchoGapAndPDF(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.load(t)
	ts.store.HideReads(model.TableInvoices)

	w := ts.do(http.MethodPost, "/api/facturas", map[string]any{
		"numeroFactura":    "2024/001",
		"fecha":            "2024-05-01",
		"tipo":             "emitida",
		"clienteProveedor": "Cooperativa",
		"baseImponible":    100,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	env := decode(t, w)
	assert.NotEmpty(t, env.Warning)

	var inv model.Invoice
	require.NoError(t, json.Unmarshal(env.Data, &inv))
	assert.True(t, inv.Total.Equal(decimal.NewFromInt(121)), inv.Total.String())

	w = ts.do(http.MethodGet, "/api/facturas/"+inv.ID+"/pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "factura-2024_001.pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestListPagination(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.load(t)
	for _, concept := range []string{"Gasoil", "Abono", "Semillas"} {
		w := ts.do(http.MethodPost, "/api/registros", map[string]any{"tipo": "gasto", "fecha": "2024-03-01", "concepto": concept, "cantidad": "10.50"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := ts.do(http.MethodGet, "/api/registros?page=2&limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 3, env.Meta.Total)
	assert.Len(t, decodeData[[]model.FinancialRecord](t, w), 1)

	assert.Len(t, decodeData[[]model.FinancialRecord](t, ts.do(http.MethodGet, "/api/registros?tipo=ingreso", nil)), 0)
}

func TestBackupExportImport(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.load(t)
	require.Equal(t, http.StatusCreated, ts.do(http.MethodPost, "/api/parcelas", map[string]any{"nombre": "Viña", "superficie": 1}).Code)
	require.Equal(t, http.StatusOK, ts.do(http.MethodPut, "/api/ajustes/datos-fiscales", map[string]any{"nombreORazonSocial": "Finca", "nifCif": "B1"}).Code)

	w := ts.do(http.MethodGet, "/api/ajustes/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "cuaderno-campo-backup-")
	exported := w.Body.Bytes()

	require.Equal(t, http.StatusCreated, ts.do(http.MethodPost, "/api/parcelas", map[string]any{"nombre": "Extra", "superficie": 1}).Code)
	require.Len(t, ts.store.Rows(model.TableParcels), 2)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "backup.json")
	require.NoError(t, err)
	_, _ = part.Write(exported)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/ajustes/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w = httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Len(t, ts.store.Rows(model.TableParcels), 1)
	parcels := decodeData[[]model.Parcel](t, ts.do(http.MethodGet, "/api/parcelas", nil))
	require.Len(t, parcels, 1)
	assert.Equal(t, "Viña", parcels[0].Name)

	w = ts.do(http.MethodPost, "/api/ajustes/import", map[string]any{"appName": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboard(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.load(t)
	require.Equal(t, http.StatusCreated, ts.do(http.MethodPost, "/api/parcelas", map[string]any{"nombre": "Olivar", "superficie": 2.5}).Code)

	w := ts.do(http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decodeData[map[string]any](t, w)
	assert.EqualValues(t, 1, stats["parcelasTotales"])
	assert.Equal(t, true, stats["conexionBaseDatos"])
}

func TestAssistant(t *testing.T) {
	ts := newTestServer(t, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("prompt", "¿Cuándo riego?"))
	part, err := mw.CreateFormFile("image", "hoja.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("\x89PNG\r\n\x1a\nfake"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/asistente", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Riegue al atardecer.", decodeData[AnswerResponse](t, w).Answer)

	fake := ts.svc.Assistant.(*fakeAssistant)
	require.NotNil(t, fake.image)
	assert.Equal(t, "image/png", fake.image.MIMEType)

	w = ts.do(http.MethodPost, "/api/asistente", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssistantDisabled(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.svc.Assistant = assistant.Disabled{}
	router := NewRouter(ts.svc, RouterOptions{AllowedOrigins: []string{"http://localhost:5173"}})

	body := strings.NewReader("prompt=hola")
	req := httptest.NewRequest(http.MethodPost, "/api/asistente", body)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSessionRequiredWhenPasscodeSet(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("olivo"), bcrypt.MinCost)
	require.NoError(t, err)
	ts := newTestServer(t, service.NewAuthService(string(hash), "secret", time.Hour))
	ts.load(t)

	assert.Equal(t, http.StatusUnauthorized, ts.do(http.MethodGet, "/api/parcelas", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, ts.do(http.MethodPost, "/api/auth/login", map[string]any{"passcode": "nope"}).Code)

	w := ts.do(http.MethodPost, "/api/auth/login", map[string]any{"passcode": "olivo"})
	require.Equal(t, http.StatusOK, w.Code)
	token := decodeData[service.TokenResponse](t, w).Token
	require.NotEmpty(t, token)

	req := httptest.NewRequest(http.MethodGet, "/api/parcelas", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
