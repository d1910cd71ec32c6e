package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/serviflex-scheduler/internal/audit"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/middleware"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/models"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/usecase/scheduling"
)

func TestBookingStream(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/me/bookings/stream?token=" + token(t, "p1")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	next := func() httpresp.ListResponse[models.Booking] {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var msg httpresp.ListResponse[models.Booking]
		require.NoError(t, conn.ReadJSON(&msg))
		return msg
	}

	assert.Equal(t, 0, next().Total)

	_, err = app.engine.CreateBooking(context.Background(), scheduling.BookingDraft{
		ProfessionalID: "p1",
		ClientID:       "c1",
		ClientName:     "Maria Silva",
		ClientPhone:    "11999990000",
		ServiceType:    "Limpeza",
		Date:           monday,
		StartTime:      "10:00",
		EndTime:        "11:00",
	})
	require.NoError(t, err)

	msg := next()
	require.Equal(t, 1, msg.Total)
	assert.Equal(t, "10:00", msg.Data[0].StartTime)
}

func TestBookingStreamRequiresToken(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/me/bookings/stream"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ======================================================
// AUDIT LOGS
// ======================================================

type fakeReader struct {
	professionalID string
	filter         audit.Filter
	err            error
}

func (f *fakeReader) List(_ context.Context, professionalID string, filter audit.Filter) ([]models.AuditLog, int64, error) {
	f.professionalID = professionalID
	f.filter = filter
	if f.err != nil {
		return nil, 0, f.err
	}
	return []models.AuditLog{{ProfessionalID: professionalID, Action: "booking_created"}}, 31, nil
}

func auditRouter(reader audit.Reader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/me/audit-logs", middleware.AuthMiddleware(secret), NewAuditLogsHandler(reader, nil).List)
	return r
}

func TestAuditLogsList(t *testing.T) {
	reader := &fakeReader{}
	app := testApp{router: auditRouter(reader)}

	w := app.do(t, http.MethodGet, "/api/me/audit-logs?page=3&limit=10&action=booking_created&from=2024-01-01&to=2024-01-31", "p1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "p1", reader.professionalID)
	assert.Equal(t, "booking_created", reader.filter.Action)
	assert.Equal(t, 10, reader.filter.Limit)
	assert.Equal(t, 20, reader.filter.Offset)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), reader.filter.From)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), reader.filter.To)

	body := decode[map[string]any](t, w)
	assert.EqualValues(t, 31, body["total"])
	assert.EqualValues(t, 3, body["page"])
}

func TestAuditLogsListDefaultsAndFailure(t *testing.T) {
	reader := &fakeReader{}
	app := testApp{router: auditRouter(reader)}

	w := app.do(t, http.MethodGet, "/api/me/audit-logs?page=-1&limit=1000&from=ontem", "p1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 50, reader.filter.Limit)
	assert.Equal(t, 0, reader.filter.Offset)
	assert.True(t, reader.filter.From.IsZero())

	reader.err = errors.New("down")
	w = app.do(t, http.MethodGet, "/api/me/audit-logs", "p1", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "audit_list_failed", errorCode(t, w))
}
