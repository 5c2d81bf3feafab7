package controllers

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogem/time-tracker/events"
	"github.com/blogem/time-tracker/models"
	"github.com/blogem/time-tracker/userctx"
)

func TestErrorStatus(t *testing.T) {
	cases := map[error]int{
		fmt.Errorf("wrap: %w", models.ErrValidation):     http.StatusBadRequest,
		fmt.Errorf("wrap: %w", models.ErrDuplicateEmail): http.StatusConflict,
		fmt.Errorf("wrap: %w", models.ErrNotFound):       http.StatusNotFound,
		models.ErrInvalidCredentials:                     http.StatusUnauthorized,
		models.ErrEmployeeNotFound:                       http.StatusUnauthorized,
		fmt.Errorf("disk I/O error"):                     http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, errorStatus(err), err.Error())
	}

	_, err := models.ParseLogType("lunch")
	assert.Equal(t, http.StatusBadRequest, errorStatus(err))
}

func TestFilterFromQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/reports?employee_id=e1&period=CUSTOM&date=2026-10-01", nil)
	filter := filterFromQuery(req)

	assert.Equal(t, "e1", filter.EmployeeID)
	assert.Equal(t, models.PeriodCustom, filter.Period)
	assert.Equal(t, "2026-10-01", filter.Date)
	assert.Equal(t, "date=2026-10-01&employee_id=e1&period=custom", filterQuery(filter).encode())

	empty := filterFromQuery(httptest.NewRequest(http.MethodGet, "/reports", nil))
	assert.Equal(t, models.PeriodAll, empty.Period)
	assert.Equal(t, "period=all", filterQuery(empty).encode())
}

func TestVisibleTo(t *testing.T) {
	admin := &models.Identity{Role: models.RoleAdmin}
	alice := &models.Identity{Role: models.RoleEmployee, EmployeeID: "e1"}

	own := models.ChangeEvent{Table: models.TableTimeLogs, Record: models.TimeLog{EmployeeID: "e1"}}
	other := models.ChangeEvent{Table: models.TableTimeLogs, Record: models.TimeLog{EmployeeID: "e2"}}
	deleted := models.ChangeEvent{Table: models.TableEmployees, Type: models.ChangeDelete, Record: map[string]string{"id": "e2"}}

	assert.True(t, visibleTo(admin, other))
	assert.True(t, visibleTo(admin, deleted))
	assert.True(t, visibleTo(alice, own))
	assert.False(t, visibleTo(alice, other))
	assert.False(t, visibleTo(alice, deleted))
	assert.False(t, visibleTo(nil, own))

	removed := models.ChangeEvent{Table: models.TableEmployees, Type: models.ChangeDelete, Record: map[string]string{"id": "e1"}}
	assert.True(t, visibleTo(alice, removed))
}

func TestPageWatch(t *testing.T) {
	assert.Contains(t, page{CurrentPage: "tracker"}.Watch(), models.TableTimeLogs)
	assert.Equal(t, models.TableEmployees, page{CurrentPage: "employees"}.Watch())
	assert.Empty(t, page{CurrentPage: "login"}.Watch())
}

func TestEventsStream(t *testing.T) {
	broker := events.NewBroker(4)
	ctrl := NewEventsController(broker)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := userctx.SetIdentity(r.Context(), &models.Identity{Role: models.RoleAdmin, Email: "admin@company.com"})
		ctrl.Stream(w, r.WithContext(ctx))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return broker.SubscriberCount() == 1 }, time.Second, 5*time.Millisecond)
	broker.Publish(models.ChangeEvent{Table: models.TableEmployees, Type: models.ChangeInsert, Record: models.Employee{ID: "e9", Name: "Dana"}})

	reader := bufio.NewReader(resp.Body)
	var lines []string
	for len(lines) < 2 {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "event:") || strings.HasPrefix(line, "data:") {
			lines = append(lines, line)
		}
	}

	assert.Equal(t, "event: change", lines[0])
	assert.Contains(t, lines[1], `"table":"employees"`)
	assert.Contains(t, lines[1], `"type":"INSERT"`)
}

func TestEventsStreamWithoutBroker(t *testing.T) {
	rec := httptest.NewRecorder()
	NewEventsController(nil).Stream(rec, httptest.NewRequest(http.MethodGet, "/events", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
