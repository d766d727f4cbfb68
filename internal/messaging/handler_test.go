package messaging

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/propnest/internal/apperr"
)

// asQueryUser stands in for the JWT middleware.
func asQueryUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if uid := c.QueryParam("uid"); uid != "" {
			c.Set("user_id", uid)
		}
		return next(c)
	}
}

func newTestEcho(h *Handler) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = apperr.HTTPErrorHandler
	g := e.Group("/messages", asQueryUser)
	g.POST("", h.SendMessage)
	g.GET("", h.ListMessages)
	g.PATCH("/:id/read", h.MarkMessageRead)
	g.GET("/ws", h.Feed)
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSendMessageHandler(t *testing.T) {
	hub := NewHub()
	svc := NewService(&memRepo{}, nil, hub)
	e := newTestEcho(&Handler{Svc: svc, Hub: hub})

	rec := do(e, http.MethodPost, "/messages?uid=b1",
		`{"senderName":"Priya","senderEmail":"p@x.com","message":"Interested","ownerId":"o1"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Success bool    `json:"success"`
		Message Enquiry `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, StatusUnread, resp.Message.Status)

	rec = do(e, http.MethodGet, "/messages?uid=o1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"senderName":"Priya"`)

	rec = do(e, http.MethodPatch, "/messages/"+resp.Message.ID+"/read?uid=o1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"read"`)
}

func TestSendMessageHandlerErrors(t *testing.T) {
	svc := NewService(&memRepo{}, nil, nil)
	e := newTestEcho(&Handler{Svc: svc})

	rec := do(e, http.MethodPost, "/messages", `{"senderName":"Priya"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodPost, "/messages?uid=b1", `{"senderName":"","senderEmail":"p@x.com","message":"Hi"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "senderName is required")
}

func TestFeedReceivesNewEnquiries(t *testing.T) {
	hub := NewHub()
	svc := NewService(&memRepo{}, nil, hub)
	srv := httptest.NewServer(newTestEcho(&Handler{Svc: svc, Hub: hub}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/messages/ws?uid=o1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Subscribers("o1") == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish("o2", Event{Type: EventNew, Data: "not for o1"})
	hub.Publish("o1", Event{Type: EventNew, Data: map[string]string{"id": "m1"}})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var evt struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&evt))
	assert.Equal(t, EventNew, evt.Type)
	assert.Equal(t, "m1", evt.Data["id"])

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Subscribers("o1") == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestFeedDropsStalledConnection(t *testing.T) {
	hub := NewHub()
	hub.WriteTimeout = 200 * time.Millisecond
	svc := NewService(&memRepo{}, nil, hub)
	srv := httptest.NewServer(newTestEcho(&Handler{Svc: svc, Hub: hub}))
	defer srv.Close()

	// this client never reads, so a large frame fills the socket buffers
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/messages/ws?uid=o1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Subscribers("o1") == 1 }, 2*time.Second, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		defer close(done)
		hub.Publish("o1", Event{Type: EventNew, Data: strings.Repeat("x", 64<<20)})
	}()

	// the hub stays usable while the write is pending
	assert.Equal(t, 0, hub.Subscribers("o2"))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("publish blocked past the write timeout")
	}
	assert.Equal(t, 0, hub.Subscribers("o1"))
}
