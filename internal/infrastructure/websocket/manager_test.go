package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bazaarbondhu/internal/domain/service"
)

func TestManager_NotifyReachesOnlyTheAccount(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewManager()
	m.Start(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		client := NewClient(r.URL.Query().Get("email"), conn)
		m.Register <- client
		go client.ReadPump(m)
		go client.WritePump()
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	vendor, _, err := websocket.DefaultDialer.Dial(wsURL+"?email=v@x.com", nil)
	require.NoError(t, err)
	defer vendor.Close()

	require.Eventually(t, func() bool { return m.Connected("V@x.com") == 1 }, time.Second, 10*time.Millisecond)

	m.Notify("v@x.com", service.Notification{Type: service.NotifyProductApproved, Message: "Rice was approved"})

	_ = vendor.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := vendor.ReadMessage()
	require.NoError(t, err)

	var got service.Notification
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, service.NotifyProductApproved, got.Type)
	assert.Equal(t, 0, m.Connected("someone@else.com"))
}
