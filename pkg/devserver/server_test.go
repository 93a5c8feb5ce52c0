package devserver

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestMessageEncoding(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want string
	}{
		{"reload", Reload("app.vex"), `{"type":"reload","file":"app.vex"}`},
		{"diagnostics", Diagnostics("app.vex", []string{"app.vex:1:4: error[2001]: v-else has no preceding v-if"}),
			`{"type":"diagnostics","file":"app.vex","payload":["app.vex:1:4: error[2001]: v-else has no preceding v-if"]}`},
		{"reload without file", Reload(""), `{"type":"reload"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.msg)
			require.NoError(t, err)
			require.JSONEq(t, tt.want, string(data))
		})
	}
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http"), nil)
	require.NoError(t, err)
	return ws
}

func TestBroadcastReachesClients(t *testing.T) {
	s := NewServer()
	httpSrv := httptest.NewServer(s)
	defer httpSrv.Close()
	defer s.Close()

	ws1 := dial(t, httpSrv.URL)
	defer ws1.Close()
	ws2 := dial(t, httpSrv.URL)
	defer ws2.Close()

	require.Eventually(t, func() bool { return s.Clients() == 2 },
		time.Second, 10*time.Millisecond)

	require.Equal(t, 2, s.Broadcast(Reload("card.vex")))

	for _, ws := range []*websocket.Conn{ws1, ws2} {
		ws.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := ws.ReadMessage()
		require.NoError(t, err)

		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		require.Equal(t, TypeReload, msg.Type)
		require.Equal(t, "card.vex", msg.File)
	}
}

func TestDisconnectedClientIsDropped(t *testing.T) {
	s := NewServer()
	httpSrv := httptest.NewServer(s)
	defer httpSrv.Close()
	defer s.Close()

	ws := dial(t, httpSrv.URL)
	require.Eventually(t, func() bool { return s.Clients() == 1 },
		time.Second, 10*time.Millisecond)

	ws.Close()
	require.Eventually(t, func() bool { return s.Clients() == 0 },
		time.Second, 10*time.Millisecond)

	require.Equal(t, 0, s.Broadcast(Reload("card.vex")))
}
