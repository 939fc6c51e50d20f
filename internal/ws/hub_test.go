package ws_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/commt/commitments/internal/domain"
	"github.com/commt/commitments/internal/ws"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
)

// staticTokens maps raw token strings to users.
type staticTokens map[string]uuid.UUID

func (s staticTokens) UserID(token string) (uuid.UUID, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return uuid.Nil, domain.ErrTokenInvalid
}

func startHub(t *testing.T, tokens ws.TokenParser) (*ws.Hub, string) {
	t.Helper()
	hub := ws.NewHub(tokens, nil)
	go hub.Run()
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	t.Cleanup(func() {
		srv.Close()
		hub.Stop()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *ws.Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ConnectedCount() < n {
		if time.Now().After(deadline) {
			t.Fatalf("ConnectedCount = %d, want %d", hub.ConnectedCount(), n)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHub_DraftSubmittedReachesOwnerOnly(t *testing.T) {
	owner := uuid.New()
	hub, url := startHub(t, staticTokens{"owner-token": owner})

	ownerConn := dial(t, url+"?token=owner-token")
	anonConn := dial(t, url)
	waitForClients(t, hub, 2)

	sub := &domain.Submission{
		ID: uuid.New(),
		Draft: domain.SubmittedDraft{
			WizardID: uuid.New(), OwnerID: owner, Type: domain.TypeSafe,
			Amount: decimal.NewFromInt(1000), Asset: "XLM", DurationDays: 30,
			MaxLossPercent: decimal.NewFromInt(2),
		},
		SubmittedAt: time.Now().UTC(),
		Message:     "Commitment draft received",
	}
	hub.BroadcastDraftSubmitted(sub)

	_ = ownerConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := ownerConn.ReadMessage()
	if err != nil {
		t.Fatalf("owner read: %v", err)
	}
	var msg ws.DraftSubmittedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != ws.MsgTypeDraftSubmitted || msg.SubmissionID != sub.ID || msg.CommitmentType != domain.TypeSafe {
		t.Errorf("unexpected message: %+v", msg)
	}

	_ = anonConn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := anonConn.ReadMessage(); err == nil {
		t.Error("anonymous client received an owner-targeted event")
	} else {
		var netErr interface{ Timeout() bool }
		if !errors.As(err, &netErr) || !netErr.Timeout() {
			t.Errorf("anonymous read error = %v, want timeout", err)
		}
	}
}

func TestHub_OwnerlessDraftIsNotDelivered(t *testing.T) {
	nilUser := staticTokens{"nil-token": uuid.Nil}
	hub, url := startHub(t, nilUser)

	anonConn := dial(t, url)
	nilConn := dial(t, url+"?token=nil-token")
	waitForClients(t, hub, 2)

	hub.BroadcastDraftSubmitted(&domain.Submission{
		ID: uuid.New(),
		Draft: domain.SubmittedDraft{
			WizardID: uuid.New(), OwnerID: uuid.Nil, Type: domain.TypeSafe,
			Amount: decimal.NewFromInt(9999), Asset: "XLM", DurationDays: 30,
			MaxLossPercent: decimal.NewFromInt(2),
		},
		SubmittedAt: time.Now().UTC(),
	})

	for name, conn := range map[string]*websocket.Conn{"anonymous": anonConn, "nil-subject": nilConn} {
		_ = conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		_, data, err := conn.ReadMessage()
		if err == nil {
			t.Errorf("%s client received %s", name, data)
			continue
		}
		var netErr interface{ Timeout() bool }
		if !errors.As(err, &netErr) || !netErr.Timeout() {
			t.Errorf("%s read error = %v, want timeout", name, err)
		}
	}
}

func TestHub_InvalidTokenGetsErrorMessage(t *testing.T) {
	hub, url := startHub(t, staticTokens{})
	conn := dial(t, url+"?token=garbage")
	waitForClients(t, hub, 1)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg ws.ErrorMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != ws.MsgTypeError || msg.Code != "ERR_TOKEN_INVALID" {
		t.Errorf("unexpected message: %+v", msg)
	}
}
