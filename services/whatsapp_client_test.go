package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"+55 (27) 999-999", "5527999999"},
		{"5527999990001", "5527999990001"},
		{"+55 27 99999-0001", "5527999990001"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizePhone(tc.input); got != tc.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestSendMessage(t *testing.T) {
	var gotAuth string
	var gotPayload whatsAppPayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &gotPayload); err != nil {
			t.Errorf("invalid payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"messages":[{"id":"wamid.test"}]}`))
	}))
	defer server.Close()

	client := NewWhatsAppClient(server.URL, "test-token", "", zap.NewNop())
	result := client.SendMessage(context.Background(), "+55 (27) 99999-0001", "olá")

	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want Bearer test-token", gotAuth)
	}
	if gotPayload.MessagingProduct != "whatsapp" {
		t.Errorf("messaging_product = %q", gotPayload.MessagingProduct)
	}
	if gotPayload.Type != "text" {
		t.Errorf("type = %q", gotPayload.Type)
	}
	if gotPayload.To != "5527999990001" {
		t.Errorf("to = %q, want digits only", gotPayload.To)
	}
	if gotPayload.Text.Body != "olá" {
		t.Errorf("body = %q", gotPayload.Text.Body)
	}
	if result.Data == nil {
		t.Error("expected response data to be captured")
	}
}

func TestPhoneNumberIDComposesEndpoint(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewWhatsAppClient(server.URL, "token", "1234567890", zap.NewNop())
	result := client.SendMessage(context.Background(), "5527999990001", "olá")

	if !result.Success {
		t.Fatalf("unexpected failure: %s", result.Error)
	}
	if gotPath != "/1234567890/messages" {
		t.Errorf("request path = %q, want /1234567890/messages", gotPath)
	}
}

func TestSendMessageAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid token"}`))
	}))
	defer server.Close()

	client := NewWhatsAppClient(server.URL, "bad-token", "", zap.NewNop())
	result := client.SendMessage(context.Background(), "5527999990001", "olá")

	if result.Success {
		t.Fatal("expected failure on 401")
	}
	if !strings.Contains(result.Error, "401") {
		t.Errorf("error %q should mention the status code", result.Error)
	}
}

func TestSendMessageNetworkError(t *testing.T) {
	// Closed server makes the request fail at the transport layer.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewWhatsAppClient(server.URL, "token", "", zap.NewNop())
	result := client.SendMessage(context.Background(), "5527999990001", "olá")

	if result.Success {
		t.Fatal("expected failure when the API is unreachable")
	}
	if result.Error == "" {
		t.Error("expected the transport error to be reported")
	}
}

func TestSendOrderConfirmation(t *testing.T) {
	var gotPayload whatsAppPayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotPayload)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewWhatsAppClient(server.URL, "token", "", zap.NewNop())
	items := []OrderItemLine{
		{ProductName: "Botijão P13", Quantity: 2},
		{ProductName: "Galão 20L", Quantity: 1},
	}
	result := client.SendOrderConfirmation(context.Background(), "Maria", "5527999990001", "abc123", items, 232.50)

	if !result.Success {
		t.Fatalf("unexpected failure: %s", result.Error)
	}
	body := gotPayload.Text.Body
	for _, want := range []string{
		"Pedido Confirmado",
		"Olá Maria!",
		"#abc123",
		"• 2x Botijão P13",
		"• 1x Galão 20L",
		"R$ 232.50",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("message missing %q:\n%s", want, body)
		}
	}
}

func TestSendReminder(t *testing.T) {
	var gotPayload whatsAppPayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotPayload)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewWhatsAppClient(server.URL, "token", "", zap.NewNop())
	result := client.SendReminder(context.Background(), "João", "5527999990002", 3)

	if !result.Success {
		t.Fatalf("unexpected failure: %s", result.Error)
	}
	if !strings.Contains(gotPayload.Text.Body, "Lembrete Automático") {
		t.Errorf("unexpected message: %s", gotPayload.Text.Body)
	}
	if !strings.Contains(gotPayload.Text.Body, "aproximadamente 3 dias") {
		t.Errorf("message should carry the estimate: %s", gotPayload.Text.Body)
	}
}
