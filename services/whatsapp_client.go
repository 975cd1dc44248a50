package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// SendResult is the outcome of an outbound WhatsApp call. The client never
// returns an error to callers; failures are captured here instead.
type SendResult struct {
	Success bool                   `json:"success"`
	Error   string                 `json:"error,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

// OrderItemLine is a single line of the order-confirmation message.
type OrderItemLine struct {
	ProductName string
	Quantity    int
}

// WhatsAppSender sends templated messages to a customer's phone number.
type WhatsAppSender interface {
	SendMessage(ctx context.Context, to, body string) SendResult
	SendOrderConfirmation(ctx context.Context, customerName, customerPhone, orderID string, items []OrderItemLine, total float64) SendResult
	SendDeliveryConfirmation(ctx context.Context, customerName, customerPhone, orderID string) SendResult
	SendReminder(ctx context.Context, customerName, customerPhone string, daysUntilEstimated int) SendResult
}

// WhatsAppClient talks to a WhatsApp Business API endpoint
// (360Dialog, Twilio and the official Cloud API share this payload shape).
type WhatsAppClient struct {
	apiURL     string
	apiToken   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewWhatsAppClient builds a client for the given API base. When
// phoneNumberID is set the Cloud API message endpoint
// <base>/<phone_number_id>/messages is composed; otherwise apiURL is used
// as-is (360Dialog-style endpoints carry no phone number in the path).
func NewWhatsAppClient(apiURL, apiToken, phoneNumberID string, logger *zap.Logger) *WhatsAppClient {
	endpoint := apiURL
	if phoneNumberID != "" {
		endpoint = strings.TrimRight(apiURL, "/") + "/" + phoneNumberID + "/messages"
	}
	return &WhatsAppClient{
		apiURL:   endpoint,
		apiToken: apiToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// NormalizePhone strips formatting characters, leaving digits only
// (e.g. "+55 (27) 999-999" -> "5527999999").
func NormalizePhone(phone string) string {
	replacer := strings.NewReplacer("+", "", "-", "", " ", "", "(", "", ")", "")
	return replacer.Replace(phone)
}

type whatsAppText struct {
	Body string `json:"body"`
}

type whatsAppPayload struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             whatsAppText `json:"text"`
}

func (c *WhatsAppClient) SendMessage(ctx context.Context, to, body string) SendResult {
	payload := whatsAppPayload{
		MessagingProduct: "whatsapp",
		To:               NormalizePhone(to),
		Type:             "text",
		Text:             whatsAppText{Body: body},
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return SendResult{Success: false, Error: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(raw))
	if err != nil {
		return SendResult{Success: false, Error: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("WhatsApp request failed", zap.Error(err))
		return SendResult{Success: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errMsg := fmt.Sprintf("whatsapp api returned %d: %s", resp.StatusCode, string(respBody))
		c.logger.Warn("WhatsApp send rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("to", payload.To),
		)
		return SendResult{Success: false, Error: errMsg}
	}

	var data map[string]interface{}
	_ = json.Unmarshal(respBody, &data)

	return SendResult{Success: true, Data: data}
}

func (c *WhatsAppClient) SendOrderConfirmation(ctx context.Context, customerName, customerPhone, orderID string, items []OrderItemLine, total float64) SendResult {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("• %dx %s", item.Quantity, item.ProductName))
	}

	message := fmt.Sprintf(`🎉 *Pedido Confirmado!*

Olá %s!

Seu pedido #%s foi confirmado com sucesso.

*Itens:*
%s

*Total:* R$ %.2f

Em breve entraremos em contato para agendar a entrega.

Obrigado pela preferência! 🚚`, customerName, orderID, strings.Join(lines, "\n"), total)

	return c.SendMessage(ctx, customerPhone, message)
}

func (c *WhatsAppClient) SendDeliveryConfirmation(ctx context.Context, customerName, customerPhone, orderID string) SendResult {
	message := fmt.Sprintf(`✅ *Entrega Concluída!*

Olá %s!

Seu pedido #%s foi entregue com sucesso.

Esperamos que aproveite! Se precisar de algo, estamos à disposição.

Até a próxima! 😊`, customerName, orderID)

	return c.SendMessage(ctx, customerPhone, message)
}

func (c *WhatsAppClient) SendReminder(ctx context.Context, customerName, customerPhone string, daysUntilEstimated int) SendResult {
	message := fmt.Sprintf(`🔔 *Lembrete Automático*

Olá %s!

Estimamos que em aproximadamente %d dias você precisará de um novo pedido.

Gostaria de fazer um pedido agora? Estamos prontos para atendê-lo! 📞

Responda esta mensagem ou entre em contato conosco.`, customerName, daysUntilEstimated)

	return c.SendMessage(ctx, customerPhone, message)
}
