package clients

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"booking-service/data"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// PaymentGatewayClient talks to the external payment collaborator. A charge
// that the gateway declines still returns a Payment (status failed); only
// transport-level problems come back as errors and abort the admission.
type PaymentGatewayClient struct {
	baseURL string
	logger  *logrus.Logger
	Tracer  trace.Tracer
}

func NewPaymentGatewayClient(baseURL string, logger *logrus.Logger, tracer trace.Tracer) *PaymentGatewayClient {
	return &PaymentGatewayClient{
		baseURL: baseURL,
		logger:  logger,
		Tracer:  tracer,
	}
}

func (p *PaymentGatewayClient) Charge(ctx context.Context, method string, amount float64, reference string) (*data.Payment, error) {
	spanCtx, span := p.Tracer.Start(ctx, "PaymentGatewayClient.Charge")
	defer span.End()

	body, err := json.Marshal(map[string]interface{}{
		"method":    method,
		"amount":    amount,
		"reference": reference,
	})
	if err != nil {
		return nil, err
	}

	resp, err := p.performRequestWithContext(spanCtx, "POST", p.baseURL+"/api/payments/charge", body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		p.logger.Warn("Payment gateway declined charge for ", reference)
		return &data.Payment{Method: method, Status: data.PaymentFailed}, nil
	}

	var charged struct {
		TransactionID string `json:"transactionId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&charged); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return &data.Payment{
		Method:        method,
		Status:        data.PaymentCompleted,
		TransactionID: charged.TransactionID,
	}, nil
}

func (p *PaymentGatewayClient) Refund(ctx context.Context, transactionID string) error {
	spanCtx, span := p.Tracer.Start(ctx, "PaymentGatewayClient.Refund")
	defer span.End()

	body, err := json.Marshal(map[string]string{"transactionId": transactionID})
	if err != nil {
		return err
	}

	resp, err := p.performRequestWithContext(spanCtx, "POST", p.baseURL+"/api/payments/refund", body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("refund of transaction %s rejected with status %d", transactionID, resp.StatusCode)
	}
	return nil
}

func (p *PaymentGatewayClient) performRequestWithContext(ctx context.Context, method, url string, body []byte) (*http.Response, error) {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}

	reqCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Transport: tr}
	return client.Do(req.WithContext(reqCtx))
}
