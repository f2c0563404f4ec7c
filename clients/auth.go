package clients

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"booking-service/data"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

var ErrUnauthorized = errors.New("unauthorized")

// CurrentUser is the identity resolved by the auth service. The booking core
// trusts it; authentication itself happens over there.
type CurrentUser struct {
	ID   string        `json:"id"`
	Role data.UserRole `json:"userRole"`
}

// AuthClient resolves the caller's identity from the auth service over HTTPS.
// The call runs behind a circuit breaker so an unhealthy auth service sheds
// load fast instead of tying up request workers.
type AuthClient struct {
	baseURL        string
	Tracer         trace.Tracer
	CircuitBreaker *gobreaker.CircuitBreaker
}

func NewAuthClient(baseURL string, tracer trace.Tracer) *AuthClient {
	circuitBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "HTTPSRequest",
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			fmt.Printf("Circuit Breaker state changed from %s to %s\n", from, to)
		},
	})

	return &AuthClient{
		baseURL:        baseURL,
		Tracer:         tracer,
		CircuitBreaker: circuitBreaker,
	}
}

func (a *AuthClient) GetCurrentUser(ctx context.Context, token string) (*CurrentUser, error) {
	spanCtx, span := a.Tracer.Start(ctx, "AuthClient.GetCurrentUser")
	defer span.End()

	url := a.baseURL + "/api/users/currentUser"

	timeout := 5 * time.Second
	reqCtx, cancel := context.WithTimeout(spanCtx, timeout)
	defer cancel()

	resp, err := a.performRequestWithContext(reqCtx, token, url)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		span.SetStatus(codes.Error, "Unauthorized")
		return nil, ErrUnauthorized
	}

	var response struct {
		LoggedInUser CurrentUser `json:"user"`
		Message      string      `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return &response.LoggedInUser, nil
}

func (a *AuthClient) performRequestWithContext(ctx context.Context, token string, url string) (*http.Response, error) {
	_, span := a.Tracer.Start(ctx, "AuthClient.performRequestWithContext")
	defer span.End()

	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}

	result, err := a.CircuitBreaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequest("GET", url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", token)
		otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

		client := &http.Client{Transport: tr}
		return client.Do(req.WithContext(ctx))
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return result.(*http.Response), nil
}
