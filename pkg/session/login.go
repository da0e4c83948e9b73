package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/splinxplanet/go-backoffice/pkg/resource"
)

const loginPath = "/admin-login"

const loginTimeout = 20 * time.Second

type loginRequest struct {
	EmailAddress string `json:"emailAddress"`
	Password     string `json:"password"`
}

type loginResponse struct {
	Token string          `json:"token"`
	Admin resource.Record `json:"admin"`
}

// Login authenticates against the backend and installs the returned token and
// admin identity into the session. This is the client half of the session
// bootstrap; routing an unauthenticated user to the login screen is the host
// application's job.
func (s *Session) Login(ctx context.Context, hc *http.Client, baseURL, emailAddress, password string) error {
	if hc == nil {
		hc = http.DefaultClient
	}
	if strings.TrimSpace(baseURL) == "" {
		return errors.New("session login: base URL is required")
	}

	body, err := json.Marshal(loginRequest{EmailAddress: emailAddress, Password: password})
	if err != nil {
		return fmt.Errorf("session login: encode request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, loginTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, strings.TrimSuffix(baseURL, "/")+loginPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("session login: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("session login: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("session login: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("session login: unexpected status %s", resp.Status)
	}

	var parsed loginResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("session login: decode response: %w", err)
	}
	if parsed.Token == "" {
		return errors.New("session login: response carried no token")
	}

	s.setIdentity(parsed.Token, parsed.Admin)
	return nil
}
