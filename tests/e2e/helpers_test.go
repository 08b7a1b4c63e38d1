package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"strings"
	"testing"
	"time"
)

// 起動済みのAPIサーバーに対して外側から叩くテスト。
// BASE_URL未設定ならスキップする。国マスタはcmd/seedで投入しておくこと。
func requireServer(t *testing.T) string {
	t.Helper()

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		t.Skip("BASE_URL not set; skipping e2e")
	}
	return strings.TrimRight(baseURL, "/")
}

type TestClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewTestClient(t *testing.T) *TestClient {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New failed: %v", err)
	}

	return &TestClient{
		BaseURL: requireServer(t),
		HTTP: &http.Client{
			Jar:     jar,
			Timeout: 10 * time.Second,
		},
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type UserDTO struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	CountryCode string `json:"country_code"`
}

type JwtAccessToken struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenVersion int    `json:"token_version"`
}

type AuthLoginResponse struct {
	User  UserDTO        `json:"user"`
	Token JwtAccessToken `json:"token"`
}

type OrderDTO struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	PricePerItem  int64  `json:"price_per_item"`
	CurrencyCode  string `json:"currency_code"`
	MinimumOrders int64  `json:"minimum_orders"`
	IsPublished   bool   `json:"is_published"`
}

type ProgressDTO struct {
	CurrentCount   int64   `json:"current_count"`
	FillPercentage float64 `json:"fill_percentage"`
	SpotsRemaining int64   `json:"spots_remaining"`
	Active         bool    `json:"active"`
}

type OrderDetailResponse struct {
	Order    OrderDTO    `json:"order"`
	Progress ProgressDTO `json:"progress"`
}

type SubmissionDTO struct {
	ID            string `json:"id"`
	OrderID       string `json:"order_id"`
	BuyerName     string `json:"buyer_name"`
	Quantity      int64  `json:"quantity"`
	PaymentStatus string `json:"payment_status"`
}

// doJSONはJSONボディ付きのリクエストを投げてレスポンスを返す。
// bodyがnilならボディなし。bearerが空ならAuthorizationを付けない。
func (c *TestClient) doJSON(t *testing.T, method string, path string, bearer string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	req.Header.Set("User-Agent", "e2e-test")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body failed: %v", err)
	}
	return resp, raw
}

func decodeInto(t *testing.T, raw []byte, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("unmarshal failed: %v (body=%s)", err, string(raw))
	}
}

// registerAndLoginはテスト専用のGOMアカウントを作ってログインする。
func registerAndLogin(t *testing.T, c *TestClient) (UserDTO, string) {
	t.Helper()

	n := time.Now().UnixNano()
	email := fmt.Sprintf("e2e+%d@test.local", n)
	username := fmt.Sprintf("e2e_%d", n)

	resp, raw := c.doJSON(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":        email,
		"password":     "long-enough-password",
		"full_name":    "E2E Gom",
		"username":     username,
		"country_code": "PH",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register failed: status=%d body=%s", resp.StatusCode, string(raw))
	}

	resp, raw = c.doJSON(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": "long-enough-password",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: status=%d body=%s", resp.StatusCode, string(raw))
	}

	var out AuthLoginResponse
	decodeInto(t, raw, &out)
	return out.User, out.Token.AccessToken
}
