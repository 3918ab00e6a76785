package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"hrportal/internal/platform/config"
)

const (
	defaultLoginBase = "https://login.microsoftonline.com"
	defaultGraphBase = "https://graph.microsoft.com/v1.0"
	graphScope       = "https://graph.microsoft.com/.default"

	userSelectFields = "id,displayName,givenName,surname,mail,userPrincipalName,jobTitle,department,mobilePhone,officeLocation"
	userFilter       = "accountEnabled eq true"
)

// APIError is returned for any failed provider call so callers can tell
// "directory unreachable" apart from an empty result.
type APIError struct {
	Op     string
	Status int
	Err    error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("graph %s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("graph %s: %v", e.Op, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// User is the subset of directory attributes the sync consumes.
type User struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	GivenName         string `json:"givenName"`
	Surname           string `json:"surname"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
	JobTitle          string `json:"jobTitle"`
	Department        string `json:"department"`
	MobilePhone       string `json:"mobilePhone"`
	OfficeLocation    string `json:"officeLocation"`
}

type Client struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	Mailbox      string
	LoginBase    string
	GraphBase    string
	HTTP         *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func New(cfg config.Config) *Client {
	return &Client{
		TenantID:     cfg.GraphTenantID,
		ClientID:     cfg.GraphClientID,
		ClientSecret: cfg.GraphClientSecret,
		Mailbox:      cfg.SharedMailbox,
		LoginBase:    defaultLoginBase,
		GraphBase:    defaultGraphBase,
		HTTP:         &http.Client{Timeout: cfg.GraphTimeout},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// accessToken acquires (and caches) a client-credentials token.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.ClientID},
		"client_secret": {c.ClientSecret},
		"scope":         {graphScope},
	}
	endpoint := fmt.Sprintf("%s/%s/oauth2/v2.0/token", c.LoginBase, c.TenantID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &APIError{Op: "token", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", &APIError{Op: "token", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{Op: "token", Status: resp.StatusCode}
	}

	var payload tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", &APIError{Op: "token", Err: err}
	}
	if payload.AccessToken == "" {
		return "", &APIError{Op: "token", Err: fmt.Errorf("empty access token")}
	}

	c.token = payload.AccessToken
	// Refresh a minute early.
	c.tokenExpiry = time.Now().Add(time.Duration(payload.ExpiresIn)*time.Second - time.Minute)
	return c.token, nil
}

// ListUsers returns all enabled directory users, following @odata.nextLink
// pagination.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/users?$select=%s&$filter=%s",
		c.GraphBase, url.QueryEscape(userSelectFields), url.QueryEscape(userFilter))

	var users []User
	for endpoint != "" {
		var page struct {
			Value    []User `json:"value"`
			NextLink string `json:"@odata.nextLink"`
		}
		if err := c.getJSON(ctx, token, endpoint, &page); err != nil {
			return nil, err
		}
		users = append(users, page.Value...)
		endpoint = page.NextLink
	}
	return users, nil
}

func (c *Client) getJSON(ctx context.Context, token, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &APIError{Op: "list_users", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &APIError{Op: "list_users", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &APIError{Op: "list_users", Status: resp.StatusCode}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type mailMessage struct {
	Message struct {
		Subject string `json:"subject"`
		Body    struct {
			ContentType string `json:"contentType"`
			Content     string `json:"content"`
		} `json:"body"`
		ToRecipients []struct {
			EmailAddress struct {
				Address string `json:"address"`
			} `json:"emailAddress"`
		} `json:"toRecipients"`
	} `json:"message"`
	SaveToSentItems string `json:"saveToSentItems"`
}

// SendMail delivers an HTML message from the shared mailbox.
func (c *Client) SendMail(ctx context.Context, to, subject, htmlBody string) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	var payload mailMessage
	payload.Message.Subject = subject
	payload.Message.Body.ContentType = "HTML"
	payload.Message.Body.Content = htmlBody
	payload.Message.ToRecipients = make([]struct {
		EmailAddress struct {
			Address string `json:"address"`
		} `json:"emailAddress"`
	}, 1)
	payload.Message.ToRecipients[0].EmailAddress.Address = to
	payload.SaveToSentItems = "true"

	body, err := json.Marshal(payload)
	if err != nil {
		return &APIError{Op: "send_mail", Err: err}
	}

	endpoint := fmt.Sprintf("%s/users/%s/sendMail", c.GraphBase, url.PathEscape(c.Mailbox))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return &APIError{Op: "send_mail", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &APIError{Op: "send_mail", Err: err}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		return &APIError{Op: "send_mail", Status: resp.StatusCode}
	}
	return nil
}
