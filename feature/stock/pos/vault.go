package pos

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

	"report-manager/core/faults"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Credential is the stored provider credential with its cached bearer token.
type Credential struct {
	ID          uint   `gorm:"primaryKey"`
	AppID       string `gorm:"size:128"`
	AppSecret   string `gorm:"size:128"`
	AccessToken string `gorm:"size:1024"`
	TokenExpiry *time.Time
	Active      bool `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName sets the credential table name.
func (Credential) TableName() string {
	return "pos_credentials"
}

// Vault manages the provider credential and token lifecycle.
type Vault struct {
	db     *gorm.DB
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// NewVault creates a credential vault.
func NewVault(db *gorm.DB, cfg Config, logger *zap.Logger) *Vault {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 15
	}
	return &Vault{
		db:     db,
		cfg:    cfg,
		http:   &http.Client{Timeout: time.Duration(timeout) * time.Second},
		logger: logger,
	}
}

// Token returns a valid bearer token, authenticating against the provider
// when the cached token is absent or past its expiry.
func (v *Vault) Token(ctx context.Context) (string, error) {
	cred, err := v.activeCredential(ctx)
	if err != nil {
		return "", err
	}

	if cred.AccessToken != "" && cred.TokenExpiry != nil && time.Now().Before(*cred.TokenExpiry) {
		return cred.AccessToken, nil
	}

	return v.authenticate(ctx, cred)
}

// Invalidate drops the cached token so the next Token call re-authenticates.
func (v *Vault) Invalidate(ctx context.Context) error {
	return v.db.WithContext(ctx).
		Model(&Credential{}).
		Where("active = ?", true).
		Updates(map[string]any{"access_token": "", "token_expiry": nil}).Error
}

// activeCredential loads the active credential record, bootstrapping one
// from the configured app credentials on first run.
func (v *Vault) activeCredential(ctx context.Context) (*Credential, error) {
	var cred Credential
	err := v.db.WithContext(ctx).Where("active = ?", true).First(&cred).Error
	if err == nil {
		return &cred, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if v.cfg.AppID == "" || v.cfg.AppSecret == "" {
		return nil, faults.New(faults.KindAuthentication, "no stored credential and no configured app credentials")
	}

	cred = Credential{
		AppID:     v.cfg.AppID,
		AppSecret: v.cfg.AppSecret,
		Active:    true,
	}
	if err := v.db.WithContext(ctx).Create(&cred).Error; err != nil {
		return nil, err
	}
	v.logger.Info("Bootstrapped POS credential from configuration")
	return &cred, nil
}

// authenticate exchanges the app credentials for a bearer token and persists
// the token with its computed expiry.
func (v *Vault) authenticate(ctx context.Context, cred *Credential) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"app_id":     cred.AppID,
		"app_secret": cred.AppSecret,
		"grant_type": "client_credentials",
	})
	if err != nil {
		return "", err
	}

	endpoint := strings.TrimRight(v.cfg.BaseURL, "/") + "/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := v.http.Do(req)
	if err != nil {
		return "", faults.Wrap(faults.KindAuthentication, err, "token request failed")
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", faults.New(faults.KindAuthentication,
			"provider rejected credentials (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", faults.Wrap(faults.KindAuthentication, err, "malformed token response")
	}
	if token.AccessToken == "" {
		return "", faults.New(faults.KindAuthentication, "token response missing access_token")
	}

	expiry := time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	cred.AccessToken = token.AccessToken
	cred.TokenExpiry = &expiry

	if err := v.db.WithContext(ctx).
		Model(&Credential{}).
		Where("id = ?", cred.ID).
		Updates(map[string]any{"access_token": token.AccessToken, "token_expiry": expiry}).Error; err != nil {
		return "", fmt.Errorf("failed to persist token: %w", err)
	}

	v.logger.Info("POS token refreshed", zap.Time("expires_at", expiry))
	return token.AccessToken, nil
}
