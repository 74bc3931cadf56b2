package service

import (
	"context"
	"net/http"

	"github.com/zdaf-zdaf/group-platform/internal/client"
	domainauth "github.com/zdaf-zdaf/group-platform/internal/domain/auth"
	apperrors "github.com/zdaf-zdaf/group-platform/internal/errors"
	"github.com/zdaf-zdaf/group-platform/internal/ports"
)

// AuthAPI calls the backend's authentication endpoints.
type AuthAPI struct {
	client *client.Client
}

var _ ports.RemoteAuth = (*AuthAPI)(nil)

// NewAuthAPI constructs an AuthAPI.
func NewAuthAPI(c *client.Client) *AuthAPI {
	return &AuthAPI{client: c}
}

// Login exchanges credentials for a token pair and profile.
func (a *AuthAPI) Login(ctx context.Context, in domainauth.LoginInput) (domainauth.LoginResult, error) {
	var res domainauth.LoginResult
	err := a.client.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   "auth/login/",
		Body:   in,
		Public: true,
	}, &res)
	if err != nil {
		return domainauth.LoginResult{}, apperrors.WithFallback(err, "登录失败")
	}
	return res, nil
}

// Register creates an account.
func (a *AuthAPI) Register(ctx context.Context, in domainauth.RegisterInput) error {
	err := a.client.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   "auth/register/",
		Body:   in,
		Public: true,
	}, nil)
	return apperrors.WithFallback(err, "未知注册错误")
}

// GetUserInfo fetches the profile bound to token. An empty token falls back to the
// session credential.
func (a *AuthAPI) GetUserInfo(ctx context.Context, token string) (domainauth.UserProfile, error) {
	req := client.Request{Method: http.MethodGet, Path: "auth/user"}
	if token != "" {
		req.Header = http.Header{"Authorization": {"Bearer " + token}}
	}
	var profile domainauth.UserProfile
	if err := a.client.Do(ctx, req, &profile); err != nil {
		return domainauth.UserProfile{}, apperrors.Relabel(err, "获取用户信息失败")
	}
	return profile, nil
}

// UpdateUserProfile patches the editable profile fields.
func (a *AuthAPI) UpdateUserProfile(ctx context.Context, upd domainauth.ProfileUpdate) error {
	err := a.client.Do(ctx, client.Request{
		Method: http.MethodPatch,
		Path:   "auth/user/profile/",
		Body:   upd,
	}, nil)
	return apperrors.WithFallback(err, "更新用户信息失败")
}
